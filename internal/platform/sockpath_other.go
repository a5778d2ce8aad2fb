//go:build !linux

package platform

// BSD/Darwin's sockaddr_un.sun_path is 104 bytes, per
// original_source/src/rfs_client_listener.c's UNIX_PATH_MAX fallback.
const maxSockPathLen = 104
