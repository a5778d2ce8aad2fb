//go:build linux

package platform

// Linux's sockaddr_un.sun_path is 108 bytes.
const maxSockPathLen = 108
