// Package platform isolates the handful of OS-specific primitives the
// rendezvous listener and logger need: process/thread identity and
// the rendezvous socket path convention inherited from the original
// rfsct_<pid> naming (spec §6).
package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// Pid returns the current process id.
func Pid() int {
	return os.Getpid()
}

// Tid returns an OS thread id for the calling goroutine, used only
// for log correlation; see platform_linux.go and platform_other.go.
// Because goroutines migrate between OS threads, this value should
// never be used as a stable identifier -- only as a best-effort
// annotation on a single log line.
func Tid() int {
	return tid()
}

// RendezvousDir is the directory under which per-process rendezvous
// sockets are created. It mirrors the original implementation's
// hardcoded /tmp, kept here as a var so tests can redirect it.
var RendezvousDir = os.TempDir()

// RendezvousPath returns the filesystem path of the local rendezvous
// socket for the process identified by pid: rfsct_<pid> under
// RendezvousDir.
func RendezvousPath(pid int) string {
	return RendezvousPathIn(RendezvousDir, pid)
}

// DefaultRendezvousDir returns the directory rendezvous sockets are
// created in when a caller doesn't override it.
func DefaultRendezvousDir() string {
	return RendezvousDir
}

// RendezvousPathIn returns the rfsct_<pid> rendezvous path under dir,
// truncated to this platform's maximum Unix domain socket path length
// (spec §6), the same way
// original_source/src/rfs_client_listener.c's rfs__client_run builds
// the path with a UNIX_PATH_MAX-bounded snprintf.
func RendezvousPathIn(dir string, pid int) string {
	p := filepath.Join(dir, fmt.Sprintf("rfsct_%d", pid))
	if len(p) > maxSockPathLen {
		p = p[:maxSockPathLen]
	}
	return p
}
