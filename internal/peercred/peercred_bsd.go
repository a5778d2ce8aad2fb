//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package peercred

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// BSD-derived kernels have no notion of a peer pid over LOCAL_PEERCRED /
// getpeereid; PID is left zero.
func getCreds(conn syscall.Conn) (Creds, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return Creds{}, err
	}

	var xucred *unix.Xucred
	var ctrlErr error
	err = raw.Control(func(fd uintptr) {
		xucred, ctrlErr = unix.GetsockoptXucred(int(fd), unix.SOL_LOCAL, unix.LOCAL_PEERCRED)
	})
	if err != nil {
		return Creds{}, err
	}
	if ctrlErr != nil {
		return Creds{}, ctrlErr
	}
	creds := Creds{UID: xucred.Uid}
	if xucred.Ngroups > 0 {
		creds.GID = xucred.Groups[0]
	}
	return creds, nil
}
