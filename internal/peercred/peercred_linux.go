//go:build linux

package peercred

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func getCreds(conn syscall.Conn) (Creds, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return Creds{}, err
	}

	var cred *unix.Ucred
	var ctrlErr error
	err = raw.Control(func(fd uintptr) {
		cred, ctrlErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if err != nil {
		return Creds{}, err
	}
	if ctrlErr != nil {
		return Creds{}, ctrlErr
	}
	return Creds{UID: cred.Uid, GID: cred.Gid, PID: cred.Pid}, nil
}
