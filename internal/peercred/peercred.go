// Package peercred resolves the credentials of the process on the
// other end of a Unix domain socket connection, so the rendezvous
// listener can enforce that only the user who started this process
// may attach descriptors to its worker (spec §6, "local IPC
// rendezvous").
package peercred

import (
	"fmt"
	"syscall"
)

// Creds holds the identity of a connecting peer process.
type Creds struct {
	UID uint32
	GID uint32
	PID int32
}

func (c Creds) String() string {
	return fmt.Sprintf("uid=%d gid=%d pid=%d", c.UID, c.GID, c.PID)
}

// Get returns the credentials of the process on the other end of a
// connected Unix domain socket. conn must implement syscall.Conn, as
// *net.UnixConn does.
//
// The concrete mechanism (SO_PEERCRED on Linux, LOCAL_PEERCRED
// elsewhere) is selected per platform; see
// peercred_linux.go and peercred_bsd.go.
func Get(conn syscall.Conn) (Creds, error) {
	return getCreds(conn)
}
