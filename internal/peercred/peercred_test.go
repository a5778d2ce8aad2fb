//go:build linux

package peercred

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

func TestGetMatchesOwnProcess(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "peercred-test.sock")

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	client, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	server, ok := <-accepted
	if !ok {
		t.Fatal("Accept failed")
	}
	defer server.Close()

	creds, err := Get(server.(*net.UnixConn))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if creds.UID != uint32(os.Getuid()) {
		t.Errorf("UID = %d, want %d", creds.UID, os.Getuid())
	}
	if creds.PID != int32(os.Getpid()) {
		t.Errorf("PID = %d, want %d", creds.PID, os.Getpid())
	}
}
