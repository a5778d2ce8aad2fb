package rfs9

import (
	"net"
	"testing"
	"time"

	"aqwari.net/net/rfs9/internal/wire"
)

func startFake9PServer(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		serveOneAttach(t, conn)
	}()
	return ln
}

// serveOneAttach answers exactly one Tversion and one Tattach, enough
// to exercise Namespace.Mount end to end.
func serveOneAttach(t *testing.T, conn net.Conn) {
	buf := make([]byte, 8192)

	n, err := conn.Read(buf)
	if err != nil {
		return
	}
	msg, _, err := wire.Unpack(buf[:n])
	if err != nil || msg.MsgType() != wire.MsgTversion {
		return
	}
	rv := wire.Rversion{Tag: wire.NoTag, Msize: 8192, Version: "9P2000"}
	out := make([]byte, rv.Len())
	conn.Write(out[:rv.Pack(out)])

	n, err = conn.Read(buf)
	if err != nil {
		return
	}
	msg, _, err = wire.Unpack(buf[:n])
	if err != nil || msg.MsgType() != wire.MsgTattach {
		return
	}
	ta := msg.(wire.Tattach)
	ra := wire.Rattach{Tag: ta.Tag, Qid: wire.Qid{Path: 1, Type: wire.QTDIR}}
	out = make([]byte, ra.Len())
	conn.Write(out[:ra.Pack(out)])
}

func TestInitBindMountUnmountDeinit(t *testing.T) {
	dir := t.TempDir()
	ns, err := Init(Config{RendezvousDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer ns.Deinit()

	if err := ns.Bind("/new", "/old", MREPL); err == nil {
		t.Fatal("expected Bind of an unmounted target to fail with ENOENT-like error")
	}

	ln := startFake9PServer(t)
	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}

	if err := ns.Mount(conn, 0xFFFFFFFF, "/n", MREPL, "tree"); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if err := ns.Bind("/alias", "/n", MREPL); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	if err := ns.Unmount("", "/n"); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
}

func TestDeinitStopsWorker(t *testing.T) {
	dir := t.TempDir()
	ns, err := Init(Config{RendezvousDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- ns.Deinit() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Deinit: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Deinit did not return")
	}
}
