package rendezvous

import (
	"encoding/binary"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func mustListen(t *testing.T) *Listener {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rendezvous.sock")
	l, err := Listen(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	go l.Serve()
	return l
}

func TestRoundTripEchoesCorrelationID(t *testing.T) {
	l := mustListen(t)

	conn, err := net.Dial("unix", l.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	d := NewDescriptor(KindBind)
	d.ID = AllocID()
	Register(d)
	defer Unregister(d.ID)

	idBuf := make([]byte, idSize)
	binary.LittleEndian.PutUint64(idBuf, d.ID)
	if _, err := conn.Write(idBuf); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-l.Dispatch:
		if got.ID != d.ID {
			t.Fatalf("dispatched descriptor id = %d, want %d", got.ID, d.ID)
		}
		got.Finish(nil)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatch")
	}

	echoBuf := make([]byte, idSize)
	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := conn.Read(echoBuf); err != nil {
		t.Fatalf("reading echo: %v", err)
	}
	if got := binary.LittleEndian.Uint64(echoBuf); got != d.ID {
		t.Fatalf("echoed id = %d, want %d", got, d.ID)
	}
}

func TestUnknownCorrelationIDClosesConnection(t *testing.T) {
	l := mustListen(t)

	conn, err := net.Dial("unix", l.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	idBuf := make([]byte, idSize)
	binary.LittleEndian.PutUint64(idBuf, 0xdeadbeef)
	if _, err := conn.Write(idBuf); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, idSize)
	if _, err := conn.Read(buf); err == nil {
		t.Fatal("expected connection to be closed for an unregistered correlation id")
	}
}
