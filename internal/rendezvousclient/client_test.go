package rendezvousclient

import (
	"path/filepath"
	"testing"
	"time"

	"aqwari.net/net/rfs9/internal/rendezvous"
)

func TestInvokeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rendezvous.sock")
	l, err := rendezvous.Listen(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	go l.Serve()

	go func() {
		for d := range l.Dispatch {
			d.Finish(nil)
		}
	}()

	c := New(path)
	d := rendezvous.NewDescriptor(rendezvous.KindBind)
	d.Bind = rendezvous.BindArgs{New: "/tmp", Old: "/var/tmp", Flags: 1}

	errc := make(chan error, 1)
	go func() { errc <- c.Invoke(d) }()

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Invoke: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Invoke")
	}
}

func TestInvokeReusesPooledConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rendezvous.sock")
	l, err := rendezvous.Listen(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	go l.Serve()

	go func() {
		for d := range l.Dispatch {
			d.Finish(nil)
		}
	}()

	c := New(path)
	for i := 0; i < 5; i++ {
		d := rendezvous.NewDescriptor(rendezvous.KindBind)
		if err := c.Invoke(d); err != nil {
			t.Fatalf("Invoke #%d: %v", i, err)
		}
	}
}
