package transport

import (
	"net"
	"testing"
	"time"

	"aqwari.net/net/rfs9/internal/wire"
)

// fakeServer answers exactly the requests the test drives it with, in
// order, using a tiny in-process net.Pipe -- this exercises the real
// wire codec and the real framed read loop without a real 9P server.
type fakeServer struct {
	t    *testing.T
	conn net.Conn
}

func newFakeServer(t *testing.T, conn net.Conn) *fakeServer {
	return &fakeServer{t: t, conn: conn}
}

func (f *fakeServer) expectAndReply(want uint8, reply wire.Message) {
	f.t.Helper()
	buf := make([]byte, 8192)
	n, err := f.conn.Read(buf)
	if err != nil {
		f.t.Fatalf("server read: %v", err)
	}
	msg, _, err := wire.Unpack(buf[:n])
	if err != nil {
		f.t.Fatalf("server decode: %v", err)
	}
	if msg.MsgType() != want {
		f.t.Fatalf("server got type %d, want %d", msg.MsgType(), want)
	}

	out := make([]byte, reply.Len())
	m := reply.Pack(out)
	if _, err := f.conn.Write(out[:m]); err != nil {
		f.t.Fatalf("server write: %v", err)
	}
}

func dialPair(t *testing.T) (client net.Conn, server *fakeServer) {
	t.Helper()
	a, b := net.Pipe()
	t.Cleanup(func() { a.Close(); b.Close() })
	return a, newFakeServer(t, b)
}

func TestDialNegotiatesVersion(t *testing.T) {
	client, server := dialPair(t)

	done := make(chan *Conversation, 1)
	errCh := make(chan error, 1)
	go func() {
		c, err := Dial("test", client, 8192, nil)
		if err != nil {
			errCh <- err
			return
		}
		done <- c
	}()

	server.expectAndReply(wire.MsgTversion, wire.Rversion{Tag: wire.NoTag, Msize: 4096, Version: "9P2000"})

	select {
	case c := <-done:
		if c.State() != StateVersioned {
			t.Errorf("State() = %v, want %v", c.State(), StateVersioned)
		}
		if c.msize != 4096 {
			t.Errorf("msize = %d, want 4096 (server negotiated down)", c.msize)
		}
	case err := <-errCh:
		t.Fatalf("Dial: %v", err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Dial")
	}
}

func TestAttachAndClunk(t *testing.T) {
	client, server := dialPair(t)

	type result struct {
		fid uint32
		qid wire.Qid
		err error
	}
	dialDone := make(chan *Conversation, 1)
	go func() {
		c, err := Dial("test", client, 8192, nil)
		if err != nil {
			t.Errorf("Dial: %v", err)
			return
		}
		dialDone <- c
	}()
	server.expectAndReply(wire.MsgTversion, wire.Rversion{Tag: wire.NoTag, Msize: 8192, Version: "9P2000"})
	conv := <-dialDone

	attachDone := make(chan result, 1)
	go func() {
		fid, qid, err := conv.Attach("glenda", "", wire.NoFid)
		attachDone <- result{fid, qid, err}
	}()
	wantQid := wire.Qid{Path: 1, Type: wire.QTDIR}
	server.expectAndReply(wire.MsgTattach,wire.Rattach{Tag: 0, Qid: wantQid})

	r := <-attachDone
	if r.err != nil {
		t.Fatalf("Attach: %v", r.err)
	}
	if r.qid != wantQid {
		t.Errorf("Attach qid = %v, want %v", r.qid, wantQid)
	}
	if conv.State() != StateAttached {
		t.Errorf("State() = %v, want %v", conv.State(), StateAttached)
	}
	if got, ok := conv.LookupQid(""); !ok || got != wantQid {
		t.Errorf("LookupQid(\"\") = %v, %v, want %v, true", got, ok, wantQid)
	}

	clunkDone := make(chan error, 1)
	go func() { clunkDone <- conv.Clunk(r.fid) }()
	server.expectAndReply(wire.MsgTclunk,wire.Rclunk{Tag: 0})
	if err := <-clunkDone; err != nil {
		t.Fatalf("Clunk: %v", err)
	}
}

func TestRoundTripSurfacesRerror(t *testing.T) {
	client, server := dialPair(t)

	dialDone := make(chan *Conversation, 1)
	go func() {
		c, _ := Dial("test", client, 8192, nil)
		dialDone <- c
	}()
	server.expectAndReply(wire.MsgTversion, wire.Rversion{Tag: wire.NoTag, Msize: 8192, Version: "9P2000"})
	conv := <-dialDone

	statDone := make(chan error, 1)
	go func() {
		_, err := conv.Stat(0)
		statDone <- err
	}()
	server.expectAndReply(wire.MsgTstat,wire.Rerror{Tag: 0, Ename: "no such file"})

	err := <-statDone
	if err == nil {
		t.Fatal("Stat returned nil error for an Rerror reply")
	}
}
