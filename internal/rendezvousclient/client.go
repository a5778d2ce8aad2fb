// Package rendezvousclient is the caller side of internal/rendezvous:
// it holds a lazily-dialed connection to the worker's local socket and
// drives the blocking send/receive-echo protocol of spec §4.4.
//
// The original C keeps one persistent connection per OS thread
// (rfs__client_ctx_thread_t, a __thread-local), reconnecting lazily on
// first use per calling thread. Go has no stable OS-thread affinity
// for a goroutine, so this package approximates the same amortization
// with a sync.Pool: a goroutine that issues many requests in quick
// succession is likely to reuse a warm connection, without assuming
// any particular scheduling behavior (SPEC_FULL.md Supplemented
// Feature 1).
package rendezvousclient

import (
	"encoding/binary"
	"io"
	"net"
	"sync"

	"aqwari.net/net/rfs9/internal/rendezvous"
	"aqwari.net/net/rfs9/internal/rfserr"
)

// Client invokes Descriptors against a worker listening at Path.
type Client struct {
	Path string

	pool sync.Pool
}

// New returns a Client that dials Path on demand.
func New(path string) *Client {
	c := &Client{Path: path}
	c.pool.New = func() interface{} {
		conn, err := net.Dial("unix", c.Path)
		if err != nil {
			return err
		}
		return conn
	}
	return c
}

// Invoke submits d to the worker and blocks until it has been
// serviced, returning the worker's result. It implements the caller
// side of the ownership-transfer handoff spec design note 9 calls
// for: d is registered under a fresh id, the id crosses the
// rendezvous socket, and Invoke waits for the same id to be echoed
// back before reading d.Result, so the worker never touches d
// concurrently with the caller.
func (c *Client) Invoke(d *rendezvous.Descriptor) error {
	d.ID = rendezvous.AllocID()
	rendezvous.Register(d)
	defer rendezvous.Unregister(d.ID)

	conn, err := c.get()
	if err != nil {
		return rfserr.Wrap(rfserr.ECONNRESET, err, "dialing rendezvous worker")
	}

	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, d.ID)
	if _, err := conn.Write(buf); err != nil {
		conn.Close()
		return rfserr.Wrap(rfserr.ECONNRESET, err, "writing to rendezvous worker")
	}

	if _, err := io.ReadFull(conn, buf); err != nil {
		conn.Close()
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return rfserr.Wrap(rfserr.ECONNRESET, err, "worker closed the rendezvous connection")
		}
		return rfserr.Wrap(rfserr.EIO, err, "reading from rendezvous worker")
	}
	if got := binary.LittleEndian.Uint64(buf); got != d.ID {
		conn.Close()
		return rfserr.Wrap(rfserr.EBADMSG, nil, "rendezvous echo mismatch")
	}

	c.put(conn)
	return <-d.Result
}

func (c *Client) get() (net.Conn, error) {
	v := c.pool.Get()
	if err, ok := v.(error); ok {
		return nil, err
	}
	return v.(net.Conn), nil
}

func (c *Client) put(conn net.Conn) {
	c.pool.Put(conn)
}
