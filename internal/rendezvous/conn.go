package rendezvous

import (
	"encoding/binary"
	"io"
	"net"
	"sync"

	"aqwari.net/net/rfs9/internal/rfserr"
)

// idSize is the width of the correlation id exchanged over the
// rendezvous socket: the Go replacement for the original's
// machine-pointer-sized address (spec §4.4), fixed at 8 bytes so it's
// portable across 32- and 64-bit builds.
const idSize = 8

// Conn serves one accepted caller connection: it reads correlation
// ids, looks up the Descriptor each names, forwards it to the
// listener's Dispatch channel, waits for the worker to finish it, and
// echoes the id back. At most one request is in flight per connection
// at a time, matching the original's single-threaded, blocking-client
// model (spec §4.4).
type Conn struct {
	rwc net.Conn
	l   *Listener

	closeOnce sync.Once
}

func newConn(rwc net.Conn, l *Listener) *Conn {
	return &Conn{rwc: rwc, l: l}
}

// Close closes the underlying connection. Safe to call more than
// once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.rwc.Close() })
	return err
}

func (c *Conn) serve() {
	defer c.Close()
	buf := make([]byte, idSize)
	for {
		id, err := c.readID(buf)
		if err != nil {
			if err != io.EOF {
				c.l.log.Warnf("rendezvous read: %v", err)
			}
			return
		}

		desc, ok := Lookup(id)
		if !ok {
			c.l.log.Warnf("%v: id=%d", errBadCorrelation, id)
			return
		}

		select {
		case c.l.Dispatch <- desc:
		case <-c.l.closing():
			return
		}

		<-desc.done

		if err := c.writeID(buf, id); err != nil {
			c.l.log.Warnf("rendezvous write: %v", err)
			return
		}
		close(desc.Echoed)
	}
}

// readID reads one correlation id, retaining whatever partial prefix
// a short read leaves in buf between calls -- the Go equivalent of
// original_source/src/rfs_client_listener.c's rfs__client_on_read
// dataoff/memmove leftover handling, simplified because our framing
// unit is fixed-width instead of variable-length.
func (c *Conn) readID(buf []byte) (uint64, error) {
	if _, err := io.ReadFull(c.rwc, buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

func (c *Conn) writeID(buf []byte, id uint64) error {
	binary.LittleEndian.PutUint64(buf, id)
	_, err := c.rwc.Write(buf)
	return err
}

// closing returns a channel that's closed once the listener is torn
// down, letting a Conn abandon an in-flight dispatch attempt during
// shutdown instead of blocking forever.
func (l *Listener) closing() <-chan struct{} {
	l.closeMu.Lock()
	defer l.closeMu.Unlock()
	if l.closedCh == nil {
		l.closedCh = make(chan struct{})
	}
	return l.closedCh
}

// errBadCorrelation mirrors spec §4.4's BADMSG: a connection that
// names a correlation id with no registered Descriptor is violating
// the protocol and is summarily disconnected.
var errBadCorrelation = rfserr.Wrap(rfserr.EBADMSG, nil, "unknown rendezvous correlation id")
