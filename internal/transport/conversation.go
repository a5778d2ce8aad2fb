// Package transport implements a single 9P2000 conversation: the
// version negotiation / attach / operational / teardown state machine
// of spec §4.5, layered over a dialed net.Conn using internal/wire for
// message framing. A Conversation is not safe for concurrent use --
// the worker goroutine that owns the conversation is the only caller,
// matching the single-threaded cooperative model of spec §5.
package transport

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"sync"

	"aqwari.net/net/rfs9/internal/pool"
	"aqwari.net/net/rfs9/internal/qidcache"
	"aqwari.net/net/rfs9/internal/rfserr"
	"aqwari.net/net/rfs9/internal/rfslog"
	"aqwari.net/net/rfs9/internal/wire"
)

// State identifies a Conversation's position in the per-spec state
// machine: Init -> Versioned -> Attached -> (operational) -> Torn.
type State int

const (
	StateInit State = iota
	StateVersioned
	StateAttached
	StateTorn
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateVersioned:
		return "versioned"
	case StateAttached:
		return "attached"
	case StateTorn:
		return "torn"
	}
	return "unknown"
}

// DefaultMsize is the msize a Conversation proposes in its Tversion
// when the caller doesn't override it via Config.
const DefaultMsize = 8192

// A Conversation is one 9P2000 session with a single remote server: a
// dialed connection, its negotiated msize, and the tag/fid pools
// scoped to it (fids and tags are only meaningful within the
// conversation that allocated them).
type Conversation struct {
	Server string // dial address, used as the key into the qid cache and in log fields

	conn  net.Conn
	br    *bufio.Reader
	msize uint32
	tags  pool.TagPool
	Fids  pool.FidPool
	qids  qidcache.Cache

	mu    sync.Mutex
	state State
	log   rfslog.Logger
}

// Dial negotiates a new Conversation over conn, which the caller must
// already have connected to the 9P server at Server. msize is the
// buffer size this side proposes; the server may negotiate it down.
func Dial(server string, conn net.Conn, msize uint32, log rfslog.Logger) (*Conversation, error) {
	if msize == 0 {
		msize = DefaultMsize
	}
	if log == nil {
		log = rfslog.Discard
	}
	c := &Conversation{
		Server: server,
		conn:   conn,
		br:     bufio.NewReaderSize(conn, int(msize)),
		msize:  msize,
		log:    log.With("server", server),
	}
	if err := c.negotiateVersion(); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// State reports the conversation's current position in the state
// machine.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conversation) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Conversation) negotiateVersion() error {
	req := wire.Tversion{Tag: wire.NoTag, Msize: c.msize, Version: "9P2000"}
	resp, err := c.roundTrip(req)
	if err != nil {
		return err
	}
	rv, ok := resp.(wire.Rversion)
	if !ok {
		return rfserr.Wrap(rfserr.EPROTO, nil, fmt.Sprintf("unexpected reply %T to Tversion", resp))
	}
	if !strings.HasPrefix(rv.Version, "9P2000") {
		return rfserr.Wrap(rfserr.EPROTO, nil, "server does not speak 9P2000: "+rv.Version)
	}
	if rv.Msize < c.msize {
		c.msize = rv.Msize
	}
	c.setState(StateVersioned)
	c.log.Debugf("negotiated version %q msize=%d", rv.Version, c.msize)
	return nil
}

// Attach binds a fresh fid to the root of aname as uname, per Tattach.
// afid names a prior Tauth exchange's fid, or wire.NoFid if the server
// requires no authentication.
func (c *Conversation) Attach(uname, aname string, afid uint32) (fid uint32, qid wire.Qid, err error) {
	if c.State() != StateVersioned && c.State() != StateAttached {
		return 0, wire.Qid{}, rfserr.Wrap(rfserr.EPROTO, nil, "Attach before version negotiation")
	}
	fid, ok := c.Fids.Get()
	if !ok {
		return 0, wire.Qid{}, rfserr.Wrap(rfserr.EMFILE, nil, "fid pool exhausted")
	}
	tag, err := c.allocTag()
	if err != nil {
		c.Fids.Free(fid)
		return 0, wire.Qid{}, err
	}
	defer c.tags.Free(tag)

	req := wire.Tattach{Tag: tag, Fid: fid, Afid: afid, Uname: uname, Aname: aname}
	resp, err := c.roundTrip(req)
	if err != nil {
		c.Fids.Free(fid)
		return 0, wire.Qid{}, err
	}
	ra, ok := resp.(wire.Rattach)
	if !ok {
		c.Fids.Free(fid)
		return 0, wire.Qid{}, unexpectedReply(resp, "Tattach")
	}
	c.setState(StateAttached)
	c.qids.Store(c.Server, "", ra.Qid)
	return fid, ra.Qid, nil
}

// Walk descends names from fid, binding the result to newfid. A
// partial walk (len(result) < len(names)) is reported as a nil error;
// the caller inspects the length to detect it, as real 9P does.
func (c *Conversation) Walk(fid, newfid uint32, names []string) ([]wire.Qid, error) {
	tag, err := c.allocTag()
	if err != nil {
		return nil, err
	}
	defer c.tags.Free(tag)

	req := wire.Twalk{Tag: tag, Fid: fid, Newfid: newfid, Wname: names}
	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	rw, ok := resp.(wire.Rwalk)
	if !ok {
		return nil, unexpectedReply(resp, "Twalk")
	}
	if len(rw.Wqid) == len(names) {
		c.qids.Store(c.Server, strings.Join(names, "/"), rw.Wqid[len(rw.Wqid)-1])
	}
	return rw.Wqid, nil
}

// LookupQid returns the Qid this conversation last saw for path,
// relative to its attach root, if a prior Attach or fully-successful
// Walk cached one, without sending a Twalk.
func (c *Conversation) LookupQid(path string) (wire.Qid, bool) {
	return c.qids.Load(c.Server, path)
}

// Open prepares fid for I/O in the given mode.
func (c *Conversation) Open(fid uint32, mode uint8) (wire.Qid, uint32, error) {
	tag, err := c.allocTag()
	if err != nil {
		return wire.Qid{}, 0, err
	}
	defer c.tags.Free(tag)

	resp, err := c.roundTrip(wire.Topen{Tag: tag, Fid: fid, Mode: mode})
	if err != nil {
		return wire.Qid{}, 0, err
	}
	ro, ok := resp.(wire.Ropen)
	if !ok {
		return wire.Qid{}, 0, unexpectedReply(resp, "Topen")
	}
	return ro.Qid, ro.IOunit, nil
}

// Create creates name under fid, opens it, and rebinds fid to it.
func (c *Conversation) Create(fid uint32, name string, perm uint32, mode uint8) (wire.Qid, uint32, error) {
	tag, err := c.allocTag()
	if err != nil {
		return wire.Qid{}, 0, err
	}
	defer c.tags.Free(tag)

	req := wire.Tcreate{Tag: tag, Fid: fid, Name: name, Perm: perm, Mode: mode}
	resp, err := c.roundTrip(req)
	if err != nil {
		return wire.Qid{}, 0, err
	}
	rc, ok := resp.(wire.Rcreate)
	if !ok {
		return wire.Qid{}, 0, unexpectedReply(resp, "Tcreate")
	}
	return rc.Qid, rc.IOunit, nil
}

// Read reads up to count bytes at offset from the open file fid.
func (c *Conversation) Read(fid uint32, offset uint64, count uint32) ([]byte, error) {
	tag, err := c.allocTag()
	if err != nil {
		return nil, err
	}
	defer c.tags.Free(tag)

	req := wire.Tread{Tag: tag, Fid: fid, Offset: offset, Count: count}
	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	rr, ok := resp.(wire.Rread)
	if !ok {
		return nil, unexpectedReply(resp, "Tread")
	}
	return rr.Data, nil
}

// Write writes data at offset to the open file fid.
func (c *Conversation) Write(fid uint32, offset uint64, data []byte) (uint32, error) {
	tag, err := c.allocTag()
	if err != nil {
		return 0, err
	}
	defer c.tags.Free(tag)

	req := wire.Twrite{Tag: tag, Fid: fid, Offset: offset, Data: data}
	resp, err := c.roundTrip(req)
	if err != nil {
		return 0, err
	}
	rw, ok := resp.(wire.Rwrite)
	if !ok {
		return 0, unexpectedReply(resp, "Twrite")
	}
	return rw.Count, nil
}

// Clunk releases fid. It is idempotent-safe to retry on transient
// transport errors, per spec §7.
func (c *Conversation) Clunk(fid uint32) error {
	err := withRetry(3, func() error {
		tag, err := c.allocTag()
		if err != nil {
			return err
		}
		defer c.tags.Free(tag)
		_, err = c.roundTrip(wire.Tclunk{Tag: tag, Fid: fid})
		return err
	})
	c.Fids.Free(fid)
	return err
}

// Remove removes fid's file, then clunks it regardless of the
// remove's outcome, per 9P's Tremove contract.
func (c *Conversation) Remove(fid uint32) error {
	tag, err := c.allocTag()
	if err != nil {
		c.Fids.Free(fid)
		return err
	}
	_, err = c.roundTrip(wire.Tremove{Tag: tag, Fid: fid})
	c.tags.Free(tag)
	c.Fids.Free(fid)
	return err
}

// Stat fetches the Stat record for fid. Retried on transient
// transport errors, per spec §7.
func (c *Conversation) Stat(fid uint32) (wire.Stat, error) {
	var st wire.Stat
	err := withRetry(3, func() error {
		tag, err := c.allocTag()
		if err != nil {
			return err
		}
		defer c.tags.Free(tag)
		resp, err := c.roundTrip(wire.Tstat{Tag: tag, Fid: fid})
		if err != nil {
			return err
		}
		rs, ok := resp.(wire.Rstat)
		if !ok {
			return unexpectedReply(resp, "Tstat")
		}
		st = rs.Stat
		return nil
	})
	return st, err
}

// Wstat requests that fid's file take on the attributes in st.
func (c *Conversation) Wstat(fid uint32, st wire.Stat) error {
	tag, err := c.allocTag()
	if err != nil {
		return err
	}
	defer c.tags.Free(tag)
	_, err = c.roundTrip(wire.Twstat{Tag: tag, Fid: fid, Stat: st})
	return err
}

// Flush cancels the outstanding request bearing oldtag, per spec
// §4.5's flush semantics: the caller must continue to treat oldtag as
// live until this call returns.
func (c *Conversation) Flush(oldtag uint16) error {
	tag, err := c.allocTag()
	if err != nil {
		return err
	}
	defer c.tags.Free(tag)
	_, err = c.roundTrip(wire.Tflush{Tag: tag, Oldtag: oldtag})
	return err
}

// Close tears down the conversation and closes its connection. It
// sends no Tclunk: any fids still open, the attach root fid included,
// are abandoned with the connection.
func (c *Conversation) Close() error {
	c.setState(StateTorn)
	c.qids.ForgetServer(c.Server)
	return c.conn.Close()
}

func (c *Conversation) allocTag() (uint16, error) {
	tag, ok := c.tags.Get()
	if !ok {
		return 0, rfserr.Wrap(rfserr.EMFILE, nil, "tag pool exhausted")
	}
	return tag, nil
}

// roundTrip writes req and blocks for its matching reply. It is the
// client-side mirror of droyo-styx/server.go's conn.serve dispatch
// loop: there, the server receives a T-message and sends an R; here,
// we send the T and receive the R.
func (c *Conversation) roundTrip(req wire.Message) (wire.Message, error) {
	buf := make([]byte, req.Len())
	n := req.Pack(buf)
	if n == 0 {
		return nil, rfserr.Wrap(rfserr.EPROTO, nil, fmt.Sprintf("failed to encode %T", req))
	}
	if _, err := c.conn.Write(buf[:n]); err != nil {
		return nil, mapIOErr(err)
	}
	return c.readMatching(req.MsgTag())
}

// readMatching reads frames until one bears tag, discarding (and
// logging) any reply whose tag doesn't match -- this can happen for a
// reply to a request this conversation has already given up on via
// Flush.
func (c *Conversation) readMatching(tag uint16) (wire.Message, error) {
	for {
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		if msg.MsgTag() != tag {
			c.log.Warnf("discarding reply for stale tag %d (waiting for %d)", msg.MsgTag(), tag)
			continue
		}
		if rerr, ok := msg.(wire.Rerror); ok {
			return nil, rfserr.Wrap(rfserr.EIO, nil, rerr.Ename)
		}
		return msg, nil
	}
}

func (c *Conversation) readMessage() (wire.Message, error) {
	head, err := c.br.Peek(4)
	if err != nil {
		return nil, mapIOErr(err)
	}
	size := binary.LittleEndian.Uint32(head)
	full, err := c.br.Peek(int(size))
	if err != nil {
		return nil, mapIOErr(err)
	}
	msg, n, err := wire.Unpack(full)
	if err != nil {
		return nil, rfserr.Wrap(rfserr.EBADMSG, err, "decoding message")
	}
	if _, err := c.br.Discard(n); err != nil {
		return nil, mapIOErr(err)
	}
	return msg, nil
}

func unexpectedReply(got wire.Message, want string) error {
	return rfserr.Wrap(rfserr.EPROTO, nil, fmt.Sprintf("unexpected reply %T to %s", got, want))
}
