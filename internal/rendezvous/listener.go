package rendezvous

import (
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"aqwari.net/retry"

	"aqwari.net/net/rfs9/internal/peercred"
	"aqwari.net/net/rfs9/internal/rfslog"
)

// Listener accepts caller connections on a Unix domain socket,
// authenticates each by peer credentials, and feeds the Descriptors
// they submit onto a single channel the worker drains. Grounded on
// droyo-styx/server.go's serve method (Temporary() bool backoff loop)
// and original_source/src/rfs_client_listener.c's rfs__client_run
// (bind path, unlink-before-bind, peer credential check).
type Listener struct {
	path string
	ln   net.Listener
	log  rfslog.Logger

	Dispatch chan *Descriptor

	mu    sync.Mutex
	conns map[*Conn]struct{}

	closeMu  sync.Mutex
	closedCh chan struct{}
}

// Listen binds path, unlinking any stale socket left behind by a
// previous, uncleanly-terminated worker.
func Listen(path string, log rfslog.Logger) (*Listener, error) {
	if log == nil {
		log = rfslog.Discard
	}
	os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	return &Listener{
		path:     path,
		ln:       ln,
		log:      log.With("rendezvous", path),
		Dispatch: make(chan *Descriptor),
		conns:    make(map[*Conn]struct{}),
	}, nil
}

// Addr returns the socket path this listener is bound to.
func (l *Listener) Addr() string { return l.path }

// Serve accepts connections until the listener is closed, dispatching
// each authenticated connection's requests onto l.Dispatch. It
// returns once Accept fails permanently (typically because Close was
// called).
func (l *Listener) Serve() error {
	type temporary interface {
		Temporary() bool
	}
	backoff := retry.Exponential(time.Millisecond).Max(time.Second)
	try := 0

	for {
		rwc, err := l.ln.Accept()
		if err != nil {
			if terr, ok := err.(temporary); ok && terr.Temporary() {
				try++
				l.log.Warnf("accept error: %v; retrying in %v", err, backoff(try))
				time.Sleep(backoff(try))
				continue
			}
			return err
		}
		try = 0

		if !l.authenticate(rwc) {
			rwc.Close()
			continue
		}

		c := newConn(rwc, l)
		l.addConn(c)
		go func() {
			defer l.removeConn(c)
			c.serve()
		}()
	}
}

// authenticate rejects any peer whose effective UID differs from the
// worker's own, per spec §6 ("Peer authentication") and testable
// property 8. A connection that fails peer-credential resolution
// entirely (e.g. not a Unix socket) is also rejected.
func (l *Listener) authenticate(conn net.Conn) bool {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		l.log.Warnf("rejecting connection: not a syscall.Conn")
		return false
	}
	creds, err := peercred.Get(sc)
	if err != nil {
		l.log.Warnf("rejecting connection: peer credentials: %v", err)
		return false
	}
	if creds.UID != uint32(os.Geteuid()) {
		l.log.Warnf("rejecting connection from uid %d (worker is uid %d)", creds.UID, os.Geteuid())
		return false
	}
	return true
}

func (l *Listener) addConn(c *Conn) {
	l.mu.Lock()
	l.conns[c] = struct{}{}
	l.mu.Unlock()
}

func (l *Listener) removeConn(c *Conn) {
	l.mu.Lock()
	delete(l.conns, c)
	l.mu.Unlock()
}

// Close stops accepting new connections and closes every connection
// currently being served.
func (l *Listener) Close() error {
	err := l.ln.Close()

	l.closeMu.Lock()
	if l.closedCh == nil {
		l.closedCh = make(chan struct{})
	}
	select {
	case <-l.closedCh:
	default:
		close(l.closedCh)
	}
	l.closeMu.Unlock()

	l.mu.Lock()
	for c := range l.conns {
		c.Close()
	}
	l.mu.Unlock()
	os.Remove(l.path)
	return err
}
