// Package worker implements the namespace's single-threaded,
// event-driven core: the event loop that owns the mount table and
// every outbound 9P conversation, and dispatches descriptors handed
// to it over the rendezvous IPC queue. Structurally grounded on
// droyo-styx/server.go's serve/conn.serve shape, generalized from
// "serve incoming 9P requests from remote peers" to "drive outgoing
// 9P conversations and service local API requests" -- the
// client/server role inversion the spec calls for -- and on
// original_source/src/rfs_client_listener.c's rfs__client_on_invoke
// dispatch switch.
package worker

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"aqwari.net/net/rfs9/internal/mount"
	"aqwari.net/net/rfs9/internal/rendezvous"
	"aqwari.net/net/rfs9/internal/rfslog"
)

// Worker is the process-wide singleton service described in spec §9's
// design note: callers get an explicit handle from Start rather than
// reaching into module-level global state.
type Worker struct {
	cfg   Config
	table *mount.Table
	log   rfslog.Logger

	listener *rendezvous.Listener

	ready    chan struct{}
	startErr error

	stopOnce sync.Once
	stopc    chan struct{}
	stopped  chan struct{}
}

// Start spawns the worker goroutine and blocks until its rendezvous
// listener is bound (or binding fails), the Go replacement for the
// original's crude sleep(1) after spawning the worker thread
// (SPEC_FULL.md Supplemented Feature 3).
func Start(cfg Config) (*Worker, error) {
	log := cfg.Logger
	if log == nil {
		log = rfslog.Discard
	}
	w := &Worker{
		cfg:     cfg,
		table:   mount.New(),
		log:     log,
		ready:   make(chan struct{}),
		stopc:   make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	<-w.ready
	if w.startErr != nil {
		return nil, w.startErr
	}
	return w, nil
}

// Dispatch submits d to the worker's event loop and returns
// immediately; the caller (via internal/rendezvousclient, or directly
// in tests) is expected to wait on d.Result itself.
func (w *Worker) Dispatch(d *rendezvous.Descriptor) {
	w.listener.Dispatch <- d
}

// Addr returns the rendezvous socket path the worker is listening on.
func (w *Worker) Addr() string { return w.listener.Addr() }

// Stop submits a shutdown and blocks until the worker's event loop has
// fully exited, mirroring deinit()'s "returns when worker has
// stopped" contract (spec §6).
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopc) })
	<-w.stopped
}

func (w *Worker) run() {
	defer close(w.stopped)

	l, err := rendezvous.Listen(w.cfg.RendezvousPath, w.log)
	if err != nil {
		w.startErr = err
		close(w.ready)
		return
	}
	w.listener = l
	close(w.ready)

	var eg errgroup.Group
	eg.Go(l.Serve)

	for {
		select {
		case d := <-l.Dispatch:
			w.dispatch(d)
		case <-w.stopc:
			w.shutdown(l)
			eg.Wait()
			return
		}
	}
}

// shutdown tears down every remote conversation the table still
// holds, then closes the listener (and with it, every caller
// connection), per spec §4.5's SHUTDOWN dispatch.
func (w *Worker) shutdown(l *rendezvous.Listener) {
	for _, conv := range w.table.Close() {
		if err := conv.Close(); err != nil {
			w.log.Warnf("closing conversation %s during shutdown: %v", conv.Server, err)
		}
	}
	l.Close()
}

// waitEchoed gives a SHUTDOWN descriptor's caller a brief window to
// receive its acknowledgment before the listener (and that caller's
// own connection) is torn down.
func waitEchoed(d *rendezvous.Descriptor) {
	select {
	case <-d.Echoed:
	case <-time.After(time.Second):
	}
}
