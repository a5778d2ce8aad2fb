package rendezvous

import (
	"net"
	"sync/atomic"
)

// Kind identifies which namespace operation a Descriptor carries,
// generalized from original_source/src/rfs_client.h's
// rfs__client_func_type_t enum.
type Kind int

const (
	KindBind Kind = iota + 1
	KindMount
	KindUnmount
	KindShutdown
)

func (k Kind) String() string {
	switch k {
	case KindBind:
		return "bind"
	case KindMount:
		return "mount"
	case KindUnmount:
		return "unmount"
	case KindShutdown:
		return "shutdown"
	}
	return "unknown"
}

// BindArgs carries the arguments of a bind(new, old, flags) call.
type BindArgs struct {
	New, Old string
	Flags    int
}

// MountArgs carries the arguments of a mount(fd, afid, old, flags,
// aname) call. Conn is the already-dialed transport the caller wants
// adopted as a new 9P conversation; the worker negotiates Tversion and
// Tattach over it.
type MountArgs struct {
	Conn  net.Conn
	Afid  uint32
	Old   string
	Flags int
	Aname string
}

// UnmountArgs carries the arguments of an unmount(name, old) call.
// Name is nullable: an empty string means "remove every source at
// Old".
type UnmountArgs struct {
	Name, Old string
}

// A Descriptor is the in-process request the rendezvous correlates
// between a caller goroutine and the worker, the Go rewrite's
// ownership-transfer alternative (spec design note 9, option (a)) to
// the original's raw uintptr_t pointer handoff: the same value lives
// in both the caller's and the worker's memory because it's a single
// process, so only a correlation id needs to cross the IPC socket.
type Descriptor struct {
	ID   uint64
	Kind Kind

	Bind    BindArgs
	Mount   MountArgs
	Unmount UnmountArgs

	// Result carries the single error the worker produces; it is
	// buffered so the worker never blocks handing it off.
	Result chan error
	// done is closed by the worker once Result has been sent, so the
	// owning connection's read loop knows it may echo the id back.
	done chan struct{}
	// Echoed is closed by the owning connection once the id has
	// actually been written back to the caller's socket. A SHUTDOWN
	// dispatch waits on this before tearing anything down, so the
	// caller that asked for shutdown gets a clean acknowledgment
	// instead of racing the listener's own teardown.
	Echoed chan struct{}
}

// NewDescriptor allocates a Descriptor of the given kind, ready to be
// registered and invoked.
func NewDescriptor(kind Kind) *Descriptor {
	return &Descriptor{
		Kind:   kind,
		Result: make(chan error, 1),
		done:   make(chan struct{}),
		Echoed: make(chan struct{}),
	}
}

// Finish records the worker's result and wakes the connection that's
// waiting to echo this descriptor's id back to its caller.
func (d *Descriptor) Finish(err error) {
	d.Result <- err
	close(d.done)
}

var nextID uint64

// AllocID returns a fresh, process-wide unique correlation id.
func AllocID() uint64 {
	return atomic.AddUint64(&nextID, 1)
}
