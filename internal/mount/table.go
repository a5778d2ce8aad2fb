// Package mount implements the client namespace's mount table: an
// ordered union of sources per mount point, searched in order at
// resolution time, with bind(2)-style indirection and 9P conversation
// lifetime tracked by reference count. No direct teacher equivalent
// exists (droyo-styx is a server with no client-side namespace);
// grounded on spec §4.6 and the Plan 9 bind(2)/mount(2)/namespace(4)
// semantics it describes, with flag values from
// original_source/include/rfs/rfs.h.
package mount

import (
	"sync"

	"aqwari.net/net/rfs9/internal/refcount"
	"aqwari.net/net/rfs9/internal/rfserr"
	"aqwari.net/net/rfs9/internal/transport"
)

// remoteHandle is the state behind a remote Source: its 9P
// conversation, root fid and attach name, with a reference count.
// Each Mount creates its own handle holding one reference, and bind
// sources hold none, so the conversation is handed back for closing
// as soon as its one Source is unmounted or replaced.
type remoteHandle struct {
	conv    *transport.Conversation
	rootFid uint32
	aname   string
	ref     refcount.RefCount
}

// A Source is one entry in a mount point's search order: either a
// remote 9P tree, or a bind-style indirection to another path in this
// same table, resolved lazily so later mutations of the target are
// observed (Plan 9's bind(2) semantics, not a point-in-time copy).
type Source struct {
	Flags int

	remote *remoteHandle
	bindTo string
}

// IsRemote reports whether this Source names a 9P tree directly.
func (s *Source) IsRemote() bool { return s.remote != nil }

// Aname returns the attach name of a remote Source's tree.
func (s *Source) Aname() string { return s.remote.aname }

// Conversation returns the transport.Conversation backing a remote
// Source.
func (s *Source) Conversation() *transport.Conversation { return s.remote.conv }

// RootFid returns the fid of the root of a remote Source's tree.
func (s *Source) RootFid() uint32 { return s.remote.rootFid }

// refName returns the identifying string unmount(name, old) matches
// against: a bind source's target path, or a remote source's attach
// name.
func (s *Source) refName() string {
	if s.remote != nil {
		return s.remote.aname
	}
	return s.bindTo
}

// Table is the process-wide name→sources map. It is mutated
// exclusively by the worker goroutine (spec §5's "single-threaded
// cooperative" model); the mutex exists so tests and diagnostics may
// read it concurrently without racing the worker.
type Table struct {
	mu      sync.Mutex
	sources map[string][]*Source
}

// New returns an empty mount table.
func New() *Table {
	return &Table{sources: make(map[string][]*Source)}
}

// Bind grafts new onto old's resolution, per spec §4.5's BIND
// dispatch. The flagless default resolves to MREPL (SPEC_FULL.md Open
// Question resolution).
func (t *Table) Bind(new, old string, flags int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.resolve(old, make(map[string]bool)); err != nil {
		return err
	}
	src := &Source{Flags: flags &^ (MREPL | MBEFORE | MAFTER), bindTo: old}
	t.place(new, src, flags)
	return nil
}

// Mount adopts an already-attached 9P conversation as a new source at
// old, per spec §4.5's MOUNT dispatch. The caller has already
// negotiated Tversion/Tattach on conv; Mount only records the
// resulting (conversation, root fid, aname) triple in the table.
func (t *Table) Mount(conv *transport.Conversation, rootFid uint32, aname, old string, flags int) error {
	h := &remoteHandle{conv: conv, rootFid: rootFid, aname: aname}
	h.ref.IncRef()
	src := &Source{Flags: flags &^ (MREPL | MBEFORE | MAFTER), remote: h}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.place(old, src, flags)
	return nil
}

// place inserts src into the search order at mountPoint according to
// flags' placement bits, per testable property 7.
func (t *Table) place(mountPoint string, src *Source, flags int) {
	existing := t.sources[mountPoint]
	switch {
	case flags&MBEFORE != 0:
		t.sources[mountPoint] = append([]*Source{src}, existing...)
	case flags&MAFTER != 0:
		t.sources[mountPoint] = append(existing, src)
	default: // MREPL, or flagless (resolved default: MREPL)
		for _, old := range existing {
			t.release(old)
		}
		t.sources[mountPoint] = []*Source{src}
	}
}

// Unmount removes sources at old, per spec §4.5's UNMOUNT dispatch. If
// name is empty, every source at old is removed; otherwise only the
// sources whose refName equals name are removed: bind sources whose
// target is name and remote sources whose attach name is name.
// Unmount returns the conversations, if any, whose last reference was
// just dropped, so the caller can close the transport outside the
// table's lock.
func (t *Table) Unmount(name, old string) ([]*transport.Conversation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.sources[old]
	if !ok {
		return nil, rfserr.Wrap(rfserr.ENOENT, nil, "no mount at "+old)
	}

	var torn []*transport.Conversation
	if name == "" {
		for _, src := range existing {
			if conv := t.release(src); conv != nil {
				torn = append(torn, conv)
			}
		}
		delete(t.sources, old)
		return torn, nil
	}

	kept := existing[:0]
	removedAny := false
	for _, src := range existing {
		if src.refName() == name {
			removedAny = true
			if conv := t.release(src); conv != nil {
				torn = append(torn, conv)
			}
			continue
		}
		kept = append(kept, src)
	}
	if !removedAny {
		return nil, rfserr.Wrap(rfserr.ENOENT, nil, "no source named "+name+" at "+old)
	}
	if len(kept) == 0 {
		delete(t.sources, old)
	} else {
		t.sources[old] = kept
	}
	return torn, nil
}

// release drops one reference to src's remote conversation (a no-op
// for a bind-indirection source), returning the conversation if this
// was the last reference.
func (t *Table) release(src *Source) *transport.Conversation {
	if src.remote == nil {
		return nil
	}
	if src.remote.ref.DecRef() {
		return nil
	}
	return src.remote.conv
}

// Sources returns the raw search order recorded at mountPoint, for
// diagnostics and tests. The returned slice must not be mutated.
func (t *Table) Sources(mountPoint string) []*Source {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sources[mountPoint]
}

// Resolve flattens mountPoint's search order into remote sources only,
// following bind indirections and detecting cycles via a visited set,
// per spec §4.6.
func (t *Table) Resolve(mountPoint string) ([]*Source, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolve(mountPoint, make(map[string]bool))
}

// resolve walks mountPoint's search order, following bind
// indirections. visited tracks the current recursion path only -- it
// is cleared on unwind -- so two sources that both legitimately bind
// to the same target (a diamond) don't falsely trip the cycle check;
// only a target that is its own ancestor on the current path does.
func (t *Table) resolve(mountPoint string, visited map[string]bool) ([]*Source, error) {
	if visited[mountPoint] {
		return nil, rfserr.Wrap(rfserr.ELOOP, nil, "mount cycle at "+mountPoint)
	}
	visited[mountPoint] = true
	defer delete(visited, mountPoint)

	var out []*Source
	for _, src := range t.sources[mountPoint] {
		if src.IsRemote() {
			out = append(out, src)
			continue
		}
		resolved, err := t.resolve(src.bindTo, visited)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved...)
	}
	if len(out) == 0 {
		return nil, rfserr.Wrap(rfserr.ENOENT, nil, "no sources at "+mountPoint)
	}
	return out, nil
}

// Close empties the table and returns every distinct remote
// conversation it still referenced, for the caller to close, per spec
// §4.5's SHUTDOWN dispatch.
func (t *Table) Close() []*transport.Conversation {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[*transport.Conversation]bool)
	var convs []*transport.Conversation
	for _, srcs := range t.sources {
		for _, src := range srcs {
			if src.remote == nil || seen[src.remote.conv] {
				continue
			}
			seen[src.remote.conv] = true
			convs = append(convs, src.remote.conv)
		}
	}
	t.sources = make(map[string][]*Source)
	return convs
}
