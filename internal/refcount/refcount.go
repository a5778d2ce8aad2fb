// Package refcount provides reference counting for resources shared
// across mount table entries, such as a single server conversation
// backing several mount points (spec: one connection per server, not
// per mount).
package refcount

import (
	"errors"
	"sync/atomic"
)

// A RefCount can be embedded in structures to track how many mount
// table entries currently depend on them. A conversation is only torn
// down once its RefCount reaches zero.
type RefCount struct {
	n uint64
}

var errOverflow = errors.New("refcount: reference count overflow")

// IncRef increments the reference count by 1. It is a run-time panic
// to create more than ^uint64(0) references.
func (r *RefCount) IncRef() {
	if atomic.AddUint64(&r.n, 1) == 0 {
		panic(errOverflow)
	}
}

// DecRef decrements the reference count by 1 and reports whether any
// references remain. A caller that observes remaining == false is
// responsible for tearing down the underlying resource exactly once.
func (r *RefCount) DecRef() (remaining bool) {
	return atomic.AddUint64(&r.n, ^uint64(0)) != 0
}

// Count returns the current reference count, for diagnostics.
func (r *RefCount) Count() uint64 {
	return atomic.LoadUint64(&r.n)
}
