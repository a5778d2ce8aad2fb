package rendezvous

import "aqwari.net/net/rfs9/internal/threadsafe"

// registry correlates a Descriptor's id with the Descriptor itself, so
// a connection's read loop can turn the 8-byte id it reads off the
// wire back into the in-process value the calling goroutine is
// blocked on -- the Go replacement for the original's raw uintptr_t
// pointer cast (original_source/src/rfs_client_api.c).
var registry = threadsafe.NewMap()

// Register makes d findable by its id until Unregister is called.
// Callers must set d.ID before calling Register.
func Register(d *Descriptor) {
	registry.Put(d.ID, d)
}

// Lookup finds the Descriptor registered under id, if any.
func Lookup(id uint64) (*Descriptor, bool) {
	v, ok := registry.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Descriptor), true
}

// Unregister removes d's id from the registry. Safe to call even if
// the id was never registered.
func Unregister(id uint64) {
	registry.Del(id)
}
