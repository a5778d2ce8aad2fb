// Package qidcache remembers the Qid a server returned for a path the
// client has already walked, so repeated lookups of the same path
// (for example, re-resolving a mount point on every namespace
// traversal) don't require a fresh Twalk round trip.
package qidcache

import "sync"

import "aqwari.net/net/rfs9/internal/wire"

// key identifies a cached entry: a server connection together with
// the path walked on it. Two different servers may reuse the same
// Qid.Path value, so the cache must not conflate them.
type key struct {
	server string
	path   string
}

// A Cache maps (server, path) pairs to the Qid the server most
// recently reported for that path. The zero value is ready to use.
type Cache struct {
	m sync.Map
}

// Load returns the cached Qid for path on server, if present.
func (c *Cache) Load(server, path string) (wire.Qid, bool) {
	v, ok := c.m.Load(key{server, path})
	if !ok {
		return wire.Qid{}, false
	}
	return v.(wire.Qid), true
}

// Store records qid as the current identity of path on server,
// overwriting whatever was cached before -- a file's Qid.Vers can
// change out from under a stale entry, and the new walk result is
// always authoritative.
func (c *Cache) Store(server, path string, qid wire.Qid) {
	c.m.Store(key{server, path}, qid)
}

// Forget removes any cached entry for path on server. Nothing in this
// module calls it; a Tremove or a failed walk leaves the entry in place.
func (c *Cache) Forget(server, path string) {
	c.m.Delete(key{server, path})
}

// ForgetServer removes every entry cached for server, used when a
// server's connection is torn down and its Qids can no longer be
// trusted to still refer to the same files.
func (c *Cache) ForgetServer(server string) {
	c.m.Range(func(k, _ interface{}) bool {
		if kk := k.(key); kk.server == server {
			c.m.Delete(kk)
		}
		return true
	})
}
