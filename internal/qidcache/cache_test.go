package qidcache

import (
	"testing"

	"aqwari.net/net/rfs9/internal/wire"
)

func TestCacheLoadStore(t *testing.T) {
	var c Cache

	if _, ok := c.Load("srvA", "/usr/glenda"); ok {
		t.Fatal("Load on empty cache returned ok=true")
	}

	q := wire.Qid{Path: 42, Type: wire.QTDIR}
	c.Store("srvA", "/usr/glenda", q)

	got, ok := c.Load("srvA", "/usr/glenda")
	if !ok || got != q {
		t.Errorf("Load() = (%v, %v), want (%v, true)", got, ok, q)
	}

	if _, ok := c.Load("srvB", "/usr/glenda"); ok {
		t.Error("Load() found an entry cached under a different server")
	}
}

func TestCacheForget(t *testing.T) {
	var c Cache
	q := wire.Qid{Path: 1}
	c.Store("srvA", "/a", q)
	c.Forget("srvA", "/a")

	if _, ok := c.Load("srvA", "/a"); ok {
		t.Error("Load() found an entry after Forget")
	}
}

func TestCacheForgetServer(t *testing.T) {
	var c Cache
	c.Store("srvA", "/a", wire.Qid{Path: 1})
	c.Store("srvA", "/b", wire.Qid{Path: 2})
	c.Store("srvB", "/a", wire.Qid{Path: 3})

	c.ForgetServer("srvA")

	if _, ok := c.Load("srvA", "/a"); ok {
		t.Error("ForgetServer left an srvA entry behind")
	}
	if _, ok := c.Load("srvA", "/b"); ok {
		t.Error("ForgetServer left an srvA entry behind")
	}
	if _, ok := c.Load("srvB", "/a"); !ok {
		t.Error("ForgetServer removed an entry for an unrelated server")
	}
}
