package mount

import (
	"testing"

	"aqwari.net/net/rfs9/internal/transport"
)

func conv() *transport.Conversation { return &transport.Conversation{} }

func names(t *testing.T, srcs []*Source) []string {
	t.Helper()
	var out []string
	for _, s := range srcs {
		out = append(out, s.Aname())
	}
	return out
}

func mount(t *testing.T, tbl *Table, mountPoint, aname string, flags int) {
	t.Helper()
	if err := tbl.Mount(conv(), 0, aname, mountPoint, flags); err != nil {
		t.Fatalf("Mount(%q): %v", aname, err)
	}
}

func TestMountSearchOrder(t *testing.T) {
	tbl := New()
	mount(t, tbl, "/n", "A", MAFTER)
	mount(t, tbl, "/n", "B", MAFTER)
	if got := names(t, tbl.Sources("/n")); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("after AFTER A, AFTER B: got %v, want [A B]", got)
	}

	mount(t, tbl, "/n", "C", MBEFORE)
	if got := names(t, tbl.Sources("/n")); len(got) != 3 || got[0] != "C" {
		t.Fatalf("after BEFORE C: got %v, want head C", got)
	}

	mount(t, tbl, "/n", "D", MREPL)
	if got := names(t, tbl.Sources("/n")); len(got) != 1 || got[0] != "D" {
		t.Fatalf("after REPL D: got %v, want [D]", got)
	}
}

func TestMountOrderTwoBeforesHeadIsSecond(t *testing.T) {
	tbl := New()
	mount(t, tbl, "/n", "first", MBEFORE)
	mount(t, tbl, "/n", "second", MBEFORE)
	got := names(t, tbl.Sources("/n"))
	if len(got) != 2 || got[0] != "second" {
		t.Fatalf("got %v, want head \"second\"", got)
	}
}

func TestBindResolvesThroughIndirection(t *testing.T) {
	tbl := New()
	mount(t, tbl, "/tmp", "real", MREPL)
	if err := tbl.Bind("/var/tmp", "/tmp", MREPL); err != nil {
		t.Fatal(err)
	}
	resolved, err := tbl.Resolve("/var/tmp")
	if err != nil {
		t.Fatal(err)
	}
	if got := names(t, resolved); len(got) != 1 || got[0] != "real" {
		t.Fatalf("resolved = %v, want [real]", got)
	}
}

func TestBindCycleDetected(t *testing.T) {
	tbl := New()
	mount(t, tbl, "/a", "real", MREPL)
	// /b validly binds to /a (which resolves, to "real").
	if err := tbl.Bind("/b", "/a", MREPL); err != nil {
		t.Fatal(err)
	}
	// Appending a bind from /a back to /b is also valid at bind time
	// (/b resolves, through /a, to "real") but introduces a cycle that
	// only surfaces on resolution.
	if err := tbl.Bind("/a", "/b", MAFTER); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.Resolve("/a"); err == nil {
		t.Fatal("expected a cycle error")
	}
}

// TestBindDiamondIsNotACycle covers a mount point with two sources
// that both legitimately bind through a shared target: not a cycle,
// since neither is its own ancestor on any one path.
func TestBindDiamondIsNotACycle(t *testing.T) {
	tbl := New()
	mount(t, tbl, "/c", "real", MREPL)
	if err := tbl.Bind("/a", "/c", MREPL); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Bind("/b", "/c", MREPL); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Bind("/n", "/a", MREPL); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Bind("/n", "/b", MAFTER); err != nil {
		t.Fatal(err)
	}
	resolved, err := tbl.Resolve("/n")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := names(t, resolved); len(got) != 2 || got[0] != "real" || got[1] != "real" {
		t.Fatalf("resolved = %v, want [real real]", got)
	}
}

func TestBindOfUnknownTargetIsENOENT(t *testing.T) {
	tbl := New()
	if err := tbl.Bind("/new", "/never-mounted", MREPL); err == nil {
		t.Fatal("expected ENOENT binding to an unresolvable target")
	}
}

func TestUnmountByNameRemovesOnlyThatSource(t *testing.T) {
	tbl := New()
	mount(t, tbl, "/n", "x", MAFTER)
	mount(t, tbl, "/n", "y", MAFTER)

	if _, err := tbl.Unmount("x", "/n"); err != nil {
		t.Fatal(err)
	}
	remaining := tbl.Sources("/n")
	if len(remaining) != 1 || remaining[0].Aname() != "y" {
		t.Fatalf("remaining = %v, want just y", names(t, remaining))
	}
}

func TestUnmountNilNameRemovesAllAndTearsDownConversation(t *testing.T) {
	tbl := New()
	c := conv()
	if err := tbl.Mount(c, 0, "tree", "/n", MREPL); err != nil {
		t.Fatal(err)
	}
	torn, err := tbl.Unmount("", "/n")
	if err != nil {
		t.Fatal(err)
	}
	if len(torn) != 1 || torn[0] != c {
		t.Fatalf("torn = %v, want [%v]", torn, c)
	}
	if _, err := tbl.Resolve("/n"); err == nil {
		t.Fatal("expected resolution of an unmounted point to fail")
	}
}

func TestUnmountUnknownMountPointIsENOENT(t *testing.T) {
	tbl := New()
	if _, err := tbl.Unmount("", "/nope"); err == nil {
		t.Fatal("expected an error unmounting a point that was never mounted")
	}
}
