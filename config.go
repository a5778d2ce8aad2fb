package rfs9

import (
	"os/user"

	"aqwari.net/net/rfs9/internal/rfslog"
	"aqwari.net/net/rfs9/internal/transport"
)

// Config configures a Namespace. The zero value is usable: Init fills
// in every unset field with a sane default, following the teacher's
// small-struct-literal configuration style (droyo-styx/client.go's
// Client{MaxSize, Timeout}), generalized to the worker's tunables.
type Config struct {
	// RendezvousDir overrides the directory the rendezvous socket is
	// created in. Empty means os.TempDir(), per spec §6.
	RendezvousDir string
	// Msize is the buffer size proposed in every Tversion. Zero means
	// transport.DefaultMsize.
	Msize uint32
	// Uname is the user name presented at every Tattach. Empty means
	// the name of the current OS user, falling back to "none" if that
	// can't be determined.
	Uname string
	// Logger receives the namespace's structured diagnostic events.
	// Nil discards them.
	Logger rfslog.Logger
}

func (c Config) withDefaults() Config {
	if c.Msize == 0 {
		c.Msize = transport.DefaultMsize
	}
	if c.Uname == "" {
		if u, err := user.Current(); err == nil && u.Username != "" {
			c.Uname = u.Username
		} else {
			c.Uname = "none"
		}
	}
	if c.Logger == nil {
		c.Logger = rfslog.Discard
	}
	return c
}
