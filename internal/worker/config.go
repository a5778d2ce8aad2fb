package worker

import "aqwari.net/net/rfs9/internal/rfslog"

// Config carries the worker's tunables. It has no teacher analogue
// (droyo-styx's server has no equivalent configuration surface); it's
// the internal mirror of the root package's public Config, kept
// separate so this package doesn't import the root package (the root
// package imports this one).
type Config struct {
	// RendezvousPath is the Unix domain socket path the worker binds
	// at startup (spec §6).
	RendezvousPath string
	// Msize is the buffer size proposed in every Tversion this worker
	// negotiates; the server may negotiate it down.
	Msize uint32
	// Uname is the user name presented in every Tattach. The public
	// mount() call spec §6 documents takes no uname argument, so the
	// worker supplies one uniformly (DESIGN.md's "Open Question
	// resolution (uname source)").
	Uname string
	// Logger receives the worker's structured diagnostic events.
	Logger rfslog.Logger
}
