package mount

// Flag bitmask values for Bind/Mount sources, taken verbatim from
// original_source/include/rfs/rfs.h's enum (RFS_MREPL=1<<0, ...). The
// root package re-exports these under the public names spec §6 names.
const (
	MREPL = 1 << iota
	MBEFORE
	MAFTER
	MCREATE
	MCACHE
)
