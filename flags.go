package rfs9

import (
	"aqwari.net/net/rfs9/internal/mount"
	"aqwari.net/net/rfs9/internal/wire"
)

// Flag bitmask values for Bind and Mount, per spec §6. Exactly one of
// MREPL, MBEFORE, MAFTER applies to a given call; MCREATE and MCACHE
// independently decorate the source being added.
const (
	MREPL   = mount.MREPL
	MBEFORE = mount.MBEFORE
	MAFTER  = mount.MAFTER
	MCREATE = mount.MCREATE
	MCACHE  = mount.MCACHE
)

// NoFid is the afid value Mount accepts to mean "no Tauth exchange was
// performed."
const NoFid = wire.NoFid
