package wire

import (
	"fmt"
	"math"

	"aqwari.net/net/rfs9/internal/ioutil"
)

// Stat describes a single directory entry, as carried in Rstat and
// Twstat and as returned by reads of a directory file. Field order
// and sizes follow spec §3/§4.2 and the original rfs__9p_stat_t
// layout: size[2] type[2] dev[4] qid[13] mode[4] atime[4] mtime[4]
// length[8] name[s] uid[s] gid[s] muid[s].
//
// All string fields are owned, independently-allocated Go strings;
// see SPEC_FULL.md's Open Question resolution on Stat ownership.
type Stat struct {
	Type   uint16
	Dev    uint32
	Qid    Qid
	Mode   uint32
	Atime  uint32
	Mtime  uint32
	Length uint64
	Name   string
	Uid    string
	Gid    string
	Muid   string
}

// IsDir reports whether the stat describes a directory.
func (s Stat) IsDir() bool { return s.Mode&DMDIR != 0 }

func (s Stat) String() string {
	return fmt.Sprintf("type=%x dev=%x qid=%s mode=%o atime=%d mtime=%d "+
		"length=%d name=%q uid=%q gid=%q muid=%q", s.Type, s.Dev, s.Qid,
		s.Mode, s.Atime, s.Mtime, s.Length, s.Name, s.Uid, s.Gid, s.Muid)
}

// bodyLen returns the number of bytes in the wire form of s that
// follow the leading size[2] field.
func (s Stat) bodyLen() int {
	return 2 + 4 + QidLen + 4 + 4 + 4 + 8 +
		2 + len(s.Name) + 2 + len(s.Uid) + 2 + len(s.Gid) + 2 + len(s.Muid)
}

// PackedLen returns the total number of bytes Pack will write for s,
// including the leading size[2] field.
func (s Stat) PackedLen() int { return 2 + s.bodyLen() }

// Pack serializes s through w. The size[2] field written is, per
// rfs__9p_stat_size's contract (spec §4.2), the byte count following
// the size field itself -- i.e. bodyLen(), not PackedLen().
func (s Stat) Pack(w *ioutil.ErrWriter) error {
	n := s.bodyLen()
	if n > math.MaxUint16 {
		return ErrLongStat
	}
	putUint16(w, uint16(n))
	putUint16(w, s.Type)
	putUint32(w, s.Dev)
	packQid(w, s.Qid)
	putUint32(w, s.Mode, s.Atime, s.Mtime)
	putUint64(w, s.Length)
	putString(w, s.Name, s.Uid, s.Gid, s.Muid)
	return w.Err
}

// UnpackStat reads a single Stat record from the front of buf and
// returns it along with the number of bytes consumed (2+size). An
// error leaves the returned Stat as its zero value.
func UnpackStat(buf []byte) (Stat, int, error) {
	size, n, ok := getUint16(buf)
	if !ok {
		return Stat{}, 0, ErrShortStat
	}
	total := n + int(size)
	if total > len(buf) {
		return Stat{}, 0, ErrShortBuffer
	}
	if int(size) < minStatLen-2 {
		return Stat{}, 0, ErrShortStat
	}
	if int(size) > maxStatLen-2 {
		return Stat{}, 0, ErrLongStat
	}
	body := buf[n:total]
	off := 0

	typ, k, _ := getUint16(body[off:])
	off += k
	dev, k, _ := getUint32(body[off:])
	off += k
	qid, k, ok := unpackQid(body[off:])
	if !ok {
		return Stat{}, 0, ErrShortStat
	}
	off += k
	mode, k, _ := getUint32(body[off:])
	off += k
	atime, k, _ := getUint32(body[off:])
	off += k
	mtime, k, _ := getUint32(body[off:])
	off += k
	length, k, _ := getUint64(body[off:])
	off += k

	name, k, ok := getString(body[off:])
	if !ok || len(name) > MaxFilenameLen {
		return Stat{}, 0, ErrLongStat
	}
	off += k
	uid, k, ok := getString(body[off:])
	if !ok || len(uid) > MaxUidLen {
		return Stat{}, 0, ErrLongStat
	}
	off += k
	gid, k, ok := getString(body[off:])
	if !ok || len(gid) > MaxUidLen {
		return Stat{}, 0, ErrLongStat
	}
	off += k
	muid, k, ok := getString(body[off:])
	if !ok || len(muid) > MaxUidLen {
		return Stat{}, 0, ErrLongStat
	}
	off += k

	if off != len(body) {
		return Stat{}, 0, ErrBadSize
	}

	return Stat{
		Type: typ, Dev: dev, Qid: qid, Mode: mode,
		Atime: atime, Mtime: mtime, Length: length,
		Name: name, Uid: uid, Gid: gid, Muid: muid,
	}, total, nil
}
