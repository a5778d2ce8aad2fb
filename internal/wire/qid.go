package wire

import (
	"fmt"

	"aqwari.net/net/rfs9/internal/ioutil"
)

// QidType is the kind-flags byte of a Qid / the high byte of a Stat's
// mode field.
type QidType uint8

// Qid type bits, per spec §3.
const (
	QTDIR    QidType = 0x80
	QTAPPEND QidType = 0x40
	QTEXCL   QidType = 0x20
	QTMOUNT  QidType = 0x10
	QTAUTH   QidType = 0x08
	QTTMP    QidType = 0x04
	QTFILE   QidType = 0x00
)

// Dir mode bits, the upper nibble of a Stat's Mode field.
const (
	DMDIR    uint32 = 0x80000000
	DMAPPEND uint32 = 0x40000000
	DMEXCL   uint32 = 0x20000000
	DMMOUNT  uint32 = 0x10000000
	DMAUTH   uint32 = 0x08000000
	DMTMP    uint32 = 0x04000000
	DMREAD   uint32 = 0x4
	DMWRITE  uint32 = 0x2
	DMEXEC   uint32 = 0x1
)

// Qid is the server's unique identity for a file: two files on the
// same server are the same file iff their Qids have the same Path
// (see Equal). Qid is immutable except that Vers advances whenever
// the file is modified.
type Qid struct {
	Path uint64
	Vers uint32
	Type QidType
}

// Equal reports whether two Qids name the same file on the same
// server. Callers are expected to have already established that both
// Qids came from the same server connection; Qid carries no server
// identity of its own.
func (q Qid) Equal(other Qid) bool { return q.Path == other.Path }

func (q Qid) String() string {
	return fmt.Sprintf("(%05x %x %s)", q.Path, q.Vers, q.Type)
}

func (t QidType) String() string {
	var buf [6]byte
	n := 0
	if t&QTDIR != 0 {
		buf[n] = 'd'
		n++
	}
	if t&QTAPPEND != 0 {
		buf[n] = 'a'
		n++
	}
	if t&QTEXCL != 0 {
		buf[n] = 'l'
		n++
	}
	if t&QTMOUNT != 0 {
		buf[n] = 'm'
		n++
	}
	if t&QTAUTH != 0 {
		buf[n] = 'A'
		n++
	}
	if t&QTTMP != 0 {
		buf[n] = 't'
		n++
	}
	return string(buf[:n])
}

// packQid writes the 13-byte wire form of q: type[1] vers[4] path[8].
func packQid(w *ioutil.ErrWriter, q Qid) {
	putUint8(w, uint8(q.Type))
	putUint32(w, q.Vers)
	putUint64(w, q.Path)
}

// unpackQid reads a 13-byte Qid from the front of buf.
func unpackQid(buf []byte) (Qid, int, bool) {
	if len(buf) < QidLen {
		return Qid{}, 0, false
	}
	return Qid{
		Type: QidType(buf[0]),
		Vers: guint32(buf[1:5]),
		Path: guint64(buf[5:13]),
	}, QidLen, true
}
