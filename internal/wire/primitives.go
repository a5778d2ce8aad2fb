package wire

import (
	"encoding/binary"
	"math"

	"aqwari.net/net/rfs9/internal/ioutil"
)

// Shorthand for the little-endian accessors used throughout the
// codec. 9P2000 is little-endian on the wire regardless of host
// byte order.
var (
	guint16 = binary.LittleEndian.Uint16
	guint32 = binary.LittleEndian.Uint32
	guint64 = binary.LittleEndian.Uint64

	puint16 = binary.LittleEndian.PutUint16
	puint32 = binary.LittleEndian.PutUint32
	puint64 = binary.LittleEndian.PutUint64
)

// putUint8 writes a single byte through w.
func putUint8(w *ioutil.ErrWriter, v uint8) {
	w.WriteByte(v)
}

// putUint16 writes v as a little-endian uint16 through w.
func putUint16(w *ioutil.ErrWriter, v uint16) {
	var buf [2]byte
	puint16(buf[:], v)
	w.Write(buf[:])
}

// putUint32 writes each of v as a little-endian uint32 through w, in
// order. Multiple values share one call the way 9P headers pack
// several uint32 fields back to back.
func putUint32(w *ioutil.ErrWriter, v ...uint32) {
	var buf [4]byte
	for _, vv := range v {
		puint32(buf[:], vv)
		w.Write(buf[:])
	}
}

// putUint64 writes v as a little-endian uint64 through w.
func putUint64(w *ioutil.ErrWriter, v uint64) {
	var buf [8]byte
	puint64(buf[:], v)
	w.Write(buf[:])
}

// putString writes s as a 16-bit length prefix followed by its raw
// bytes, with no terminator. A nil/empty string serializes as a
// length of zero, per spec §4.1.
func putString(w *ioutil.ErrWriter, s ...string) {
	for _, ss := range s {
		if len(ss) > math.MaxUint16 {
			w.Err = ErrLongString
			return
		}
		putUint16(w, uint16(len(ss)))
		w.WriteString(ss)
	}
}

// putBytes32 writes a 32-bit count followed by a raw byte slice; used
// for Rread/Twrite payloads where a copy into a string would be
// wasteful.
func putBytes32(w *ioutil.ErrWriter, count uint32, p []byte) {
	putUint32(w, count)
	w.Write(p)
}

// getUint8 reads a single byte from buf and reports the number of
// bytes consumed (1), or 0 if buf is empty.
func getUint8(buf []byte) (uint8, int, bool) {
	if len(buf) < 1 {
		return 0, 0, false
	}
	return buf[0], 1, true
}

// getUint16 reads a little-endian uint16 from buf.
func getUint16(buf []byte) (uint16, int, bool) {
	if len(buf) < 2 {
		return 0, 0, false
	}
	return guint16(buf), 2, true
}

// getUint32 reads a little-endian uint32 from buf.
func getUint32(buf []byte) (uint32, int, bool) {
	if len(buf) < 4 {
		return 0, 0, false
	}
	return guint32(buf), 4, true
}

// getUint64 reads a little-endian uint64 from buf.
func getUint64(buf []byte) (uint64, int, bool) {
	if len(buf) < 8 {
		return 0, 0, false
	}
	return guint64(buf), 8, true
}

// getString reads a 16-bit length prefix followed by that many bytes
// from buf, and returns an owned copy of the string plus the number
// of bytes consumed (2+length), or 0 if buf is too short.
//
// This is the "safer equivalent" spec §4.1 calls for: the source
// implementation shifts the source buffer in place so it can plant a
// NUL terminator; copying the field out instead gives identical
// semantics to callers without requiring the source buffer to outlive
// the returned value.
func getString(buf []byte) (string, int, bool) {
	n, hdr, ok := getUint16(buf)
	if !ok {
		return "", 0, false
	}
	end := hdr + int(n)
	if end > len(buf) {
		return "", 0, false
	}
	return string(buf[hdr:end]), end, true
}
