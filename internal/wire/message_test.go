package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundtrip packs m, unpacks the result, and asserts the two are
// equal and that Unpack consumed exactly Len() bytes.
func roundtrip(t *testing.T, m Message) Message {
	t.Helper()
	buf := make([]byte, m.Len())
	n := m.Pack(buf)
	require.Equal(t, m.Len(), n, "Pack wrote a different length than Len reported")

	got, consumed, err := Unpack(buf)
	require.NoError(t, err)
	require.Equal(t, n, consumed)
	return got
}

func TestRoundtripAllVariants(t *testing.T) {
	cases := []Message{
		Tversion{Tag: NoTag, Msize: 8192, Version: "9P2000"},
		Rversion{Tag: NoTag, Msize: 8192, Version: "9P2000"},
		Tauth{Tag: 1, Afid: 2, Uname: "glenda", Aname: ""},
		Rauth{Tag: 1, Aqid: Qid{Path: 1, Vers: 0, Type: QTAUTH}},
		Tattach{Tag: 1, Fid: 0, Afid: NoFid, Uname: "glenda", Aname: ""},
		Rattach{Tag: 1, Qid: Qid{Path: 1, Type: QTDIR}},
		Rerror{Tag: 1, Ename: "no such file"},
		Tflush{Tag: 2, Oldtag: 1},
		Rflush{Tag: 2},
		Twalk{Tag: 3, Fid: 0, Newfid: 1, Wname: []string{"usr", "glenda"}},
		Rwalk{Tag: 3, Wqid: []Qid{{Path: 2}, {Path: 3}}},
		Twalk{Tag: 3, Fid: 0, Newfid: 1, Wname: nil},
		Rwalk{Tag: 3, Wqid: nil},
		Topen{Tag: 4, Fid: 1, Mode: 0},
		Ropen{Tag: 4, Qid: Qid{Path: 1}, IOunit: 8168},
		Tcreate{Tag: 5, Fid: 1, Name: "foo", Perm: 0644, Mode: 1},
		Rcreate{Tag: 5, Qid: Qid{Path: 4}, IOunit: 8168},
		Tread{Tag: 6, Fid: 1, Offset: 0, Count: 128},
		Rread{Tag: 6, Data: []byte("hello")},
		Rread{Tag: 6, Data: nil},
		Twrite{Tag: 7, Fid: 1, Offset: 0, Data: []byte("hello")},
		Rwrite{Tag: 7, Count: 5},
		Tclunk{Tag: 8, Fid: 1},
		Rclunk{Tag: 8},
		Tremove{Tag: 9, Fid: 1},
		Rremove{Tag: 9},
		Tstat{Tag: 10, Fid: 1},
		Rstat{Tag: 10, Stat: Stat{
			Qid: Qid{Path: 1, Type: QTDIR}, Mode: DMDIR | 0755,
			Name: "usr", Uid: "glenda", Gid: "glenda", Muid: "glenda",
		}},
		Twstat{Tag: 11, Fid: 1, Stat: Stat{
			Qid: Qid{Path: 1}, Mode: 0644, Name: "foo",
			Uid: "glenda", Gid: "glenda", Muid: "glenda",
		}},
		Rwstat{Tag: 11},
	}

	for _, want := range cases {
		want := want
		t.Run("", func(t *testing.T) {
			got := roundtrip(t, want)
			assert.Equal(t, want, got)
		})
	}
}

// TestTversionWireForm pins the exact byte layout of a known message,
// guarding against any accidental endianness or field-order
// regression.
func TestTversionWireForm(t *testing.T) {
	m := Tversion{Tag: NoTag, Msize: 255, Version: "9P2000"}
	want := []byte{
		0x13, 0x00, 0x00, 0x00, // size = 19
		0x64,       // Tversion
		0xff, 0xff, // tag = NoTag
		0xff, 0x00, 0x00, 0x00, // msize = 255
		0x06, 0x00, // len("9P2000")
		'9', 'P', '2', '0', '0', '0',
	}
	buf := make([]byte, m.Len())
	n := m.Pack(buf)
	require.Equal(t, len(want), n)
	assert.True(t, bytes.Equal(want, buf), "got % x, want % x", buf, want)
}

func TestUnpackTruncatedHeader(t *testing.T) {
	for n := 0; n < 4; n++ {
		_, _, err := Unpack(make([]byte, n))
		assert.Equal(t, errTruncated, err)
	}
}

func TestUnpackTruncatedBody(t *testing.T) {
	m := Rversion{Tag: NoTag, Msize: 8192, Version: "9P2000"}
	full := make([]byte, m.Len())
	m.Pack(full)

	for n := 4; n < len(full); n++ {
		_, _, err := Unpack(full[:n])
		assert.Equal(t, errTruncated, err, "prefix length %d", n)
	}
}

func TestUnpackUnknownType(t *testing.T) {
	buf := make([]byte, 7)
	puint32(buf, 7)
	buf[4] = 99 // not a valid 9P message type
	_, _, err := Unpack(buf)
	assert.Equal(t, ErrUnknownType, err)
}

func TestUnpackBadSizeTrailingGarbage(t *testing.T) {
	m := Rclunk{Tag: 1}
	buf := make([]byte, m.Len()+4)
	n := m.Pack(buf)
	puint32(buf, uint32(n+4)) // lie about the size to include garbage
	_, _, err := Unpack(buf)
	assert.Equal(t, ErrBadSize, err)
}

func TestTwalkPackRejectsTooManyElements(t *testing.T) {
	names := make([]string, MaxWElem+1)
	for i := range names {
		names[i] = "x"
	}
	m := Twalk{Tag: 1, Fid: 0, Newfid: 1, Wname: names}
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Pack(make([]byte, 4096)))
}

func TestTwalkUnpackRejectsTooManyElements(t *testing.T) {
	// fid[4] newfid[4] nwname[2], with nwname = MaxWElem+1 and no
	// element strings; the element count must be rejected before
	// Unpack ever tries to read an element that isn't there.
	const size = 4 + 3 + 4 + 4 + 2
	bad := make([]byte, size)
	puint32(bad, size)
	bad[4] = msgTwalk
	puint16(bad[5:], 1)
	puint32(bad[7:], 0)
	puint32(bad[11:], 1)
	puint16(bad[15:], MaxWElem+1)

	_, _, err := Unpack(bad)
	assert.Equal(t, ErrTooManyWalkElems, err)
}

func TestRwalkPackRejectsTooManyElements(t *testing.T) {
	qids := make([]Qid, MaxWElem+1)
	m := Rwalk{Tag: 1, Wqid: qids}
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Pack(make([]byte, 4096)))
}

func TestRerrorTruncatesOverlongMessage(t *testing.T) {
	long := make([]byte, MaxErrorLen+100)
	for i := range long {
		long[i] = 'x'
	}
	m := Rerror{Tag: 1, Ename: string(long)}
	buf := make([]byte, m.Len())
	n := m.Pack(buf)
	require.NotZero(t, n)

	got, _, err := Unpack(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, MaxErrorLen, len(got.(Rerror).Ename))
}

func TestStatSizeFieldIsBodyLenNotPackedLen(t *testing.T) {
	s := Stat{
		Qid: Qid{Path: 1, Type: QTDIR}, Mode: DMDIR | 0755,
		Name: "usr", Uid: "glenda", Gid: "glenda", Muid: "glenda",
	}
	buf := make([]byte, s.PackedLen())
	w, _ := newEncoder(buf)
	require.NoError(t, s.Pack(w))

	declared, _, _ := getUint16(buf)
	assert.Equal(t, s.bodyLen(), int(declared))
	assert.Equal(t, s.PackedLen(), 2+int(declared))
}

func TestUnpackStatRejectsTruncatedStrings(t *testing.T) {
	s := Stat{Qid: Qid{Path: 1}, Name: "foo", Uid: "a", Gid: "a", Muid: "a"}
	buf := make([]byte, s.PackedLen())
	w, _ := newEncoder(buf)
	require.NoError(t, s.Pack(w))

	for n := 0; n < len(buf); n++ {
		_, _, err := UnpackStat(buf[:n])
		assert.Error(t, err, "prefix length %d", n)
	}
}

func TestAllVariantsAreMessages(t *testing.T) {
	var ms []Message = []Message{
		Tversion{}, Rversion{}, Tauth{}, Rauth{}, Tattach{}, Rattach{},
		Rerror{}, Tflush{}, Rflush{}, Twalk{}, Rwalk{}, Topen{}, Ropen{},
		Tcreate{}, Rcreate{}, Tread{}, Rread{}, Twrite{}, Rwrite{},
		Tclunk{}, Rclunk{}, Tremove{}, Rremove{}, Tstat{}, Rstat{},
		Twstat{}, Rwstat{},
	}
	assert.Len(t, ms, 27)
}
