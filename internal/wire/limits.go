// Package wire implements the 9P2000 wire codec: fixed-width
// little-endian primitives, the Qid and Stat structural records, and
// the closed set of thirteen T/R message pairs.
package wire

// Limits on variable-length fields. Unbounded fields would make it
// impossible to size read buffers up front; these mirror the limits
// Plan 9 file servers enforce in practice.
const (
	// MaxVersionLen is the maximum length of the protocol version string.
	MaxVersionLen = 20

	// MaxWElem is the maximum number of path elements accepted by a
	// single Twalk request.
	MaxWElem = 16

	// MaxFilenameLen is the maximum length of a single path element or
	// stat name, in bytes.
	MaxFilenameLen = 512

	// MaxUidLen is the maximum length of a uid, gid, or muid string.
	MaxUidLen = 45

	// MaxErrorLen is the maximum length of an Rerror ename.
	MaxErrorLen = 512

	// MaxAttachLen is the maximum length of the aname field of Tattach
	// and Tauth.
	MaxAttachLen = 255

	// MaxOffset is the largest offset accepted in Tread/Twrite.
	MaxOffset = 1<<63 - 1

	// MaxFileLen is the largest length a Stat record may report.
	MaxFileLen = 1<<64 - 1

	// QidLen is the wire size of a Qid: type[1] vers[4] path[8].
	QidLen = 13

	// minStatLen is the smallest legal Stat, with every string field
	// empty: size[2] type[2] dev[4] qid[13] mode[4] atime[4] mtime[4]
	// length[8] + four empty length-prefixed strings (2 bytes each).
	minStatLen = 49

	// maxStatLen bounds a Stat so that MaxFilenameLen/MaxUidLen can't be
	// exceeded by a malicious peer.
	maxStatLen = minStatLen + MaxFilenameLen + MaxUidLen*3

	// NoTag is reserved for Tversion/Rversion, the only exchange that
	// precedes tag negotiation.
	NoTag uint16 = 0xFFFF

	// NoFid indicates the absence of an auth fid in Tauth/Tattach.
	NoFid uint32 = 0xFFFFFFFF
)

// minSizeLUT holds the smallest legal message length (excluding the
// 4-byte size field itself) for every message type, indexed by the
// type's wire code. A zero entry means the type code is unused.
// type[1] tag[2] precede every body below.
var minSizeLUT = [256]int{
	msgTversion: 3 + 4 + 2,          // msize[4] version[s=0]
	msgRversion: 3 + 4 + 2,          // msize[4] version[s=0]
	msgTauth:    3 + 4 + 2 + 2,      // afid[4] uname[s=0] aname[s=0]
	msgRauth:    3 + QidLen,         // aqid[13]
	msgTattach:  3 + 4 + 4 + 2 + 2,  // fid[4] afid[4] uname[s=0] aname[s=0]
	msgRattach:  3 + QidLen,         // qid[13]
	msgRerror:   3 + 2,              // ename[s=0]
	msgTflush:   3 + 2,              // oldtag[2]
	msgRflush:   3,                  //
	msgTwalk:    3 + 4 + 4 + 2,      // fid[4] newfid[4] nwname[2]
	msgRwalk:    3 + 2,              // nwqid[2]
	msgTopen:    3 + 4 + 1,          // fid[4] mode[1]
	msgRopen:    3 + QidLen + 4,     // qid[13] iounit[4]
	msgTcreate:  3 + 4 + 2 + 4 + 1,  // fid[4] name[s=0] perm[4] mode[1]
	msgRcreate:  3 + QidLen + 4,     // qid[13] iounit[4]
	msgTread:    3 + 4 + 8 + 4,      // fid[4] offset[8] count[4]
	msgRread:    3 + 4,              // count[4]
	msgTwrite:   3 + 4 + 8 + 4,      // fid[4] offset[8] count[4]
	msgRwrite:   3 + 4,              // count[4]
	msgTclunk:   3 + 4,              // fid[4]
	msgRclunk:   3,                  //
	msgTremove:  3 + 4,              // fid[4]
	msgRremove:  3,                  //
	msgTstat:    3 + 4,              // fid[4]
	msgRstat:    3 + minStatLen, // stat[minStatLen]
	msgTwstat:   3 + 4 + minStatLen,
	msgRwstat:   3,
}

// fixedSize reports whether a message type has no variable-length
// fields, so that unpack can reject any trailing garbage.
func fixedSize(t uint8) bool {
	switch t {
	case msgTversion, msgRversion, msgTauth, msgTattach, msgRerror,
		msgTwalk, msgRwalk, msgTcreate, msgRread, msgTwrite,
		msgRstat, msgTwstat:
		return false
	}
	return true
}
