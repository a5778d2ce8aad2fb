package wire

import "errors"

// decodeError is a sentinel error produced while unpacking a message
// or stat record. All of these leave the destination value reset; no
// partial results are returned.
type decodeError string

func (e decodeError) Error() string { return string(e) }

var (
	// ErrShortBuffer is returned by UnpackStat and by Unpack of Rwalk
	// when a field declares a size or count larger than the bytes
	// actually available. A whole message whose declared size exceeds
	// the buffer is reported by Unpack as ErrTruncated() instead, since
	// more bytes may still arrive.
	ErrShortBuffer = decodeError("wire: buffer shorter than declared size")

	// ErrBadSize is returned when a message's declared size field does
	// not match the size computed from its own contents.
	ErrBadSize = decodeError("wire: declared size inconsistent with contents")

	// ErrUnknownType is returned when a message's type byte does not
	// correspond to any of the thirteen known T/R pairs.
	ErrUnknownType = decodeError("wire: unknown message type")

	// ErrTooManyWalkElems is returned by Unpack of Twalk and Rwalk when
	// the element count exceeds MaxWElem. Pack and Len of such a Twalk
	// or Rwalk return 0 rather than an error.
	ErrTooManyWalkElems = decodeError("wire: walk element count exceeds MaxWElem")

	// ErrLongString is returned by Unpack when a string field is
	// truncated or longer than its field's limit. Pack of a string
	// that would exceed the 16-bit length prefix returns 0.
	ErrLongString = decodeError("wire: string exceeds 65535 bytes")

	// ErrLongStat is returned by Pack when a Stat would serialize to
	// more than math.MaxUint16 bytes, or by Unpack when a declared Stat
	// is implausibly large.
	ErrLongStat = decodeError("wire: stat record too long")

	// ErrShortStat is returned when a Stat buffer is too small to hold
	// the fixed-width prefix of a stat record.
	ErrShortStat = decodeError("wire: stat record too short")

	// ErrInvalidUTF8 reports a string field that is not valid UTF-8.
	// The decoders in this package do not check UTF-8 validity and do
	// not return it.
	ErrInvalidUTF8 = decodeError("wire: field is not valid utf8")

	// ErrInvalidVersion is returned by Unpack of Tversion/Rversion when
	// the version string does not begin with "9P" and is not exactly
	// "unknown".
	ErrInvalidVersion = decodeError("wire: version string missing 9P prefix")

	// ErrWrongTag is returned by Unpack of Tversion/Rversion when a tag
	// other than NoTag is present.
	ErrWrongTag = decodeError("wire: Tversion/Rversion must use NoTag")
)

// errTruncated wraps errors.New so callers distinguish "not enough
// bytes were available yet" from a content error; the rendezvous /
// transport readers grow their buffer and try again on this error.
var errTruncated = errors.New("wire: message truncated")

// ErrTruncated reports a buffer that does not yet contain a complete
// message; the caller should read more bytes and retry.
func ErrTruncated() error { return errTruncated }
