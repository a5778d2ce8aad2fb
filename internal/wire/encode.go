package wire

import (
	"errors"

	"aqwari.net/net/rfs9/internal/ioutil"
)

// sliceWriter implements io.Writer over a caller-supplied, fixed
// capacity buffer. Writing past the end of the buffer is reported as
// an error rather than growing the slice: every Message's Len method
// tells the caller exactly how large a buffer to provide, so running
// out of room indicates a mismatched Len/Pack pair, which is a bug in
// this package, not a recoverable caller condition.
type sliceWriter struct {
	buf []byte
	off int
}

var errBufferFull = errors.New("wire: destination buffer too small")

func (s *sliceWriter) Write(p []byte) (int, error) {
	if s.off+len(p) > len(s.buf) {
		return 0, errBufferFull
	}
	n := copy(s.buf[s.off:], p)
	s.off += n
	return n, nil
}

// newEncoder returns an ErrWriter that writes into buf starting at
// offset 0.
func newEncoder(buf []byte) (*ioutil.ErrWriter, *sliceWriter) {
	sw := &sliceWriter{buf: buf}
	return &ioutil.ErrWriter{W: sw}, sw
}

// putHeader writes the common size[4] type[1] tag[2] prefix that
// begins every 9P message.
func putHeader(w *ioutil.ErrWriter, size uint32, mtype uint8, tag uint16) {
	putUint32(w, size)
	putUint8(w, mtype)
	putUint16(w, tag)
}
