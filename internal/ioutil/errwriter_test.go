package ioutil

import (
	"bytes"
	"errors"
	"testing"
)

func TestErrWriterStopsAfterFirstError(t *testing.T) {
	var buf bytes.Buffer
	w := &ErrWriter{W: &buf}

	w.Write([]byte("abc"))
	w.Err = errors.New("boom")
	n, err := w.Write([]byte("def"))

	if n != 0 || err == nil {
		t.Errorf("Write after Err set = (%d, %v), want (0, non-nil)", n, err)
	}
	if buf.String() != "abc" {
		t.Errorf("buf = %q, want %q", buf.String(), "abc")
	}
}

func TestErrWriterTracksByteCount(t *testing.T) {
	var buf bytes.Buffer
	w := &ErrWriter{W: &buf}

	w.WriteByte('a')
	w.WriteString("bc")
	w.Write([]byte("de"))

	if w.N != 5 {
		t.Errorf("N = %d, want 5", w.N)
	}
	if buf.String() != "abcde" {
		t.Errorf("buf = %q, want %q", buf.String(), "abcde")
	}
}
