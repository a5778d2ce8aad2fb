package rfserr

import (
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ENOENT, nil, "walking /usr/glenda")
	if !errors.Is(err, ENOENT) {
		t.Errorf("errors.Is(err, ENOENT) = false, want true")
	}
	if errors.Is(err, EPERM) {
		t.Errorf("errors.Is(err, EPERM) = true, want false")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := Wrap(ECONNRESET, cause, "reading Rversion")

	if !errors.Is(err, ECONNRESET) {
		t.Errorf("errors.Is(err, ECONNRESET) = false, want true")
	}
	if got := errors.Cause(err); got != cause {
		t.Errorf("errors.Cause(err) = %v, want %v", got, cause)
	}
}

func TestErrnoMessage(t *testing.T) {
	if got, want := ENOENT.Error(), "no such file or directory"; got != want {
		t.Errorf("ENOENT.Error() = %q, want %q", got, want)
	}
}
