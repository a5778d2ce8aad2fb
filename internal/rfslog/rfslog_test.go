package rfslog

import (
	"os"
	"testing"
)

func devNull(t *testing.T) *os.File {
	t.Helper()
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestDiscardDoesNotPanic(t *testing.T) {
	l := Discard.With("server", "srvA")
	l.Debugf("walking %s", "/usr/glenda")
	l.Infof("mounted")
	l.Warnf("retrying after %v", "timeout")
	l.Errorf("giving up: %v", "econnreset")
}

func TestNewReturnsUsableLogger(t *testing.T) {
	l := New(devNull(t), false)
	l.Infof("hello %s", "world")
}
