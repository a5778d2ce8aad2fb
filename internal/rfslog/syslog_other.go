//go:build windows || plan9

package rfslog

import "errors"

// NewSyslog is unavailable on platforms with no local syslog daemon;
// it always returns an error.
func NewSyslog(tag string) (Logger, error) {
	return nil, errors.New("rfslog: syslog is not supported on this platform")
}
