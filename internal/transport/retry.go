package transport

import (
	"time"

	"aqwari.net/retry"
	"github.com/pkg/errors"

	"aqwari.net/net/rfs9/internal/rfserr"
)

// retryable reports whether err is a transient transport failure that
// an idempotent request (Tstat, Tclunk) may safely retry, per spec
// §7 ("Transport retry").
func retryable(err error) bool {
	if err == nil {
		return false
	}
	// An Rerror reply is reported with a bare Errno as its cause
	// (readMatching); only failures of the connection itself, whose
	// cause is the raw I/O error (mapIOErr), are transient.
	if _, ok := errors.Cause(err).(rfserr.Errno); ok {
		return false
	}
	return errors.Is(err, rfserr.ECONNRESET) || errors.Is(err, rfserr.EIO)
}

// withRetry runs op up to maxTries times, backing off exponentially
// between attempts the same way the teacher's accept loop backs off
// on temporary Accept errors (droyo-styx/server.go), using the
// teacher's own dependency, aqwari.net/retry.
func withRetry(maxTries int, op func() error) error {
	backoff := retry.Exponential(10 * time.Millisecond).Max(2 * time.Second)
	var err error
	for try := 1; try <= maxTries; try++ {
		err = op()
		if !retryable(err) {
			return err
		}
		if try < maxTries {
			time.Sleep(backoff(try))
		}
	}
	return err
}
