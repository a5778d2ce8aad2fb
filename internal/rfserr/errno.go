// Package rfserr defines the POSIX-style error codes the client API
// returns to callers (spec §5), and wraps them with pkg/errors so a
// caller can still recover the underlying protocol or transport
// failure with errors.Cause while testing for a specific code with
// errors.Is.
package rfserr

import "github.com/pkg/errors"

// Errno is a POSIX-style error code returned by Bind, Mount, Unmount,
// Init, and Deinit. It implements error directly so it can be
// compared with errors.Is without an intermediate wrapper type.
type Errno int

// The error codes the client API surfaces, named after the negated
// errno values the original C implementation returned from its IPC
// call wrappers.
const (
	ENOENT       Errno = iota + 1 // no such file or directory
	ELOOP                         // too many levels of symbolic links / mount cycle
	ENAMETOOLONG                  // path or rendezvous name too long
	EPERM                         // operation not permitted
	EACCES                        // permission denied (peer credential mismatch)
	ECONNRESET                    // server connection reset
	EIO                           // I/O error
	EBADMSG                       // malformed message
	EMSGSIZE                      // message too large for msize
	ENOMEM                        // out of memory
	EMFILE                        // too many open fids
	EPROTO                        // protocol error
	ENOTDIR                       // not a directory
	EEXIST                        // file exists
	ESHUTDOWN                     // the worker has been torn down by Deinit
)

var names = map[Errno]string{
	ENOENT:       "no such file or directory",
	ELOOP:        "too many levels of symbolic links",
	ENAMETOOLONG: "name too long",
	EPERM:        "operation not permitted",
	EACCES:       "permission denied",
	ECONNRESET:   "connection reset by peer",
	EIO:          "input/output error",
	EBADMSG:      "bad message",
	EMSGSIZE:     "message too long",
	ENOMEM:       "cannot allocate memory",
	EMFILE:       "too many open files",
	EPROTO:       "protocol error",
	ENOTDIR:      "not a directory",
	EEXIST:       "file exists",
	ESHUTDOWN:    "namespace has been deinitialized",
}

func (e Errno) Error() string {
	if s, ok := names[e]; ok {
		return s
	}
	return "unknown error"
}

// Wrap annotates err with msg and associates it with code, so that
// both errors.Is(result, code) and errors.Cause(result) == err hold.
func Wrap(code Errno, err error, msg string) error {
	if err == nil {
		return errors.WithMessage(code, msg)
	}
	return &causeErrno{
		error: errors.WithMessage(errors.WithStack(err), msg),
		code:  code,
	}
}

// causeErrno lets a wrapped error report an Errno through errors.Is
// while still unwrapping to the original cause through errors.Cause.
type causeErrno struct {
	error
	code Errno
}

func (c *causeErrno) Is(target error) bool {
	code, ok := target.(Errno)
	return ok && code == c.code
}

func (c *causeErrno) Cause() error { return c.error }

func (c *causeErrno) Unwrap() error { return c.error }
