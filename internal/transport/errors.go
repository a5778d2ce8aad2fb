package transport

import (
	"errors"
	"io"
	"net"

	"aqwari.net/net/rfs9/internal/rfserr"
)

// mapIOErr classifies a raw I/O error from the underlying net.Conn
// into the portable taxonomy internal/rfserr defines, matching the
// negative-errno contract spec §7 describes.
func mapIOErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return rfserr.Wrap(rfserr.ECONNRESET, err, "connection closed by server")
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return rfserr.Wrap(rfserr.EIO, err, "network error")
	}
	return rfserr.Wrap(rfserr.EIO, err, "transport error")
}
