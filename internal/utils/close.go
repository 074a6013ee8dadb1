package utils

import (
	"io"
)

// DrainAndClose discards what is left of an HTTP body (up to limit bytes) so
// the connection can be reused, then closes it.
func DrainAndClose(rc io.ReadCloser, limit int64) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, limit))
	_ = rc.Close()
}
