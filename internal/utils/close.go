package utils

import (
	"io"
	"log/slog"
)

// CloseWithLog closes c and logs a warning when the close fails. Meant for
// defer sites where the close error must not override the function's primary
// error but should not be silently dropped either.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err)
	}
}
