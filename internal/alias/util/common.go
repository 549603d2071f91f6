package util

import (
	"io"
	"log/slog"
)

// CloseFunc closes c and logs the failure; meant for defer.
func CloseFunc(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "err", err)
	}
}
