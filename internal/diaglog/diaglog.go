// Package diaglog provides the host's diagnostic trace log. Every frame
// sent or received and every internal error is mirrored here. The log is
// strictly best-effort: an unopenable file degrades to a no-op logger and
// write failures are swallowed, so logging can never affect protocol
// behavior or crash the host.
package diaglog

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// File permissions for the log file
const (
	logFilePermissions = 0644
)

// swallowWriter forwards writes to the underlying file and reports success
// regardless of the outcome.
type swallowWriter struct {
	w io.Writer
}

func (s swallowWriter) Write(p []byte) (int, error) {
	if s.w != nil {
		_, _ = s.w.Write(p)
	}
	return len(p), nil
}

// Open returns a logger appending to the given file, stamped with a fresh
// session id. When disabled, or when the file cannot be opened, the
// returned logger discards everything.
func Open(path string, enabled bool) *slog.Logger {
	if !enabled || path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	handler := slog.NewTextHandler(swallowWriter{w: f}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return slog.New(handler).With("session", uuid.NewString())
}
