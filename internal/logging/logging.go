// Package logging wires up the process-wide slog.Logger using
// samber/slog-multi, fanning a single logger out to a human-readable
// stderr handler and, when verbose, a second, more detailed handler.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// New builds the logger used by the CLI commands. The analyzers and
// emitters do not log: a string decode failure only latches
// FailedStringDecoding, a double-alignment violation only clears the
// symbol's type, and banned targets are skipped silently.
func New(verbose bool) *slog.Logger {
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if !verbose {
		return slog.New(stderrHandler)
	}

	verboseHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	if f, err := os.OpenFile("spimgo-debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		verboseHandler = slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	fanout := slogmulti.Fanout(stderrHandler, verboseHandler)
	return slog.New(fanout)
}
