// Package log provides the logging infrastructure for treatybot.
//
// Loggers are injected, never global: each component receives a log.Logger
// through its constructor and may scope it with logger.With(). The query
// pipeline logs nothing itself — per the error-propagation policy, failures
// surface to the caller and only the outermost layers (CLI, HTTP) decide
// what gets logged.
//
// Usage:
//
//	logger := log.New(log.Config{Level: slog.LevelDebug})
//	store := passage.NewStore(querier, embedder, logger.With("component", "passage"))
//
//	// in tests
//	logger := log.NewNop()
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger aliases *slog.Logger so components depend on the standard type
// while constructors in this package stay the single place that knows how
// handlers are configured.
type Logger = *slog.Logger

// Config defines logger options.
type Config struct {
	// Level is the minimum level emitted. Default: slog.LevelInfo.
	Level slog.Level

	// JSON switches to JSON output; default is text.
	JSON bool

	// AddSource annotates entries with the emitting source location.
	AddSource bool
}

// New creates a logger writing to os.Stderr.
func New(cfg Config) Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger writing to w. Used by tests to capture
// output in a buffer.
func NewWithWriter(w io.Writer, cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewNop returns a logger that discards everything. Test-only: production
// call sites always configure a real writer.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
