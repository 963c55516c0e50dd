package shogitt

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with shogitt-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBackend adds a backend name field to the logger.
func (l *Logger) WithBackend(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", name),
	}
}

// WithHash adds a position hash field to the logger.
func (l *Logger) WithHash(hash uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("hash", hash),
	}
}

// LogStore logs a store operation.
func (l *Logger) LogStore(hash uint64, depth uint8) {
	l.Debug("entry stored",
		"hash", hash,
		"depth", depth,
	)
}

// LogClear logs a table clear.
func (l *Logger) LogClear(capacity int) {
	l.Info("table cleared",
		"capacity", capacity,
	)
}

// LogPrefill logs a book prefill.
func (l *Logger) LogPrefill(inserted int, depth uint8) {
	l.Info("book prefill completed",
		"inserted", inserted,
		"depth", depth,
	)
}
