package shogitt

import (
	"log/slog"

	"github.com/hupe1980/shogitt/model"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	locking          bool
	prefillBook      model.OpeningBook
	prefillDepth     uint8
}

// Option configures how a backend is adapted to the TranspositionTable
// interface.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &shogitt.BasicMetricsCollector{}
//	tt, _ := shogitt.New(tbl, shogitt.WithMetricsCollector(metrics))
//	// ... use tt ...
//	stats := metrics.GetStats()
//	fmt.Printf("Probes: %d, Avg latency: %dns\n", stats.ProbeCount, stats.ProbeAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := shogitt.NewJSONLogger(slog.LevelInfo)
//	tt, _ := shogitt.New(tbl, shogitt.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithLocking forces a mutex around every backend call. New already enables
// this for known unsynchronized backends; use it when adapting a custom
// backend that is not safe for concurrent use.
func WithLocking() Option {
	return func(o *options) {
		o.locking = true
	}
}

// WithPrefill prefills the table from an opening book at the given depth
// right after construction.
func WithPrefill(book model.OpeningBook, depth uint8) Option {
	return func(o *options) {
		o.prefillBook = book
		o.prefillDepth = depth
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
