package shogitt

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    probeCounter   prometheus.Counter
//	    probeHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordProbe(hit bool, duration time.Duration) {
//	    p.probeCounter.Inc()
//	    // ... record hit state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordProbe is called after each probe operation.
	// hit reports whether an entry was returned, duration is the time taken.
	RecordProbe(hit bool, duration time.Duration)

	// RecordStore is called after each store operation.
	RecordStore(duration time.Duration)

	// RecordClear is called after each clear operation.
	RecordClear()

	// RecordPrefill is called after each book prefill.
	// inserted is the number of entries stored, duration is the time taken.
	RecordPrefill(inserted int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordProbe(bool, time.Duration)  {}
func (NoopMetricsCollector) RecordStore(time.Duration)        {}
func (NoopMetricsCollector) RecordClear()                     {}
func (NoopMetricsCollector) RecordPrefill(int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ProbeCount      atomic.Int64
	ProbeHits       atomic.Int64
	ProbeTotalNanos atomic.Int64
	StoreCount      atomic.Int64
	StoreTotalNanos atomic.Int64
	ClearCount      atomic.Int64
	PrefillCount    atomic.Int64
	PrefillEntries  atomic.Int64
}

// RecordProbe implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProbe(hit bool, duration time.Duration) {
	b.ProbeCount.Add(1)
	b.ProbeTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.ProbeHits.Add(1)
	}
}

// RecordStore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStore(duration time.Duration) {
	b.StoreCount.Add(1)
	b.StoreTotalNanos.Add(duration.Nanoseconds())
}

// RecordClear implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClear() {
	b.ClearCount.Add(1)
}

// RecordPrefill implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPrefill(inserted int, duration time.Duration) {
	b.PrefillCount.Add(1)
	b.PrefillEntries.Add(int64(inserted))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ProbeCount:     b.ProbeCount.Load(),
		ProbeHits:      b.ProbeHits.Load(),
		ProbeAvgNanos:  b.getAvgProbeNanos(),
		StoreCount:     b.StoreCount.Load(),
		StoreAvgNanos:  b.getAvgStoreNanos(),
		ClearCount:     b.ClearCount.Load(),
		PrefillCount:   b.PrefillCount.Load(),
		PrefillEntries: b.PrefillEntries.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgProbeNanos() int64 {
	count := b.ProbeCount.Load()
	if count == 0 {
		return 0
	}
	return b.ProbeTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgStoreNanos() int64 {
	count := b.StoreCount.Load()
	if count == 0 {
		return 0
	}
	return b.StoreTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ProbeCount     int64
	ProbeHits      int64
	ProbeAvgNanos  int64
	StoreCount     int64
	StoreAvgNanos  int64
	ClearCount     int64
	PrefillCount   int64
	PrefillEntries int64
}
