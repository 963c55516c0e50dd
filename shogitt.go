package shogitt

import (
	"sync"
	"time"

	"github.com/hupe1980/shogitt/compress"
	"github.com/hupe1980/shogitt/internal/hashidx"
	"github.com/hupe1980/shogitt/model"
	"github.com/hupe1980/shogitt/table"
)

// TranspositionTable is the one interface the search engine holds, regardless
// of which backend is active.
type TranspositionTable interface {
	// Probe returns the entry for hash if present and at least minDepth deep.
	Probe(hash uint64, minDepth uint8) (model.Entry, bool)

	// ProbeWithPrefetch probes hash and hints the memory system about
	// nextHash. Backends without prefetch support fall back to Probe.
	ProbeWithPrefetch(hash uint64, minDepth uint8, nextHash uint64) (model.Entry, bool)

	// Store inserts e, resolving collisions per the backend's policy.
	Store(e model.Entry)

	// Clear empties the table. Capacity is unchanged.
	Clear()

	// Size reports capacity (slot count) for array-backed backends.
	Size() int

	// HitRate returns the fraction of probes that hit, in [0, 1].
	// Backends without counters report 0.
	HitRate() float64

	// PrefillFromBook seeds the table from an opening book at the given
	// depth and returns the number of entries inserted.
	PrefillFromBook(book model.OpeningBook, depth uint8) int
}

// Backend is the minimal surface a concrete table must provide. Optional
// capabilities (hit-rate counters, prefetch-aware probing, native book
// prefill) are picked up by interface assertion; New supplies defaults for
// the rest.
type Backend interface {
	Probe(hash uint64, minDepth uint8) (model.Entry, bool)
	Store(e model.Entry)
	Clear()
	Size() int
}

type hitRater interface {
	HitRate() float64
}

type prefetchProber interface {
	ProbeWithPrefetch(hash uint64, minDepth uint8, nextHash uint64) (model.Entry, bool)
}

type prefiller interface {
	PrefillFromBook(book model.OpeningBook, depth uint8) int
}

// adapter presents a Backend as a TranspositionTable. A non-nil mu serializes
// every backend call, so backends with single-writer semantics can still be
// shared across search workers.
type adapter struct {
	backend Backend
	mu      *sync.Mutex
	logger  *Logger
	metrics MetricsCollector
}

// New adapts a backend to the TranspositionTable interface. Backends known to
// lack internal synchronization (table.Basic) are wrapped in a mutex; force
// the same for custom backends with WithLocking.
func New(backend Backend, optFns ...Option) (TranspositionTable, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}

	o := applyOptions(optFns)

	a := &adapter{
		backend: backend,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}
	if o.locking || !syncSafe(backend) {
		a.mu = &sync.Mutex{}
	}

	if o.prefillBook != nil {
		a.PrefillFromBook(o.prefillBook, o.prefillDepth)
	}

	return a, nil
}

// syncSafe reports whether the backend is known to synchronize internally.
func syncSafe(b Backend) bool {
	switch b.(type) {
	case *table.ThreadSafe, *table.MultiLevel, *compress.Table:
		return true
	}
	return false
}

// NewBasic builds a baseline table and adapts it. size must be a power of two.
func NewBasic(size int, optFns ...Option) (TranspositionTable, error) {
	tbl, err := table.NewBasic(table.BasicConfig{Size: size})
	if err != nil {
		return nil, translateError(err)
	}
	return New(tbl, optFns...)
}

// NewThreadSafe builds a lock-free table and adapts it. size must be a power
// of two.
func NewThreadSafe(size int, optFns ...Option) (TranspositionTable, error) {
	tbl, err := table.NewThreadSafe(table.ThreadSafeConfig{Size: size})
	if err != nil {
		return nil, translateError(err)
	}
	return New(tbl, optFns...)
}

// NewMultiLevel builds a depth-routed tiered table and adapts it. thresholds
// must hold len(thresholds)+1 strictly ascending level boundaries; baseSize
// must be a power of two.
func NewMultiLevel(levels, baseSize int, thresholds []uint8, optFns ...Option) (TranspositionTable, error) {
	tbl, err := table.NewMultiLevel(table.MultiLevelConfig{
		Levels:     levels,
		BaseSize:   baseSize,
		Thresholds: thresholds,
	})
	if err != nil {
		return nil, translateError(err)
	}
	return New(tbl, optFns...)
}

// NewCompressed builds a table with compressed at-rest entries and adapts it.
// size must be a power of two.
func NewCompressed(size int, optFns ...Option) (TranspositionTable, error) {
	tbl, err := compress.NewTable(compress.TableConfig{Size: size})
	if err != nil {
		return nil, translateError(err)
	}
	return New(tbl, optFns...)
}

// EntriesForMB converts a memory budget in mebibytes to a power-of-two entry
// count, assuming the padded in-memory entry size.
func EntriesForMB(mb int) int {
	const bytesPerEntry = 32
	if mb <= 0 {
		return 0
	}
	return hashidx.RoundPow2(mb << 20 / bytesPerEntry)
}

func (a *adapter) Probe(hash uint64, minDepth uint8) (model.Entry, bool) {
	start := time.Now()

	if a.mu != nil {
		a.mu.Lock()
	}
	e, ok := a.backend.Probe(hash, minDepth)
	if a.mu != nil {
		a.mu.Unlock()
	}

	a.metrics.RecordProbe(ok, time.Since(start))
	return e, ok
}

func (a *adapter) ProbeWithPrefetch(hash uint64, minDepth uint8, nextHash uint64) (model.Entry, bool) {
	pp, ok := a.backend.(prefetchProber)
	if !ok {
		return a.Probe(hash, minDepth)
	}

	start := time.Now()

	if a.mu != nil {
		a.mu.Lock()
	}
	e, hit := pp.ProbeWithPrefetch(hash, minDepth, nextHash)
	if a.mu != nil {
		a.mu.Unlock()
	}

	a.metrics.RecordProbe(hit, time.Since(start))
	return e, hit
}

func (a *adapter) Store(e model.Entry) {
	start := time.Now()

	if a.mu != nil {
		a.mu.Lock()
	}
	a.backend.Store(e)
	if a.mu != nil {
		a.mu.Unlock()
	}

	a.metrics.RecordStore(time.Since(start))
	a.logger.LogStore(e.HashKey, e.Depth)
}

func (a *adapter) Clear() {
	if a.mu != nil {
		a.mu.Lock()
	}
	a.backend.Clear()
	if a.mu != nil {
		a.mu.Unlock()
	}

	a.metrics.RecordClear()
	a.logger.LogClear(a.backend.Size())
}

func (a *adapter) Size() int {
	if a.mu != nil {
		a.mu.Lock()
		defer a.mu.Unlock()
	}
	return a.backend.Size()
}

func (a *adapter) HitRate() float64 {
	hr, ok := a.backend.(hitRater)
	if !ok {
		return 0
	}

	if a.mu != nil {
		a.mu.Lock()
		defer a.mu.Unlock()
	}
	return hr.HitRate()
}

func (a *adapter) PrefillFromBook(book model.OpeningBook, depth uint8) int {
	if book == nil {
		return 0
	}

	start := time.Now()

	if a.mu != nil {
		a.mu.Lock()
	}

	var n int
	if pf, ok := a.backend.(prefiller); ok {
		n = pf.PrefillFromBook(book, depth)
	} else {
		for _, pos := range book.Positions() {
			if pos.Hash == 0 {
				continue
			}
			a.backend.Store(model.Entry{
				HashKey:  pos.Hash,
				Score:    pos.Score,
				Depth:    depth,
				Flag:     model.BoundExact,
				BestMove: pos.BestMove,
				Source:   model.SourcePrefill,
			})
			n++
		}
	}

	if a.mu != nil {
		a.mu.Unlock()
	}

	a.metrics.RecordPrefill(n, time.Since(start))
	a.logger.LogPrefill(n, depth)
	return n
}
