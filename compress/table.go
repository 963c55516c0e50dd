package compress

import (
	"sync"
	"sync/atomic"

	"github.com/hupe1980/shogitt/internal/hashidx"
	"github.com/hupe1980/shogitt/model"
	"github.com/hupe1980/shogitt/table"
)

// TableConfig configures a compressed Table.
type TableConfig struct {
	// Size is the slot count; must be a power of two.
	Size int
	// Compressor encodes entries at rest. Required.
	Compressor *Compressor
	// Policy resolves collisions. Defaults to table.DepthPreferred.
	Policy table.ReplacementPolicy
	// DecodeCacheSize bounds the decode cache; <1 defaults to 256.
	DecodeCacheSize int
}

// TableStats exposes compression diagnostics.
type TableStats struct {
	Hits           int64
	Misses         int64
	Occupied       int
	CompressedSlot int     // slots holding a genuinely compressed payload
	AvgRatio       float64 // mean ratio across occupied slots
	DecodeHits     int64
	DecodeMisses   int64
}

// Table stores entries compressed at rest, layered on the same slot-array
// contract as the other backends. Probe decodes through a bounded cache.
// Guarded by a single RWMutex; payload slices make per-slot atomics
// impractical here.
type Table struct {
	mu     sync.RWMutex
	mapper *hashidx.Mapper
	slots  []CompressedEntry
	used   []bool
	comp   *Compressor
	policy table.ReplacementPolicy
	dcache *DecodeCache

	occupied int
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewTable creates a compressed table backend.
func NewTable(cfg TableConfig) (*Table, error) {
	mapper, err := hashidx.New(cfg.Size)
	if err != nil {
		return nil, table.ErrInvalidSize
	}
	if cfg.Compressor == nil {
		comp, err := NewCompressor(CompressorConfig{Algorithm: AlgorithmAdaptive})
		if err != nil {
			return nil, err
		}
		cfg.Compressor = comp
	}

	policy := cfg.Policy
	if policy == nil {
		policy = table.DepthPreferred
	}

	return &Table{
		mapper: mapper,
		slots:  make([]CompressedEntry, cfg.Size),
		used:   make([]bool, cfg.Size),
		comp:   cfg.Compressor,
		policy: policy,
		dcache: NewDecodeCache(cfg.DecodeCacheSize),
	}, nil
}

// decode returns the entry behind a slot, consulting the decode cache first.
func (t *Table) decode(ce CompressedEntry) (model.Entry, error) {
	if e, ok := t.dcache.Get(ce.Payload); ok {
		return e, nil
	}

	e, err := t.comp.DecompressEntry(ce)
	if err != nil {
		return model.Entry{}, err
	}

	t.dcache.Put(ce.Payload, e)
	return e, nil
}

// Probe returns the stored entry for hash if present and at least minDepth
// deep.
func (t *Table) Probe(hash uint64, minDepth uint8) (model.Entry, bool) {
	idx := t.mapper.Index(hash)

	t.mu.RLock()
	ce := t.slots[idx]
	used := t.used[idx]
	t.mu.RUnlock()

	if !used {
		t.misses.Add(1)
		return model.Entry{}, false
	}

	e, err := t.decode(ce)
	if err != nil || e.HashKey != hash || e.Depth < minDepth {
		t.misses.Add(1)
		return model.Entry{}, false
	}

	t.hits.Add(1)
	return e, true
}

// Store compresses e and inserts it, resolving collisions via the policy.
func (t *Table) Store(e model.Entry) {
	if e.IsEmpty() {
		return
	}

	ce := t.comp.CompressEntry(e)
	idx := t.mapper.Index(e.HashKey)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.used[idx] {
		// An undecodable resident entry is always evicted.
		if existing, err := t.decode(t.slots[idx]); err == nil && !t.policy(existing, e) {
			return
		}
	} else {
		t.occupied++
		t.used[idx] = true
	}

	t.slots[idx] = ce
}

// Clear empties all slots and the decode cache. Caller must ensure
// exclusivity.
func (t *Table) Clear() {
	t.mu.Lock()
	clear(t.slots)
	clear(t.used)
	t.occupied = 0
	t.mu.Unlock()

	t.dcache.Clear()
	t.hits.Store(0)
	t.misses.Store(0)
}

// Size reports capacity (slot count), not live occupancy.
func (t *Table) Size() int {
	return t.mapper.Size()
}

// Len reports live occupancy.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.occupied
}

// HitRate returns the fraction of probes that hit, in [0, 1].
func (t *Table) HitRate() float64 {
	hits := t.hits.Load()
	total := hits + t.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Stats returns compression diagnostics.
func (t *Table) Stats() TableStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := TableStats{
		Hits:     t.hits.Load(),
		Misses:   t.misses.Load(),
		Occupied: t.occupied,
	}

	ratioSum := 0.0
	for i := range t.slots {
		if !t.used[i] {
			continue
		}
		ratioSum += t.slots[i].Meta.Ratio
		if t.slots[i].Algorithm != AlgorithmNone {
			s.CompressedSlot++
		}
	}
	if s.Occupied > 0 {
		s.AvgRatio = ratioSum / float64(s.Occupied)
	}

	s.DecodeHits, s.DecodeMisses = t.dcache.Stats()
	return s
}

// PrefillFromBook inserts entries derived from the book's positions at the
// given depth and returns the count inserted.
func (t *Table) PrefillFromBook(book model.OpeningBook, depth uint8) int {
	if book == nil {
		return 0
	}

	n := 0
	for _, pos := range book.Positions() {
		if pos.Hash == 0 {
			continue
		}
		t.Store(model.Entry{
			HashKey:  pos.Hash,
			Score:    pos.Score,
			Depth:    depth,
			Flag:     model.BoundExact,
			BestMove: pos.BestMove,
			Source:   model.SourcePrefill,
		})
		n++
	}
	return n
}
