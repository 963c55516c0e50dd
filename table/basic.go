package table

import (
	"errors"

	"github.com/hupe1980/shogitt/internal/hashidx"
	"github.com/hupe1980/shogitt/model"
)

// ErrInvalidSize is returned when a table size is zero, negative or not a
// power of two.
var ErrInvalidSize = errors.New("table: size must be a non-zero power of two")

// BasicConfig configures a Basic table.
type BasicConfig struct {
	// Size is the slot count; must be a power of two.
	Size int
	// Policy resolves collisions. Defaults to DepthPreferred.
	Policy ReplacementPolicy
	// Decider, if set, overrides Policy for cross-key collisions.
	Decider CollisionDecider
	// MixedIndex enables multiplicative index mixing for poorly
	// distributed hash sources.
	MixedIndex bool
}

// Basic is a single contiguous array of entries with a configurable
// replacement policy. It is not internally synchronized.
type Basic struct {
	mapper  *hashidx.Mapper
	slots   []model.Entry
	policy  ReplacementPolicy
	decider CollisionDecider
	mixed   bool

	generation uint16
	occupied   int
	hits       int64
	misses     int64
}

// NewBasic creates a baseline table.
func NewBasic(cfg BasicConfig) (*Basic, error) {
	mapper, err := hashidx.New(cfg.Size)
	if err != nil {
		return nil, ErrInvalidSize
	}

	policy := cfg.Policy
	if policy == nil {
		policy = DepthPreferred
	}

	return &Basic{
		mapper:     mapper,
		slots:      make([]model.Entry, cfg.Size),
		policy:     policy,
		decider:    cfg.Decider,
		mixed:      cfg.MixedIndex,
		generation: 1,
	}, nil
}

func (t *Basic) index(hash uint64) int {
	if t.mixed {
		return t.mapper.IndexMixed(hash)
	}
	return t.mapper.Index(hash)
}

// Probe returns the stored entry for hash if present and at least minDepth
// deep. A hit refreshes the entry's age to the current generation.
func (t *Basic) Probe(hash uint64, minDepth uint8) (model.Entry, bool) {
	e := &t.slots[t.index(hash)]
	if e.IsEmpty() || e.HashKey != hash || e.Depth < minDepth {
		t.misses++
		return model.Entry{}, false
	}

	e.Age = t.generation
	t.hits++
	return *e, true
}

// Store inserts e, resolving collisions via the decider (if any) or the
// replacement policy. Entries with an unset age adopt the table generation.
func (t *Basic) Store(e model.Entry) {
	if e.IsEmpty() {
		return
	}
	if e.Age == 0 {
		e.Age = t.generation
	}

	idx := t.index(e.HashKey)
	existing := &t.slots[idx]

	switch {
	case existing.IsEmpty():
		t.occupied++
		*existing = e
	case existing.HashKey == e.HashKey:
		if t.policy(*existing, e) {
			*existing = e
		}
	case t.decider != nil:
		switch t.decider.Decide(*existing, e) {
		case DecisionReplace:
			*existing = e
		case DecisionRelocate:
			t.relocate(idx, e)
		}
	default:
		if t.policy(*existing, e) {
			*existing = e
		}
	}
}

// relocate stores e in the neighboring slot, applying the policy there. One
// step only; a second collision falls back to the policy outcome.
func (t *Basic) relocate(idx int, e model.Entry) {
	next := &t.slots[(idx+1)&(t.mapper.Size()-1)]
	if next.IsEmpty() {
		t.occupied++
		*next = e
		return
	}
	if t.policy(*next, e) {
		*next = e
	}
}

// Clear empties all entries and resets counters. Capacity is unchanged.
func (t *Basic) Clear() {
	clear(t.slots)
	t.occupied = 0
	t.generation = 1
	t.hits = 0
	t.misses = 0
}

// Size reports capacity (slot count), not live occupancy.
func (t *Basic) Size() int {
	return t.mapper.Size()
}

// Len reports live occupancy.
func (t *Basic) Len() int {
	return t.occupied
}

// Generation returns the current generation counter.
func (t *Basic) Generation() uint16 {
	return t.generation
}

// NewSearch advances the generation so age-based policies prefer fresh
// results. Wraparound is tolerated.
func (t *Basic) NewSearch() {
	t.generation++
	if t.generation == 0 {
		t.generation = 1
	}
}

// HitRate returns the fraction of probes that hit, in [0, 1].
func (t *Basic) HitRate() float64 {
	total := t.hits + t.misses
	if total == 0 {
		return 0
	}
	return float64(t.hits) / float64(total)
}

// Range calls fn for every occupied slot until fn returns false.
func (t *Basic) Range(fn func(model.Entry) bool) {
	for i := range t.slots {
		if t.slots[i].IsEmpty() {
			continue
		}
		if !fn(t.slots[i]) {
			return
		}
	}
}

// Hashfull estimates occupancy in parts per thousand by sampling up to the
// first 1000 slots.
func (t *Basic) Hashfull() int {
	sample := min(len(t.slots), 1000)
	if sample == 0 {
		return 0
	}

	used := 0
	for i := range sample {
		if !t.slots[i].IsEmpty() {
			used++
		}
	}
	return used * 1000 / sample
}

// PrefillFromBook inserts entries derived from the book's positions at the
// given depth and returns the count inserted.
func (t *Basic) PrefillFromBook(book model.OpeningBook, depth uint8) int {
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
