package table

import (
	"sync/atomic"

	"github.com/hupe1980/shogitt/internal/hashidx"
	"github.com/hupe1980/shogitt/internal/mem"
	"github.com/hupe1980/shogitt/internal/pack"
	"github.com/hupe1980/shogitt/internal/prefetch"
	"github.com/hupe1980/shogitt/model"
)

// ThreadSafeConfig configures a ThreadSafe table.
type ThreadSafeConfig struct {
	// Size is the slot count; must be a power of two.
	Size int
	// Policy resolves collisions. Defaults to DepthAged.
	Policy ReplacementPolicy
	// Prefetcher, if set, serves ProbeWithPrefetch hints.
	Prefetcher *prefetch.Prefetcher
}

// ThreadSafe has the same logical contract as Basic but supports concurrent
// Probe/Store from any number of goroutines without locking.
//
// Each slot is a pair of 64-bit words, both cache-line-aligned:
//
//	data:  packed (score, depth, flag) in the upper half, the upper 32 bits
//	       of the hash key as a verification tag in the lower half
//	meta:  bits 32-63 best move, 16-31 age, 8-15 source
//
// A data word of zero denotes an empty slot. An entry whose fields all pack
// to zero (score 0, depth 0, exact flag, zero key tag) is therefore
// indistinguishable from empty; this is the same accepted approximation as
// the zero hash key documented on model.Entry.
//
// The data word is replaced with a single compare-and-swap, so a racing pair
// of writers leaves one complete, internally consistent (score, depth, flag)
// triple — never a torn mix. The meta word is a separate write that is not
// paired atomically with data: a race can produce a new score with an old
// best move or vice versa. This imprecision is accepted because cached data
// is probabilistic hinting, not authoritative state.
type ThreadSafe struct {
	mapper *hashidx.Mapper
	data   []atomic.Uint64
	meta   []atomic.Uint64
	policy ReplacementPolicy
	pf     *prefetch.Prefetcher

	generation atomic.Uint32
	hits       atomic.Int64
	misses     atomic.Int64
	corrupted  atomic.Int64
}

// NewThreadSafe creates a lock-free table. Slot arrays are allocated once,
// cache-line aligned; there is no dynamic growth.
func NewThreadSafe(cfg ThreadSafeConfig) (*ThreadSafe, error) {
	mapper, err := hashidx.New(cfg.Size)
	if err != nil {
		return nil, ErrInvalidSize
	}

	policy := cfg.Policy
	if policy == nil {
		policy = DepthAged
	}

	t := &ThreadSafe{
		mapper: mapper,
		data:   mem.AllocAlignedUint64(cfg.Size),
		meta:   mem.AllocAlignedUint64(cfg.Size),
		policy: policy,
		pf:     cfg.Prefetcher,
	}
	t.generation.Store(1)

	return t, nil
}

func keyTag(hash uint64) uint64 {
	return uint64(uint32(hash >> 32))
}

func packMeta(e model.Entry) uint64 {
	return uint64(e.BestMove)<<32 | uint64(e.Age)<<16 | uint64(e.Source)<<8
}

func unpackMeta(word uint64) (move model.Move, age uint16, source model.Source) {
	return model.Move(word >> 32), uint16(word >> 16), model.Source(word >> 8)
}

// load reconstructs the entry at idx. The probing hash supplies the full key;
// only its upper 32 bits are verified against the stored tag.
func (t *ThreadSafe) load(idx int, hash uint64) (model.Entry, bool) {
	word := t.data[idx].Load()
	if word == 0 {
		return model.Entry{}, false
	}
	if word&pack.TagMask != keyTag(hash) {
		return model.Entry{}, false
	}
	if !pack.Valid(word &^ pack.TagMask) {
		// A malformed word means corruption, not a legal race.
		t.corrupted.Add(1)
		return model.Entry{}, false
	}

	score, depth, flag := pack.Unpack(word)
	move, age, source := unpackMeta(t.meta[idx].Load())

	return model.Entry{
		HashKey:  hash,
		Score:    score,
		Depth:    depth,
		Flag:     flag,
		BestMove: move,
		Age:      age,
		Source:   source,
	}, true
}

// Probe returns the stored entry for hash if present and at least minDepth
// deep. It never blocks.
func (t *ThreadSafe) Probe(hash uint64, minDepth uint8) (model.Entry, bool) {
	e, ok := t.load(t.mapper.Index(hash), hash)
	if !ok || e.Depth < minDepth {
		t.misses.Add(1)
		return model.Entry{}, false
	}

	t.hits.Add(1)
	return e, true
}

// ProbeWithPrefetch probes hash and additionally hints the memory subsystem
// to begin loading nextHash's slot, hiding latency on the anticipated lookup.
func (t *ThreadSafe) ProbeWithPrefetch(hash uint64, minDepth uint8, nextHash uint64) (model.Entry, bool) {
	t.pf.Touch(&t.data[t.mapper.Index(nextHash)])
	return t.Probe(hash, minDepth)
}

// Store unconditionally attempts to insert e. Collisions are resolved by the
// replacement policy; a lost write race is silent. Store never blocks and
// never takes a lock.
func (t *ThreadSafe) Store(e model.Entry) {
	if e.IsEmpty() {
		return
	}
	if e.Age == 0 {
		e.Age = t.Generation()
	}

	idx := t.mapper.Index(e.HashKey)
	word := pack.Entry(e.Score, e.Depth, e.Flag) | keyTag(e.HashKey)

	old := t.data[idx].Load()
	if old != 0 {
		oScore, oDepth, oFlag := pack.Unpack(old)
		_, oAge, oSource := unpackMeta(t.meta[idx].Load())
		existing := model.Entry{
			HashKey: ^uint64(0), // resident full key is unknown; packed fields suffice
			Score:   oScore,
			Depth:   oDepth,
			Flag:    oFlag,
			Age:     oAge,
			Source:  oSource,
		}
		if !t.policy(existing, e) {
			return
		}
	}

	// Single CAS publishes the complete packed triple; losing the race to
	// another writer is fine, the slot then holds that writer's entry.
	if !t.data[idx].CompareAndSwap(old, word) {
		return
	}
	t.meta[idx].Store(packMeta(e))
}

// Clear empties all entries and resets counters. The caller must guarantee
// no concurrent Probe/Store is in flight.
func (t *ThreadSafe) Clear() {
	for i := range t.data {
		t.data[i].Store(0)
		t.meta[i].Store(0)
	}
	t.generation.Store(1)
	t.hits.Store(0)
	t.misses.Store(0)
	t.corrupted.Store(0)
}

// Size reports capacity (slot count), not live occupancy.
func (t *ThreadSafe) Size() int {
	return t.mapper.Size()
}

// Generation returns the current generation counter.
func (t *ThreadSafe) Generation() uint16 {
	return uint16(t.generation.Load())
}

// NewSearch advances the generation with wrapping arithmetic.
func (t *ThreadSafe) NewSearch() {
	t.generation.Add(1)
	if uint16(t.generation.Load()) == 0 {
		t.generation.Add(1)
	}
}

// HitRate returns the fraction of probes that hit, in [0, 1].
func (t *ThreadSafe) HitRate() float64 {
	hits := t.hits.Load()
	total := hits + t.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Corruptions returns the number of malformed packed words observed. Expected
// to stay zero; non-zero indicates memory corruption, not a race.
func (t *ThreadSafe) Corruptions() int64 {
	return t.corrupted.Load()
}

// Hashfull estimates occupancy in parts per thousand by sampling up to the
// first 1000 slots.
func (t *ThreadSafe) Hashfull() int {
	sample := min(len(t.data), 1000)
	if sample == 0 {
		return 0
	}

	used := 0
	for i := range sample {
		if t.data[i].Load() != 0 {
			used++
		}
	}
	return used * 1000 / sample
}

// PrefillFromBook inserts entries derived from the book's positions at the
// given depth and returns the count inserted.
func (t *ThreadSafe) PrefillFromBook(book model.OpeningBook, depth uint8) int {
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
