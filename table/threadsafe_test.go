package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shogitt/internal/prefetch"
	"github.com/hupe1980/shogitt/model"
)

func TestThreadSafeStoreProbe(t *testing.T) {
	tbl, err := NewThreadSafe(ThreadSafeConfig{Size: 1 << 10})
	require.NoError(t, err)

	e := model.Entry{
		HashKey:  0x1234,
		Depth:    3,
		Score:    100,
		Flag:     model.BoundExact,
		BestMove: model.Move(42),
		Source:   model.SourceSearch,
	}
	tbl.Store(e)

	got, ok := tbl.Probe(0x1234, 3)
	require.True(t, ok)
	assert.Equal(t, int16(100), got.Score)
	assert.Equal(t, uint8(3), got.Depth)
	assert.Equal(t, model.BoundExact, got.Flag)
	assert.Equal(t, model.Move(42), got.BestMove)
	assert.Equal(t, model.SourceSearch, got.Source)

	_, ok = tbl.Probe(0x1234, 4)
	assert.False(t, ok)

	tbl.Clear()
	_, ok = tbl.Probe(0x1234, 3)
	assert.False(t, ok)
	assert.Equal(t, 1<<10, tbl.Size())
}

func TestThreadSafeKeyVerification(t *testing.T) {
	tbl, err := NewThreadSafe(ThreadSafeConfig{Size: 64})
	require.NoError(t, err)

	// Same slot, different upper key bits: must not alias.
	h1 := uint64(0xAAAA_0000_0000_0007)
	h2 := uint64(0xBBBB_0000_0000_0007)

	tbl.Store(model.Entry{HashKey: h1, Depth: 5, Score: 10, Flag: model.BoundExact})

	_, ok := tbl.Probe(h2, 0)
	assert.False(t, ok)

	got, ok := tbl.Probe(h1, 0)
	require.True(t, ok)
	assert.Equal(t, int16(10), got.Score)
}

// An entry whose fields all pack to zero aliases the empty slot; it stays
// invisible rather than corrupting anything.
func TestThreadSafeAllZeroEntryAliasesEmpty(t *testing.T) {
	tbl, err := NewThreadSafe(ThreadSafeConfig{Size: 64})
	require.NoError(t, err)

	// Upper 32 key bits zero, score 0, depth 0, exact flag: packed word 0.
	tbl.Store(model.Entry{HashKey: 0x5, Score: 0, Depth: 0, Flag: model.BoundExact})

	_, ok := tbl.Probe(0x5, 0)
	assert.False(t, ok)
	assert.Zero(t, tbl.Corruptions())

	// Any non-zero packed field makes the entry visible again.
	tbl.Store(model.Entry{HashKey: 0x5, Score: 0, Depth: 1, Flag: model.BoundExact})
	got, ok := tbl.Probe(0x5, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(1), got.Depth)
}

func TestThreadSafeNegativeScoreRoundTrip(t *testing.T) {
	tbl, err := NewThreadSafe(ThreadSafeConfig{Size: 64})
	require.NoError(t, err)

	tbl.Store(model.Entry{HashKey: 0x99, Depth: 7, Score: -25000, Flag: model.BoundUpper})

	got, ok := tbl.Probe(0x99, 7)
	require.True(t, ok)
	assert.Equal(t, int16(-25000), got.Score)
	assert.Equal(t, model.BoundUpper, got.Flag)
}

func TestThreadSafeHitRate(t *testing.T) {
	tbl, err := NewThreadSafe(ThreadSafeConfig{Size: 64})
	require.NoError(t, err)

	assert.Zero(t, tbl.HitRate())

	tbl.Store(model.Entry{HashKey: 0x5, Depth: 2, Score: 1, Flag: model.BoundExact})
	tbl.Probe(0x5, 0)
	tbl.Probe(0x5, 0)
	tbl.Probe(0x6, 0)
	tbl.Probe(0x7, 0)

	assert.InDelta(t, 0.5, tbl.HitRate(), 1e-9)
}

func TestThreadSafeProbeWithPrefetch(t *testing.T) {
	pf := prefetch.New()
	tbl, err := NewThreadSafe(ThreadSafeConfig{Size: 64, Prefetcher: pf})
	require.NoError(t, err)

	tbl.Store(model.Entry{HashKey: 0x11, Depth: 4, Score: 9, Flag: model.BoundLower})

	got, ok := tbl.ProbeWithPrefetch(0x11, 2, 0x12)
	require.True(t, ok)
	assert.Equal(t, int16(9), got.Score)
	assert.Equal(t, int64(1), pf.Issued())

	// Works without a prefetcher as well.
	bare, err := NewThreadSafe(ThreadSafeConfig{Size: 64})
	require.NoError(t, err)
	bare.Store(model.Entry{HashKey: 0x11, Depth: 4, Score: 9, Flag: model.BoundLower})
	_, ok = bare.ProbeWithPrefetch(0x11, 2, 0x12)
	assert.True(t, ok)
}

// TestThreadSafeConcurrentStores races N goroutines writing distinct entries
// to the same slot and checks the slot holds exactly one fully-formed
// (score, depth, flag) triple, never a bitwise mix of two.
func TestThreadSafeConcurrentStores(t *testing.T) {
	tbl, err := NewThreadSafe(ThreadSafeConfig{Size: 64, Policy: AlwaysReplace})
	require.NoError(t, err)

	const workers = 16
	const rounds = 200

	// All hashes map to slot 7 and share upper key bits so every write is a
	// same-slot replacement.
	hash := uint64(0xCAFE_0000_0000_0007)

	type triple struct {
		score int16
		depth uint8
		flag  model.Bound
	}
	valid := make(map[triple]bool, workers)
	var wg sync.WaitGroup

	for w := range workers {
		e := model.Entry{
			HashKey: hash,
			Score:   int16(100 * (w + 1)),
			Depth:   uint8(w + 1),
			Flag:    model.Bound(w % 3),
		}
		valid[triple{e.Score, e.Depth, e.Flag}] = true

		wg.Add(1)
		go func(e model.Entry) {
			defer wg.Done()
			for range rounds {
				tbl.Store(e)
			}
		}(e)
	}
	wg.Wait()

	got, ok := tbl.Probe(hash, 0)
	require.True(t, ok)
	assert.True(t, valid[triple{got.Score, got.Depth, got.Flag}],
		"slot holds torn triple: score=%d depth=%d flag=%d", got.Score, got.Depth, got.Flag)
	assert.Zero(t, tbl.Corruptions())
}

func TestThreadSafeConcurrentProbeStore(t *testing.T) {
	tbl, err := NewThreadSafe(ThreadSafeConfig{Size: 1 << 12})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup

	for w := range workers {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			for i := range uint64(5000) {
				h := seed*0x9E3779B97F4A7C15 + i + 1
				tbl.Store(model.Entry{HashKey: h, Depth: uint8(i % 32), Score: int16(i % 1000), Flag: model.Bound(i % 3)})
				if got, ok := tbl.Probe(h, 0); ok {
					// Whatever is present must be internally consistent.
					assert.True(t, got.Flag.Valid())
				}
			}
		}(uint64(w))
	}
	wg.Wait()

	assert.Zero(t, tbl.Corruptions())
}

func TestThreadSafeRejectsInvalidSize(t *testing.T) {
	_, err := NewThreadSafe(ThreadSafeConfig{Size: 0})
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewThreadSafe(ThreadSafeConfig{Size: 100})
	assert.ErrorIs(t, err, ErrInvalidSize)
}
