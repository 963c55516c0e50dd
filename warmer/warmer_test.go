package warmer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shogitt/model"
	"github.com/hupe1980/shogitt/table"
)

type stubBook []model.BookPosition

func (b stubBook) Positions() []model.BookPosition { return b }

func newTarget(t *testing.T) *table.Basic {
	t.Helper()

	tbl, err := table.NewBasic(table.BasicConfig{Size: 1 << 14})
	require.NoError(t, err)
	return tbl
}

func TestWarmRespectsMemoryLimit(t *testing.T) {
	w := New(Config{
		Strategy:    StrategyAggressive,
		MaxEntries:  1000,
		MemoryLimit: 10 * entryBytes,
		Seed:        1,
	})

	res, err := w.Warm(context.Background(), newTarget(t))
	require.NoError(t, err)

	assert.Equal(t, 10, res.Accepted)
	assert.Equal(t, int64(10*entryBytes), res.MemoryUsed)
	assert.LessOrEqual(t, res.MemoryUsed, int64(10*entryBytes))
	assert.Greater(t, res.Generated, res.Accepted)
}

func TestWarmRespectsMaxEntries(t *testing.T) {
	w := New(Config{
		Strategy:   StrategyAggressive,
		MaxEntries: 64,
		Seed:       2,
	})

	tbl := newTarget(t)
	res, err := w.Warm(context.Background(), tbl)
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Accepted, 64)
	assert.Equal(t, res.Generated, res.Accepted)
	assert.Equal(t, 1.0, res.SuccessRate)
	assert.Positive(t, tbl.Len())
}

func TestWarmSelectiveSkipsPositionEntries(t *testing.T) {
	w := New(Config{
		Strategy:   StrategySelective,
		MaxEntries: 100,
		Seed:       3,
	})

	res, err := w.Warm(context.Background(), newTarget(t))
	require.NoError(t, err)

	assert.Zero(t, res.ByCategory[CategoryPosition])
	assert.Positive(t, res.ByCategory[CategoryBook])
	assert.Positive(t, res.ByCategory[CategoryEndgame])
	assert.Positive(t, res.ByCategory[CategoryTactical])
}

// recordingTarget keeps every stored entry, independent of slot collisions.
type recordingTarget struct {
	entries map[uint64]model.Entry
}

func (r *recordingTarget) Store(e model.Entry) { r.entries[e.HashKey] = e }
func (r *recordingTarget) Size() int           { return len(r.entries) }

func TestWarmUsesConfiguredBook(t *testing.T) {
	book := stubBook{
		{Hash: 0xA1, BestMove: 7, Score: 25},
		{Hash: 0xA2, BestMove: 9, Score: -10},
	}
	w := New(Config{
		Strategy:   StrategySelective,
		MaxEntries: 100,
		Book:       book,
		Seed:       4,
	})

	rec := &recordingTarget{entries: make(map[uint64]model.Entry)}
	res, err := w.Warm(context.Background(), rec)
	require.NoError(t, err)

	// The book category is capped by the book itself.
	assert.Equal(t, 2, res.ByCategory[CategoryBook])

	got, ok := rec.entries[0xA1]
	require.True(t, ok)
	assert.Equal(t, model.Move(7), got.BestMove)
	assert.Equal(t, int16(25), got.Score)
	assert.Equal(t, model.SourceWarmer, got.Source)
}

func TestWarmFromBookDedupes(t *testing.T) {
	book := stubBook{
		{Hash: 0xB1, BestMove: 1, Score: 10},
		{Hash: 0xB2, BestMove: 2, Score: 20},
		{Hash: 0xB1, BestMove: 3, Score: 30},
	}
	w := New(Config{MaxEntries: 100})

	tbl := newTarget(t)
	res, err := w.WarmFromBook(context.Background(), tbl, book, 5)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Generated)
	assert.Equal(t, 2, res.Accepted)
	assert.Equal(t, 1, res.Duplicates)

	got, ok := tbl.Probe(0xB1, 5)
	require.True(t, ok)
	assert.Equal(t, model.Move(1), got.BestMove)
	assert.Equal(t, model.BoundExact, got.Flag)
	assert.Equal(t, uint8(5), got.Depth)
}

func TestWarmNilTarget(t *testing.T) {
	w := New(Config{})

	_, err := w.Warm(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilTarget)

	_, err = w.WarmFromBook(context.Background(), nil, stubBook{}, 1)
	assert.ErrorIs(t, err, ErrNilTarget)
}

func TestWarmSessionIDs(t *testing.T) {
	w := New(Config{MaxEntries: 8, Seed: 5})

	a, err := w.Warm(context.Background(), newTarget(t))
	require.NoError(t, err)
	b, err := w.Warm(context.Background(), newTarget(t))
	require.NoError(t, err)

	assert.NotEmpty(t, a.SessionID)
	assert.NotEmpty(t, b.SessionID)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestWarmTimeoutEndsSessionGracefully(t *testing.T) {
	w := New(Config{
		Strategy:      StrategyAggressive,
		MaxEntries:    100000,
		EntriesPerSec: 100,
		Timeout:       100 * time.Millisecond,
		Seed:          6,
	})

	res, err := w.Warm(context.Background(), newTarget(t))
	require.NoError(t, err)

	assert.Less(t, res.Accepted, 100000)
	assert.Positive(t, res.Elapsed)
}

func TestBuildPlan(t *testing.T) {
	p := buildPlan(StrategyConservative, 100, 0)
	total := 0
	for _, n := range p {
		total += n
	}
	assert.LessOrEqual(t, total, 50)
	assert.Greater(t, p[CategoryBook], p[CategoryPosition])

	p = buildPlan(StrategySelective, 100, 0)
	assert.Zero(t, p[CategoryPosition])

	// Adaptive resolves by memory headroom.
	full := buildPlan(StrategyAdaptive, 100, 100*entryBytes)
	tight := buildPlan(StrategyAdaptive, 100, entryBytes)
	fullTotal, tightTotal := 0, 0
	for c := range full {
		fullTotal += full[c]
		tightTotal += tight[c]
	}
	assert.Greater(t, fullTotal, tightTotal)
}
