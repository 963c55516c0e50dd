package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shogitt/model"
)

func TestBasicStoreProbe(t *testing.T) {
	tbl, err := NewBasic(BasicConfig{Size: 1024})
	require.NoError(t, err)

	e := model.Entry{
		HashKey:  0x1234,
		Depth:    3,
		Score:    100,
		Flag:     model.BoundExact,
		BestMove: model.Move(77),
	}
	tbl.Store(e)

	// Retrievable for every minDepth <= stored depth.
	for d := uint8(0); d <= 3; d++ {
		got, ok := tbl.Probe(0x1234, d)
		require.True(t, ok, "minDepth %d", d)
		assert.Equal(t, e.HashKey, got.HashKey)
		assert.Equal(t, e.Score, got.Score)
		assert.Equal(t, e.Depth, got.Depth)
		assert.Equal(t, e.Flag, got.Flag)
		assert.Equal(t, e.BestMove, got.BestMove)
	}

	// Not retrievable when deeper evidence is required.
	_, ok := tbl.Probe(0x1234, 4)
	assert.False(t, ok)

	// Unknown hash is a miss, not a failure.
	_, ok = tbl.Probe(0x9999, 0)
	assert.False(t, ok)
}

func TestBasicClear(t *testing.T) {
	tbl, err := NewBasic(BasicConfig{Size: 256})
	require.NoError(t, err)

	tbl.Store(model.Entry{HashKey: 0x1234, Depth: 3, Score: 100, Flag: model.BoundExact})
	require.Equal(t, 1, tbl.Len())

	tbl.Clear()

	_, ok := tbl.Probe(0x1234, 3)
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
	// Capacity is unchanged; Size reports capacity for array-backed tables.
	assert.Equal(t, 256, tbl.Size())
}

func TestBasicDepthPreferredReplacement(t *testing.T) {
	tbl, err := NewBasic(BasicConfig{Size: 64, Policy: DepthPreferred})
	require.NoError(t, err)

	// Two hashes mapping to the same slot.
	h1 := uint64(0x10)
	h2 := h1 + 64

	tbl.Store(model.Entry{HashKey: h1, Depth: 8, Score: 50, Flag: model.BoundExact})
	tbl.Store(model.Entry{HashKey: h2, Depth: 2, Score: -30, Flag: model.BoundLower})

	// Shallow candidate loses; the deep entry survives.
	got, ok := tbl.Probe(h1, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(8), got.Depth)

	_, ok = tbl.Probe(h2, 0)
	assert.False(t, ok)

	// Deeper candidate wins.
	tbl.Store(model.Entry{HashKey: h2, Depth: 12, Score: 5, Flag: model.BoundUpper})
	got, ok = tbl.Probe(h2, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(12), got.Depth)
}

func TestBasicAgeBasedReplacement(t *testing.T) {
	tbl, err := NewBasic(BasicConfig{Size: 64, Policy: AgeBased})
	require.NoError(t, err)

	h1 := uint64(0x3)
	h2 := h1 + 64

	tbl.Store(model.Entry{HashKey: h1, Depth: 10, Score: 1, Flag: model.BoundExact})

	// Next generation: the newer shallow entry displaces the older deep one.
	tbl.NewSearch()
	tbl.Store(model.Entry{HashKey: h2, Depth: 1, Score: 2, Flag: model.BoundExact})

	_, ok := tbl.Probe(h1, 0)
	assert.False(t, ok)
	_, ok = tbl.Probe(h2, 0)
	assert.True(t, ok)
}

func TestBasicRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -8, 100} {
		_, err := NewBasic(BasicConfig{Size: size})
		assert.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}
}

func TestBasicHitRate(t *testing.T) {
	tbl, err := NewBasic(BasicConfig{Size: 64})
	require.NoError(t, err)

	assert.Zero(t, tbl.HitRate())

	tbl.Store(model.Entry{HashKey: 0x7, Depth: 5, Score: 0, Flag: model.BoundExact})
	tbl.Probe(0x7, 0) // hit
	tbl.Probe(0x8, 0) // miss

	assert.InDelta(t, 0.5, tbl.HitRate(), 1e-9)
}

func TestBasicPrefillFromBook(t *testing.T) {
	tbl, err := NewBasic(BasicConfig{Size: 1024})
	require.NoError(t, err)

	book := stubBook{
		{Hash: 0xA1, BestMove: model.Move(1), Score: 20},
		{Hash: 0xA2, BestMove: model.Move(2), Score: -15},
		{Hash: 0, BestMove: model.Move(3), Score: 0}, // skipped
	}

	n := tbl.PrefillFromBook(book, 4)
	assert.Equal(t, 2, n)

	got, ok := tbl.Probe(0xA1, 4)
	require.True(t, ok)
	assert.Equal(t, model.SourcePrefill, got.Source)
	assert.Equal(t, int16(20), got.Score)
}

func TestBasicHashfull(t *testing.T) {
	tbl, err := NewBasic(BasicConfig{Size: 128})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Hashfull())

	for i := range uint64(64) {
		tbl.Store(model.Entry{HashKey: i + 1, Depth: 1, Flag: model.BoundExact, Score: 1})
	}
	assert.Greater(t, tbl.Hashfull(), 0)
}

type stubBook []model.BookPosition

func (b stubBook) Positions() []model.BookPosition { return b }
