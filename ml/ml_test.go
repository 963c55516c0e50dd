package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shogitt/model"
	"github.com/hupe1980/shogitt/table"
)

func collisionContext(existingDepth, candidateDepth uint8) *Context {
	return &Context{
		Existing:  model.Entry{HashKey: 1, Depth: existingDepth, Flag: model.BoundExact, Age: 1},
		Candidate: model.Entry{HashKey: 2, Depth: candidateDepth, Flag: model.BoundExact, Age: 2},
	}
}

func TestVectorLayout(t *testing.T) {
	ctx := collisionContext(10, 3)
	ctx.Position = PositionFeatures{Complexity: 0.5, MaterialBalance: -0.25}
	ctx.Access = AccessFeatures{RecentFrequency: 7}

	v := ctx.Vector()
	require.Len(t, v, FeatureCount)

	assert.Equal(t, 0.5, v[0])
	assert.Equal(t, -0.25, v[3])
	assert.Equal(t, 7.0, v[4])
	assert.InDelta(t, 10.0/255.0, v[7], 1e-9)  // existing depth
	assert.InDelta(t, 3.0/255.0, v[13], 1e-9)  // candidate depth
	assert.Equal(t, 1.0, v[10])                // existing exact
	assert.Equal(t, 0.0, v[12])                // existing has no move
	assert.Equal(t, 0.0, v[19])                // no temporal features
}

func TestLinearColdStartPrefersDepth(t *testing.T) {
	m := NewLinear()

	deep := m.Predict(collisionContext(2, 200).Vector())
	assert.Equal(t, ReplaceWithNew, deep.Decision)

	shallow := m.Predict(collisionContext(200, 2).Vector())
	assert.Equal(t, KeepExisting, shallow.Decision)
}

func TestLinearLearnsFromOutcomes(t *testing.T) {
	m := NewLinear()

	// Consistent outcomes: replacing pays off for the deeper candidate and
	// backfires for the shallower one.
	var samples []Sample
	for range 40 {
		samples = append(samples, Sample{
			Features:   collisionContext(5, 30).Vector(),
			Decision:   ReplaceWithNew,
			Beneficial: true,
		})
		samples = append(samples, Sample{
			Features:   collisionContext(30, 5).Vector(),
			Decision:   ReplaceWithNew,
			Beneficial: false,
		})
	}
	for range 100 {
		require.NoError(t, m.Train(samples))
	}

	pred := m.Predict(collisionContext(5, 30).Vector())
	assert.Equal(t, ReplaceWithNew, pred.Decision)
	assert.Greater(t, pred.Confidence, 0.0)

	pred = m.Predict(collisionContext(30, 5).Vector())
	assert.Equal(t, KeepExisting, pred.Decision)
}

func TestStubModels(t *testing.T) {
	models := []Model{DecisionTree{}, RandomForest{}, NeuralNet{}, &Reinforcement{}}

	for _, m := range models {
		t.Run(m.Name(), func(t *testing.T) {
			deeper := m.Predict(collisionContext(2, 40).Vector())
			assert.Equal(t, ReplaceWithNew, deeper.Decision)
			assert.Positive(t, deeper.Confidence)

			shallower := m.Predict(collisionContext(40, 2).Vector())
			assert.Equal(t, KeepExisting, shallower.Decision)

			// Stubs accept training without effect.
			assert.NoError(t, m.Train([]Sample{{Features: make([]float64, FeatureCount)}}))
		})
	}
}

// Short feature vectors keep the resident entry instead of panicking.
func TestShortFeatureVector(t *testing.T) {
	models := []Model{NewLinear(), DecisionTree{}, RandomForest{}, NeuralNet{}, &Reinforcement{}}

	for _, m := range models {
		t.Run(m.Name(), func(t *testing.T) {
			for _, features := range [][]float64{nil, {}, {0.5, 0.1}} {
				pred := m.Predict(features)
				assert.Equal(t, KeepExisting, pred.Decision)
				assert.Zero(t, pred.Confidence)
			}
		})
	}
}

func TestReinforcementExplores(t *testing.T) {
	m := &Reinforcement{ExplorationPeriod: 3}

	seen := map[Decision]bool{}
	for range 9 {
		seen[m.Predict(collisionContext(2, 40).Vector()).Decision] = true
	}
	assert.True(t, seen[StoreNewElsewhere])
	assert.True(t, seen[ReplaceWithNew])
}

func TestStandardScaler(t *testing.T) {
	var s StandardScaler

	assert.ErrorIs(t, s.Fit(nil), ErrNoSamples)
	assert.False(t, s.Fitted())

	require.NoError(t, s.Fit([][]float64{
		{1, 10, 5},
		{3, 10, 7},
	}))
	require.True(t, s.Fitted())

	v := s.Transform([]float64{2, 10, 6})
	assert.InDelta(t, 0, v[0], 1e-9)
	assert.InDelta(t, 0, v[1], 1e-9) // constant feature passes through
	assert.InDelta(t, 0, v[2], 1e-9)

	v = s.Transform([]float64{3, 10, 7})
	assert.InDelta(t, 1, v[0], 1e-9)
	assert.InDelta(t, 1, v[2], 1e-9)
}

func TestPolicyDecide(t *testing.T) {
	p := NewPolicy(DecisionTree{}, PolicyConfig{})

	assert.Equal(t, table.DecisionReplace, p.Decide(
		model.Entry{HashKey: 1, Depth: 2},
		model.Entry{HashKey: 2, Depth: 9},
	))
	assert.Equal(t, table.DecisionKeep, p.Decide(
		model.Entry{HashKey: 1, Depth: 9},
		model.Entry{HashKey: 2, Depth: 2},
	))

	stats := p.Stats()
	assert.Equal(t, int64(2), stats.Decisions)
	assert.Equal(t, int64(1), stats.Replaced)
	assert.Equal(t, int64(1), stats.Kept)
}

func TestPolicyRetrains(t *testing.T) {
	p := NewPolicy(NewLinear(), PolicyConfig{
		MinSamples:    8,
		RetrainPeriod: 8,
		BufferSize:    16,
		Scale:         true,
	})

	ctx := collisionContext(5, 30)
	for range 20 {
		p.RecordOutcome(ctx, ReplaceWithNew, true)
	}

	stats := p.Stats()
	assert.Positive(t, stats.TrainPasses)
	assert.Equal(t, int64(20), stats.Outcomes)
	assert.Equal(t, int64(20), stats.Beneficial)
	// Buffer stays bounded.
	assert.LessOrEqual(t, stats.Buffered, 16)
}

// Policy plugs into the baseline table as its collision decider.
func TestPolicyDrivesTableReplacement(t *testing.T) {
	p := NewPolicy(DecisionTree{}, PolicyConfig{})
	tbl, err := table.NewBasic(table.BasicConfig{Size: 64, Decider: p})
	require.NoError(t, err)

	h1 := uint64(0x5)
	h2 := h1 + 64

	tbl.Store(model.Entry{HashKey: h1, Depth: 3, Score: 1, Flag: model.BoundExact})
	tbl.Store(model.Entry{HashKey: h2, Depth: 12, Score: 2, Flag: model.BoundExact})

	// The deeper candidate replaced the resident entry.
	got, ok := tbl.Probe(h2, 0)
	require.True(t, ok)
	assert.Equal(t, uint8(12), got.Depth)
	_, ok = tbl.Probe(h1, 0)
	assert.False(t, ok)
}
