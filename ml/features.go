package ml

import (
	"time"

	"github.com/hupe1980/shogitt/model"
)

// FeatureCount is the length of the extracted vector: 4 position features,
// 3 access-pattern features, 6 per entry for both entries, and 2 temporal.
const FeatureCount = 4 + 3 + 2*6 + 2

// PositionFeatures describe the position being stored.
type PositionFeatures struct {
	// Complexity estimates branching richness in [0, 1].
	Complexity float64
	// TacticalScore rates forcing-line potential in [0, 1].
	TacticalScore float64
	// PositionalScore rates quiet structural value in [0, 1].
	PositionalScore float64
	// MaterialBalance is normalized material difference in [-1, 1].
	MaterialBalance float64
}

// AccessFeatures describe the slot's recent access pattern.
type AccessFeatures struct {
	// RecentFrequency is accesses to this slot per recent window.
	RecentFrequency float64
	// SiblingAccesses counts accesses to sibling positions.
	SiblingAccesses float64
	// ParentAccesses counts accesses to the parent position.
	ParentAccesses float64
}

// TemporalFeatures describe entry timing; optional.
type TemporalFeatures struct {
	// EntryAge is the time since the resident entry was stored.
	EntryAge time.Duration
	// SinceLastAccess is the time since the resident entry was last probed.
	SinceLastAccess time.Duration
}

// Context bundles everything a model may consider for one collision.
type Context struct {
	// Existing is the resident entry.
	Existing model.Entry
	// Candidate is the incoming entry.
	Candidate model.Entry
	// Position, Access and Temporal are derived features; Temporal is
	// optional and contributes zeros when nil.
	Position PositionFeatures
	Access   AccessFeatures
	Temporal *TemporalFeatures
}

// entryFeatures flattens one entry into its 6 features.
func entryFeatures(e model.Entry, dst []float64) {
	dst[0] = float64(e.Depth) / float64(model.MaxDepth)
	dst[1] = float64(e.Score) / float64(model.ScoreMax)
	dst[2] = float64(e.Age)
	dst[3] = boolToFloat(e.Flag == model.BoundExact)
	dst[4] = boolToFloat(e.Flag == model.BoundLower)
	dst[5] = boolToFloat(!e.BestMove.IsZero())
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Vector extracts the flat feature vector. Layout is stable; models and the
// scaler depend on it.
func (c *Context) Vector() []float64 {
	v := make([]float64, FeatureCount)

	v[0] = c.Position.Complexity
	v[1] = c.Position.TacticalScore
	v[2] = c.Position.PositionalScore
	v[3] = c.Position.MaterialBalance

	v[4] = c.Access.RecentFrequency
	v[5] = c.Access.SiblingAccesses
	v[6] = c.Access.ParentAccesses

	entryFeatures(c.Existing, v[7:13])
	entryFeatures(c.Candidate, v[13:19])

	if c.Temporal != nil {
		v[19] = c.Temporal.EntryAge.Seconds()
		v[20] = c.Temporal.SinceLastAccess.Seconds()
	}

	return v
}
