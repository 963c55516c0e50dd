package ml

import (
	"math"
	"sync/atomic"
)

// The models below are heuristic placeholders: fixed rules dressed in the
// Model interface so callers can swap strategies without code changes. None
// of them learn; Train is a no-op.

// DecisionTree applies a two-split rule on the entry depth features.
type DecisionTree struct{}

// Name implements Model.
func (DecisionTree) Name() string { return "decision-tree" }

// Predict implements Model.
func (DecisionTree) Predict(features []float64) Prediction {
	if len(features) < FeatureCount {
		return Prediction{Decision: KeepExisting}
	}

	existingDepth, candidateDepth := features[7], features[13]

	if candidateDepth > existingDepth {
		return Prediction{Decision: ReplaceWithNew, Confidence: 0.8}
	}
	if candidateDepth > existingDepth-0.02 {
		return Prediction{Decision: StoreNewElsewhere, Confidence: 0.5}
	}
	return Prediction{Decision: KeepExisting, Confidence: 0.8}
}

// Train implements Model.
func (DecisionTree) Train([]Sample) error { return nil }

// RandomForest takes the majority vote of three fixed rules (depth,
// exactness, recency).
type RandomForest struct{}

// Name implements Model.
func (RandomForest) Name() string { return "random-forest" }

// Predict implements Model.
func (RandomForest) Predict(features []float64) Prediction {
	if len(features) < FeatureCount {
		return Prediction{Decision: KeepExisting}
	}

	votes := 0
	if features[13] > features[7] { // deeper candidate
		votes++
	}
	if features[16] > features[10] { // exact candidate over non-exact resident
		votes++
	}
	if features[15] >= features[9] { // newer or equal generation
		votes++
	}

	if votes >= 2 {
		return Prediction{Decision: ReplaceWithNew, Confidence: float64(votes) / 3}
	}
	return Prediction{Decision: KeepExisting, Confidence: float64(3-votes) / 3}
}

// Train implements Model.
func (RandomForest) Train([]Sample) error { return nil }

// NeuralNet squashes a fixed weighted sum through tanh. The "network" is one
// hand-written neuron.
type NeuralNet struct{}

// Name implements Model.
func (NeuralNet) Name() string { return "neural-net" }

// Predict implements Model.
func (NeuralNet) Predict(features []float64) Prediction {
	if len(features) < FeatureCount {
		return Prediction{Decision: KeepExisting}
	}

	z := 3*(features[13]-features[7]) + 0.5*(features[16]-features[10]) + 0.2*features[0]
	a := math.Tanh(z)

	switch {
	case a > 0.1:
		return Prediction{Decision: ReplaceWithNew, Confidence: math.Abs(a)}
	case a < -0.1:
		return Prediction{Decision: KeepExisting, Confidence: math.Abs(a)}
	default:
		return Prediction{Decision: StoreNewElsewhere, Confidence: 0.3}
	}
}

// Train implements Model.
func (NeuralNet) Train([]Sample) error { return nil }

// Reinforcement wraps the depth rule with periodic exploration: every Nth
// prediction it relocates instead, regardless of the rule.
type Reinforcement struct {
	// ExplorationPeriod is the prediction interval for exploring; <2
	// defaults to 20.
	ExplorationPeriod int64

	calls atomic.Int64
}

// Name implements Model.
func (r *Reinforcement) Name() string { return "reinforcement" }

// Predict implements Model.
func (r *Reinforcement) Predict(features []float64) Prediction {
	if len(features) < FeatureCount {
		return Prediction{Decision: KeepExisting}
	}

	period := r.ExplorationPeriod
	if period < 2 {
		period = 20
	}

	if r.calls.Add(1)%period == 0 {
		return Prediction{Decision: StoreNewElsewhere, Confidence: 0.1}
	}

	if features[13] >= features[7] {
		return Prediction{Decision: ReplaceWithNew, Confidence: 0.6}
	}
	return Prediction{Decision: KeepExisting, Confidence: 0.6}
}

// Train implements Model.
func (r *Reinforcement) Train([]Sample) error { return nil }
