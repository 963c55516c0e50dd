package ml

import (
	"math"
	"sync"
)

// Linear is a logistic scorer over the feature vector. It estimates the
// probability that replacing the resident entry is beneficial and maps the
// probability to a decision:
//
//	p > 0.60  ReplaceWithNew
//	p < 0.40  KeepExisting
//	otherwise StoreNewElsewhere (genuinely uncertain: hedge nearby)
//
// Training is plain online gradient descent on the cross-entropy loss with a
// binary "replacement was beneficial" target derived from observed outcomes.
type Linear struct {
	mu      sync.RWMutex
	weights []float64
	bias    float64
	lr      float64
}

// NewLinear creates an untrained linear model. Until trained it starts from
// depth-favoring priors so cold-start behavior approximates the classic
// depth-preferred rule.
func NewLinear() *Linear {
	w := make([]float64, FeatureCount)
	// Resident depth argues for keeping, candidate depth for replacing.
	w[7] = -2.0
	w[13] = 2.0
	return &Linear{
		weights: w,
		lr:      0.05,
	}
}

// Name implements Model.
func (m *Linear) Name() string { return "linear" }

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func (m *Linear) score(features []float64) float64 {
	z := m.bias
	for i, x := range features {
		if i >= len(m.weights) {
			break
		}
		z += m.weights[i] * x
	}
	return sigmoid(z)
}

// Predict implements Model.
func (m *Linear) Predict(features []float64) Prediction {
	if len(features) < FeatureCount {
		return Prediction{Decision: KeepExisting}
	}

	m.mu.RLock()
	p := m.score(features)
	m.mu.RUnlock()

	var d Decision
	switch {
	case p > 0.60:
		d = ReplaceWithNew
	case p < 0.40:
		d = KeepExisting
	default:
		d = StoreNewElsewhere
	}

	return Prediction{
		Decision:   d,
		Confidence: math.Abs(p-0.5) * 2,
	}
}

// Train implements Model with one SGD pass over the samples. The target is
// whether replacement was the right call: a beneficial ReplaceWithNew and a
// harmful KeepExisting both label the vector as "should replace".
func (m *Linear) Train(samples []Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range samples {
		var target float64
		switch s.Decision {
		case ReplaceWithNew, StoreNewElsewhere:
			target = boolToFloat(s.Beneficial)
		case KeepExisting:
			target = boolToFloat(!s.Beneficial)
		}

		p := m.score(s.Features)
		grad := p - target

		for i, x := range s.Features {
			if i >= len(m.weights) {
				break
			}
			m.weights[i] -= m.lr * grad * x
		}
		m.bias -= m.lr * grad
	}

	return nil
}
