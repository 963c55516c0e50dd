package ml

import (
	"errors"
	"math"
)

// ErrNoSamples is returned when fitting a scaler on an empty set.
var ErrNoSamples = errors.New("ml: no samples to fit")

// StandardScaler normalizes features to zero mean and unit variance using
// statistics fitted from observed vectors.
type StandardScaler struct {
	mean []float64
	std  []float64
}

// Fit computes per-feature mean and standard deviation.
func (s *StandardScaler) Fit(vectors [][]float64) error {
	if len(vectors) == 0 {
		return ErrNoSamples
	}

	dim := len(vectors[0])
	s.mean = make([]float64, dim)
	s.std = make([]float64, dim)

	for _, v := range vectors {
		for i := range dim {
			s.mean[i] += v[i]
		}
	}
	n := float64(len(vectors))
	for i := range dim {
		s.mean[i] /= n
	}

	for _, v := range vectors {
		for i := range dim {
			d := v[i] - s.mean[i]
			s.std[i] += d * d
		}
	}
	for i := range dim {
		s.std[i] = math.Sqrt(s.std[i] / n)
		if s.std[i] == 0 {
			// Constant feature: pass through unscaled.
			s.std[i] = 1
		}
	}

	return nil
}

// Fitted reports whether Fit has run.
func (s *StandardScaler) Fitted() bool {
	return s.mean != nil
}

// Transform standardizes v in place and returns it. Unfitted scalers pass
// vectors through unchanged.
func (s *StandardScaler) Transform(v []float64) []float64 {
	if !s.Fitted() || len(v) != len(s.mean) {
		return v
	}
	for i := range v {
		v[i] = (v[i] - s.mean[i]) / s.std[i]
	}
	return v
}
