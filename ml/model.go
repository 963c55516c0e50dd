package ml

import (
	"fmt"
)

// Decision is a replacement verdict for a slot collision.
type Decision uint8

const (
	// KeepExisting leaves the resident entry in place.
	KeepExisting Decision = iota
	// ReplaceWithNew overwrites the resident entry with the candidate.
	ReplaceWithNew
	// StoreNewElsewhere relocates the candidate to a neighboring slot.
	StoreNewElsewhere
)

// String returns a string representation of the Decision.
func (d Decision) String() string {
	switch d {
	case KeepExisting:
		return "keep"
	case ReplaceWithNew:
		return "replace"
	case StoreNewElsewhere:
		return "elsewhere"
	default:
		return fmt.Sprintf("decision(%d)", uint8(d))
	}
}

// Prediction is a model's verdict with its confidence in [0, 1].
type Prediction struct {
	Decision   Decision
	Confidence float64
}

// Sample is one observed outcome used for training: the features seen at
// decision time, the decision taken, and whether it turned out beneficial
// (measured by subsequent cache efficiency).
type Sample struct {
	Features   []float64
	Decision   Decision
	Beneficial bool
}

// Model is the pluggable decision strategy. Implementations must be safe for
// concurrent Predict calls; Train is serialized by the Policy.
type Model interface {
	// Predict returns a verdict for a feature vector. Vectors shorter than
	// FeatureCount yield KeepExisting with zero confidence.
	Predict(features []float64) Prediction
	// Train updates the model from observed outcomes. Models that do not
	// learn return nil and ignore the samples.
	Train(samples []Sample) error
	// Name identifies the model for logging.
	Name() string
}
