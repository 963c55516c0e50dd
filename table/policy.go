package table

import (
	"github.com/hupe1980/shogitt/model"
)

// ReplacementPolicy decides whether candidate should overwrite existing when
// both map to the same slot. It is only consulted for occupied slots.
type ReplacementPolicy func(existing, candidate model.Entry) bool

// DepthPreferred keeps whichever entry has greater depth. Exact bounds win
// ties because they terminate searches outright.
func DepthPreferred(existing, candidate model.Entry) bool {
	if candidate.Depth != existing.Depth {
		return candidate.Depth > existing.Depth
	}
	return candidate.Flag == model.BoundExact
}

// AgeBased prefers the newer generation, falling back to depth within the
// same generation. Age comparison uses wrapping-tolerant inequality.
func AgeBased(existing, candidate model.Entry) bool {
	if candidate.Age != existing.Age {
		return true
	}
	return candidate.Depth >= existing.Depth
}

// DepthAged replaces stale generations unconditionally and otherwise requires
// the candidate to be nearly as deep as the resident entry. The 3-ply grace
// lets fresh results displace slightly deeper stale ones.
func DepthAged(existing, candidate model.Entry) bool {
	if existing.Age != candidate.Age {
		return true
	}
	return int(candidate.Depth) >= int(existing.Depth)-3 || candidate.Flag == model.BoundExact
}

// AlwaysReplace is the trivial last-writer-wins policy.
func AlwaysReplace(existing, candidate model.Entry) bool {
	return true
}

// CollisionDecision is the outcome of a pluggable collision decider.
type CollisionDecision uint8

const (
	// DecisionKeep leaves the resident entry in place.
	DecisionKeep CollisionDecision = iota
	// DecisionReplace overwrites the resident entry.
	DecisionReplace
	// DecisionRelocate stores the candidate in the neighboring slot instead.
	DecisionRelocate
)

// CollisionDecider resolves slot collisions in place of a fixed
// ReplacementPolicy. The ML replacement policy implements this; it is a
// decision-support hook, never correctness-critical.
type CollisionDecider interface {
	Decide(existing, candidate model.Entry) CollisionDecision
}
