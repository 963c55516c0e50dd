// Package ml implements the learned replacement policy: on a slot collision
// it extracts a feature vector from position, access-pattern, entry and
// temporal families, optionally standardizes it, and asks a pluggable model
// whether to keep the resident entry, replace it, or relocate the candidate.
//
// Observed outcomes feed a bounded training buffer; once enough samples
// accumulate the active model is retrained. This is a decision-support
// layer, not a correctness-critical one: a misconfigured policy degrades
// cache utilization, never search results.
//
// Only the linear model actually learns. The tree, forest, neural and
// reinforcement models are heuristic placeholders behind the same interface,
// kept as extension points.
package ml
