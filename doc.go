// Package shogitt provides an embedded transposition-table cache for Shogi
// search engines.
//
// A transposition table memoizes search results keyed by a 64-bit Zobrist
// hash, so revisiting a position (via a different move order) reuses the
// stored score, depth and best move instead of re-searching the subtree.
//
// # Quick Start
//
//	tbl, _ := table.NewThreadSafe(table.ThreadSafeConfig{Size: 1 << 20})
//	tt, _ := shogitt.New(tbl)
//
//	tt.Store(model.Entry{HashKey: hash, Score: 100, Depth: 3, Flag: model.BoundExact})
//	if e, ok := tt.Probe(hash, 3); ok {
//	    // cutoff or move ordering using e.Score / e.BestMove
//	}
//
// # Backends
//
// Choose the backend for your workload:
//   - table.Basic: single-threaded search, lowest overhead
//   - table.ThreadSafe: lock-free probe/store for parallel search workers
//   - table.MultiLevel: depth-routed tiers with cross-tier fallback
//   - compress.Table: compressed at-rest entries for tight memory budgets
//
// Every backend is adapted to the one TranspositionTable interface by New,
// so the search engine never depends on a concrete table type. Backends
// without internal synchronization are wrapped in a mutex automatically.
//
// # Optional Layers
//
//   - ml.Policy: learned keep/replace/relocate decisions on slot collisions
//   - warmer.Warmer: pre-populates a table before search under budgets
package shogitt
