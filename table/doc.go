// Package table implements the transposition table backends: a single-level
// baseline table, a lock-free thread-safe table built on atomic packed words,
// and a multi-level table that routes entries to size- and policy-tuned tiers
// by search depth.
//
// # Concurrency
//
// Basic is not internally synchronized; it is safe only under external mutual
// exclusion or single-threaded use. ThreadSafe and MultiLevel accept
// concurrent Probe/Store from any number of goroutines. Clear on any backend
// requires that no concurrent Probe/Store is in flight; in practice it is
// called only between games.
package table
