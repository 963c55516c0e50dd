// Package prefetch provides a portable stand-in for hardware prefetch hints.
//
// Go exposes no prefetch intrinsic, so the Prefetcher touches the target slot
// with a relaxed atomic load and discards the result. The load pulls the cache
// line toward the core ahead of the real probe; correctness never depends on
// it. All methods are nil-safe so backends can run without a prefetcher.
package prefetch
