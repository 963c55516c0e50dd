// Package pack converts (score, depth, flag) triples to and from single
// 64-bit words so a whole logical entry can be published with one atomic
// store or compare-and-swap.
//
// # Bit layout (contract)
//
//	bits 48-63  score, int16 two's complement
//	bits 40-47  depth, uint8
//	bits 38-39  flag (0 exact, 1 lower, 2 upper)
//	bits 32-37  reserved, always zero
//	bits  0-31  free for the caller; the thread-safe table stores the upper
//	            32 bits of the hash key here as a verification tag
//
// Packing is lossy only at the configured ranges: scores are clamped to
// [model.ScoreMin, model.ScoreMax] and depth already fits uint8.
package pack
