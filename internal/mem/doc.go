// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte (cache line) aligned allocation for the atomic slot arrays,
// so a packed entry and its companion word never straddle two cache lines.
package mem
