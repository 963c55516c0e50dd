// Package hashidx maps 64-bit position hashes to table slots.
//
// For power-of-two table sizes the mapping is a branch-free bitmask. An
// optional multiplicative mixing step (Fibonacci hashing with the golden
// ratio constant) is offered for hash sources whose low bits are not well
// distributed.
package hashidx
