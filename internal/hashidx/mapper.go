package hashidx

import (
	"errors"
	"math/bits"
)

// goldenRatio is 2^64 / phi, the usual Fibonacci hashing multiplier.
const goldenRatio = 0x9E3779B97F4A7C15

// ErrInvalidSize is returned when the slot count is zero or not a power of two.
var ErrInvalidSize = errors.New("hashidx: size must be a non-zero power of two")

// Mapper maps hashes onto [0, size) for a power-of-two size.
type Mapper struct {
	size  uint64
	mask  uint64
	shift uint
}

// New creates a Mapper for the given slot count.
func New(size int) (*Mapper, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, ErrInvalidSize
	}
	return &Mapper{
		size:  uint64(size),
		mask:  uint64(size - 1),
		shift: uint(64 - bits.TrailingZeros64(uint64(size))),
	}, nil
}

// Size returns the slot count.
func (m *Mapper) Size() int {
	return int(m.size)
}

// Index maps a hash to a slot with a plain bitmask. Constant time, branch
// free; assumes reasonably mixed input bits (true for Zobrist keys).
func (m *Mapper) Index(hash uint64) int {
	return int(hash & m.mask)
}

// IndexMixed applies a multiplicative mix before masking, for inputs whose
// low bits are poorly distributed.
func (m *Mapper) IndexMixed(hash uint64) int {
	return int((hash * goldenRatio) >> m.shift)
}

// RoundPow2 rounds size down to the nearest power of two, with a floor of 1.
func RoundPow2(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << (bits.Len(uint(size)) - 1)
}
