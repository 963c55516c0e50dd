package pack

import (
	"github.com/hupe1980/shogitt/model"
)

const (
	scoreShift = 48
	depthShift = 40
	flagShift  = 38

	flagMask     = 0x3
	reservedMask = uint64(0x3F) << 32

	// TagMask covers the caller-owned lower half of the word.
	TagMask = uint64(0xFFFFFFFF)
)

// Entry packs (score, depth, flag) into the upper 32 significant bits of a
// 64-bit word. The lower 32 bits are left zero for the caller. Scores outside
// the representable range are clamped; flags outside the defined set map to
// BoundExact.
func Entry(score int16, depth uint8, flag model.Bound) uint64 {
	if score > model.ScoreMax {
		score = model.ScoreMax
	} else if score < model.ScoreMin {
		score = model.ScoreMin
	}
	if !flag.Valid() {
		flag = model.BoundExact
	}
	return uint64(uint16(score))<<scoreShift |
		uint64(depth)<<depthShift |
		uint64(flag)<<flagShift
}

// Unpack extracts (score, depth, flag) from a packed word, ignoring the
// caller-owned lower half.
func Unpack(word uint64) (score int16, depth uint8, flag model.Bound) {
	score = int16(uint16(word >> scoreShift))
	depth = uint8(word >> depthShift)
	flag = model.Bound((word >> flagShift) & flagMask)
	return score, depth, flag
}

// Valid is a defensive check that a non-zero packed word is internally
// consistent: reserved bits clear and flag within the defined set. A word
// failing this check indicates corruption, not a legal race outcome, because
// every writer goes through Entry.
func Valid(word uint64) bool {
	if word == 0 {
		return true
	}
	if word&reservedMask != 0 {
		return false
	}
	return model.Bound((word >> flagShift) & flagMask).Valid()
}
