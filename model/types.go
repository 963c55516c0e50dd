package model

import (
	"fmt"
)

// Bound records how a cached score relates to the alpha-beta window that
// produced it.
type Bound uint8

const (
	// BoundExact means the score is the true value of the position.
	BoundExact Bound = iota
	// BoundLower means the score is a lower bound (fail high / beta cutoff).
	BoundLower
	// BoundUpper means the score is an upper bound (fail low).
	BoundUpper
)

// String returns a string representation of the Bound.
func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	default:
		return fmt.Sprintf("bound(%d)", uint8(b))
	}
}

// Valid reports whether b is one of the three defined bounds.
func (b Bound) Valid() bool {
	return b <= BoundUpper
}

// Move is an opaque packed Shogi move. The cache never interprets it beyond
// zero/non-zero; the layout below is owned by the move generator:
//
//	bits 0-6   from square (0-80, or drop marker)
//	bits 7-13  to square
//	bit  14    promotion
//	bits 15-18 dropped piece kind
type Move uint32

// MoveNone is the absence of a best move.
const MoveNone Move = 0

// IsZero reports whether the move is unset.
func (m Move) IsZero() bool {
	return m == MoveNone
}

// Source tags where an entry came from, for diagnostics and replacement
// decisions that distinguish prefilled hints from real search results.
type Source uint8

const (
	// SourceSearch marks entries produced by the main search.
	SourceSearch Source = iota
	// SourcePrefill marks entries derived from an opening book.
	SourcePrefill
	// SourceWarmer marks synthetic entries generated by the cache warmer.
	SourceWarmer
)

// String returns a string representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceSearch:
		return "search"
	case SourcePrefill:
		return "prefill"
	case SourceWarmer:
		return "warmer"
	default:
		return fmt.Sprintf("source(%d)", uint8(s))
	}
}

// Score bounds representable by the packed 16-bit score field. Callers must
// keep scores within this range; packing clamps beyond it.
const (
	ScoreMin int16 = -32000
	ScoreMax int16 = 32000
)

// MaxDepth is the largest depth representable by the packed 8-bit depth field.
const MaxDepth uint8 = 255

// Entry is the canonical value stored per position.
//
// A zero HashKey denotes an empty slot in array-backed stores. Real positions
// whose Zobrist key happens to be exactly zero are indistinguishable from
// empty; this is an accepted approximation.
type Entry struct {
	// HashKey is the 64-bit position+side-to-move fingerprint.
	HashKey uint64
	// Score is the evaluation, bounded to [ScoreMin, ScoreMax].
	Score int16
	// Depth is the remaining search depth when the entry was stored.
	// Higher depth is stronger evidence.
	Depth uint8
	// Flag records how Score relates to the search window.
	Flag Bound
	// BestMove is the refutation/principal move, MoveNone if unknown.
	BestMove Move
	// Age is the generation counter at storage time. Wrapping is tolerated;
	// it only affects relative-recency comparisons.
	Age uint16
	// Source tags the entry's provenance.
	Source Source
}

// IsEmpty reports whether the entry denotes an empty slot.
func (e Entry) IsEmpty() bool {
	return e.HashKey == 0
}

// String returns a compact representation for logging.
func (e Entry) String() string {
	return fmt.Sprintf("Entry(%#x d=%d s=%d %s age=%d)", e.HashKey, e.Depth, e.Score, e.Flag, e.Age)
}

// BookPosition is one opening-book position exposed for prefill.
type BookPosition struct {
	// Hash is the Zobrist key of the position.
	Hash uint64
	// BestMove is the book's recommended move.
	BestMove Move
	// Score is the book's static assessment in centipawns.
	Score int16
}

// OpeningBook exposes enumerable positions for cache prefill. Implementations
// live in the engine front-end; the cache only reads them.
type OpeningBook interface {
	// Positions returns the book's stored positions. The slice is read-only.
	Positions() []BookPosition
}
