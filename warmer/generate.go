package warmer

import "github.com/hupe1980/shogitt/model"

// generator produces deterministic pseudo-random entries from a splitmix64
// stream. Not safe for concurrent use; every worker owns one.
type generator struct {
	state uint64
}

func newGenerator(seed uint64) *generator {
	return &generator{state: seed}
}

func (g *generator) next() uint64 {
	g.state += 0x9E3779B97F4A7C15
	z := g.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// entry fabricates one warm entry of the given category. Hash keys come
// straight from the stream; the remaining fields follow per-category shapes
// so replacement policies see plausible depth and bound distributions.
func (g *generator) entry(cat Category) model.Entry {
	e := model.Entry{
		HashKey: g.next(),
		Source:  model.SourceWarmer,
	}

	switch cat {
	case CategoryBook:
		e.Depth = uint8(1 + g.next()%4)
		e.Score = int16(g.next()%101) - 50
		e.Flag = model.BoundExact
		e.BestMove = model.Move(1 + g.next()%0x7FFF)
	case CategoryEndgame:
		e.Depth = uint8(12 + g.next()%12)
		e.Score = int16(g.next()%2001) - 1000
		e.Flag = model.BoundExact
	case CategoryTactical:
		e.Depth = uint8(4 + g.next()%6)
		e.Score = int16(300 + g.next()%700)
		e.Flag = model.BoundLower
		e.BestMove = model.Move(1 + g.next()%0x7FFF)
	default: // position
		e.Depth = uint8(2 + g.next()%7)
		e.Score = int16(g.next()%401) - 200
		if g.next()%3 == 0 {
			e.Flag = model.BoundUpper
		} else {
			e.Flag = model.BoundExact
		}
	}

	return e
}
