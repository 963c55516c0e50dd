package warmer

import "fmt"

// Category classifies generated entries.
type Category uint8

const (
	// CategoryPosition marks generic midgame position entries.
	CategoryPosition Category = iota
	// CategoryBook marks opening-book entries.
	CategoryBook
	// CategoryEndgame marks deep, exact endgame entries.
	CategoryEndgame
	// CategoryTactical marks cut-node entries carrying a refutation move.
	CategoryTactical

	numCategories
)

// String returns a string representation of the Category.
func (c Category) String() string {
	switch c {
	case CategoryPosition:
		return "position"
	case CategoryBook:
		return "book"
	case CategoryEndgame:
		return "endgame"
	case CategoryTactical:
		return "tactical"
	default:
		return fmt.Sprintf("category(%d)", uint8(c))
	}
}

// Strategy selects how a warming session spends its entry budget across
// categories.
type Strategy uint8

const (
	// StrategyConservative spends half the budget, favoring book entries.
	StrategyConservative Strategy = iota
	// StrategyAggressive spends the full budget across all categories.
	StrategyAggressive
	// StrategySelective skips generic position entries and spends three
	// quarters of the budget on book, endgame and tactical entries.
	StrategySelective
	// StrategyAdaptive resolves to aggressive when the memory budget covers
	// the full entry budget, conservative otherwise.
	StrategyAdaptive
)

// String returns a string representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyConservative:
		return "conservative"
	case StrategyAggressive:
		return "aggressive"
	case StrategySelective:
		return "selective"
	case StrategyAdaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// plan is the per-category entry budget of one session.
type plan [numCategories]int

// buildPlan resolves a strategy into per-category counts. Higher-priority
// categories get larger weight shares.
func buildPlan(s Strategy, maxEntries int, memoryLimit int64) plan {
	if s == StrategyAdaptive {
		if memoryLimit == 0 || memoryLimit >= int64(maxEntries)*entryBytes {
			s = StrategyAggressive
		} else {
			s = StrategyConservative
		}
	}

	var total int
	var weights plan
	switch s {
	case StrategyAggressive:
		total = maxEntries
		weights = plan{3, 2, 2, 3}
	case StrategySelective:
		total = maxEntries * 3 / 4
		weights = plan{0, 5, 3, 2}
	default: // conservative
		total = maxEntries / 2
		weights = plan{1, 5, 1, 1}
	}

	sum := 0
	for _, w := range weights {
		sum += w
	}

	var p plan
	for c, w := range weights {
		p[c] = total * w / sum
	}
	return p
}
