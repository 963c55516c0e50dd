package table

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/shogitt/internal/hashidx"
	"github.com/hupe1980/shogitt/model"
)

// ErrInvalidLevel is returned for an out-of-range level index.
var ErrInvalidLevel = errors.New("table: invalid level index")

// lutDepths is the depth range covered by the precomputed routing table.
// Deeper lookups fall back to a linear threshold scan.
const lutDepths = 21

// AllocationStrategy controls how slot capacity is distributed across levels.
type AllocationStrategy uint8

const (
	// AllocEqual gives every level BaseSize slots.
	AllocEqual AllocationStrategy = iota
	// AllocProportional doubles the size at every deeper level.
	AllocProportional
	// AllocCustom uses CustomSizes verbatim.
	AllocCustom
)

// MultiLevelConfig configures a MultiLevel table.
type MultiLevelConfig struct {
	// Levels is the number of tiers; at least 1.
	Levels int
	// BaseSize is the slot count of level 0; must be a power of two.
	BaseSize int
	// Allocation selects how deeper levels are sized.
	Allocation AllocationStrategy
	// CustomSizes gives per-level slot counts for AllocCustom.
	CustomSizes []int
	// Thresholds partitions [0, 255] into Levels contiguous depth ranges.
	// Thresholds[i] is the highest depth owned by level i; must be strictly
	// ascending and have length Levels-1.
	Thresholds []uint8
	// MinLevelSize and MaxLevelSize bound ResizeLevel. Zero values default
	// to 64 and 1<<24.
	MinLevelSize int
	MaxLevelSize int
}

// ConfigurationError reports an invalid MultiLevelConfig field.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("table: invalid configuration %s: %s", e.Field, e.Reason)
}

// MultiLevelStats exposes routing diagnostics. Cross-level hits are entries
// found outside their depth-appropriate level.
type MultiLevelStats struct {
	PrimaryHits   int64
	CrossHits     int64
	Misses        int64
	LevelSizes    []int
	LevelOccupied []int
}

// MultiLevel owns N independent baseline tables plus a static depth→level
// routing table. Shallow levels use an age-favoring policy (short-lived,
// frequently displaced entries); deep levels prefer depth (expensive
// evidence worth keeping). Each level is guarded by its own mutex, so
// concurrent Probe/Store contend only within a level.
type MultiLevel struct {
	cfg    MultiLevelConfig
	levels []*Basic
	locks  []sync.RWMutex
	lut    [lutDepths]uint8

	primaryHits atomic.Int64
	crossHits   atomic.Int64
	misses      atomic.Int64
}

// NewMultiLevel creates a multi-level table.
func NewMultiLevel(cfg MultiLevelConfig) (*MultiLevel, error) {
	if cfg.Levels < 1 {
		return nil, &ConfigurationError{Field: "Levels", Reason: "must be at least 1"}
	}
	if len(cfg.Thresholds) != cfg.Levels-1 {
		return nil, &ConfigurationError{Field: "Thresholds", Reason: fmt.Sprintf("need %d thresholds for %d levels", cfg.Levels-1, cfg.Levels)}
	}
	for i := 1; i < len(cfg.Thresholds); i++ {
		if cfg.Thresholds[i] <= cfg.Thresholds[i-1] {
			return nil, &ConfigurationError{Field: "Thresholds", Reason: "must be strictly ascending"}
		}
	}
	if cfg.Allocation == AllocCustom && len(cfg.CustomSizes) != cfg.Levels {
		return nil, &ConfigurationError{Field: "CustomSizes", Reason: "must match Levels"}
	}
	if cfg.MinLevelSize <= 0 {
		cfg.MinLevelSize = 64
	}
	if cfg.MaxLevelSize <= 0 {
		cfg.MaxLevelSize = 1 << 24
	}

	m := &MultiLevel{
		cfg:    cfg,
		levels: make([]*Basic, cfg.Levels),
		locks:  make([]sync.RWMutex, cfg.Levels),
	}

	for i := range cfg.Levels {
		size, err := m.levelSize(i)
		if err != nil {
			return nil, err
		}
		lvl, err := NewBasic(BasicConfig{Size: size, Policy: m.levelPolicy(i)})
		if err != nil {
			return nil, err
		}
		m.levels[i] = lvl
	}

	for d := range lutDepths {
		m.lut[d] = uint8(m.scanLevel(uint8(d)))
	}

	return m, nil
}

func (m *MultiLevel) levelSize(level int) (int, error) {
	var size int
	switch m.cfg.Allocation {
	case AllocProportional:
		size = m.cfg.BaseSize << level
	case AllocCustom:
		size = m.cfg.CustomSizes[level]
	default:
		size = m.cfg.BaseSize
	}
	if size <= 0 || size&(size-1) != 0 {
		return 0, ErrInvalidSize
	}
	return size, nil
}

// levelPolicy assigns recency-favoring replacement to the shallow half and
// depth-preferred replacement to the deep half.
func (m *MultiLevel) levelPolicy(level int) ReplacementPolicy {
	if level < (m.cfg.Levels+1)/2 {
		return AgeBased
	}
	return DepthPreferred
}

func (m *MultiLevel) scanLevel(depth uint8) int {
	for i, th := range m.cfg.Thresholds {
		if depth <= th {
			return i
		}
	}
	return m.cfg.Levels - 1
}

// LevelForDepth returns the level owning the given depth. Depths below
// lutDepths resolve through the precomputed lookup table.
func (m *MultiLevel) LevelForDepth(depth uint8) int {
	if depth < lutDepths {
		return int(m.lut[depth])
	}
	return m.scanLevel(depth)
}

// Probe first checks the depth-appropriate level, then on miss scans all
// other levels before declaring a miss.
func (m *MultiLevel) Probe(hash uint64, minDepth uint8) (model.Entry, bool) {
	primary := m.LevelForDepth(minDepth)

	if e, ok := m.probeLevel(primary, hash, minDepth); ok {
		m.primaryHits.Add(1)
		return e, true
	}

	for i := range m.levels {
		if i == primary {
			continue
		}
		if e, ok := m.probeLevel(i, hash, minDepth); ok {
			m.crossHits.Add(1)
			return e, true
		}
	}

	m.misses.Add(1)
	return model.Entry{}, false
}

func (m *MultiLevel) probeLevel(level int, hash uint64, minDepth uint8) (model.Entry, bool) {
	m.locks[level].Lock()
	defer m.locks[level].Unlock()
	return m.levels[level].Probe(hash, minDepth)
}

// Store routes e to the level whose depth range contains e.Depth and
// delegates to that level's table.
func (m *MultiLevel) Store(e model.Entry) {
	if e.IsEmpty() {
		return
	}

	level := m.LevelForDepth(e.Depth)
	m.locks[level].Lock()
	m.levels[level].Store(e)
	m.locks[level].Unlock()
}

// Clear empties every level. The caller must ensure exclusivity.
func (m *MultiLevel) Clear() {
	for i := range m.levels {
		m.locks[i].Lock()
		m.levels[i].Clear()
		m.locks[i].Unlock()
	}
	m.primaryHits.Store(0)
	m.crossHits.Store(0)
	m.misses.Store(0)
}

// Size reports total capacity across levels, not live occupancy.
func (m *MultiLevel) Size() int {
	total := 0
	for i := range m.levels {
		m.locks[i].RLock()
		total += m.levels[i].Size()
		m.locks[i].RUnlock()
	}
	return total
}

// Len reports total live occupancy.
func (m *MultiLevel) Len() int {
	total := 0
	for i := range m.levels {
		m.locks[i].RLock()
		total += m.levels[i].Len()
		m.locks[i].RUnlock()
	}
	return total
}

// NewSearch advances every level's generation.
func (m *MultiLevel) NewSearch() {
	for i := range m.levels {
		m.locks[i].Lock()
		m.levels[i].NewSearch()
		m.locks[i].Unlock()
	}
}

// HitRate returns the fraction of probes that hit, counting cross-level hits.
func (m *MultiLevel) HitRate() float64 {
	hits := m.primaryHits.Load() + m.crossHits.Load()
	total := hits + m.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Stats returns routing diagnostics.
func (m *MultiLevel) Stats() MultiLevelStats {
	s := MultiLevelStats{
		PrimaryHits:   m.primaryHits.Load(),
		CrossHits:     m.crossHits.Load(),
		Misses:        m.misses.Load(),
		LevelSizes:    make([]int, len(m.levels)),
		LevelOccupied: make([]int, len(m.levels)),
	}
	for i := range m.levels {
		m.locks[i].RLock()
		s.LevelSizes[i] = m.levels[i].Size()
		s.LevelOccupied[i] = m.levels[i].Len()
		m.locks[i].RUnlock()
	}
	return s
}

// ResizeLevel rebuilds the given level with a new slot count, re-inserting
// its surviving entries. The new size is rounded down to a power of two and
// bounded by MinLevelSize/MaxLevelSize.
func (m *MultiLevel) ResizeLevel(level, newSize int) error {
	if level < 0 || level >= len(m.levels) {
		return ErrInvalidLevel
	}

	newSize = hashidx.RoundPow2(newSize)
	if newSize < m.cfg.MinLevelSize {
		newSize = hashidx.RoundPow2(m.cfg.MinLevelSize)
	}
	if newSize > m.cfg.MaxLevelSize {
		newSize = hashidx.RoundPow2(m.cfg.MaxLevelSize)
	}

	rebuilt, err := NewBasic(BasicConfig{Size: newSize, Policy: m.levelPolicy(level)})
	if err != nil {
		return err
	}

	m.locks[level].Lock()
	defer m.locks[level].Unlock()

	m.levels[level].Range(func(e model.Entry) bool {
		rebuilt.Store(e)
		return true
	})
	m.levels[level] = rebuilt

	return nil
}

// PrefillFromBook inserts entries derived from the book's positions at the
// given depth and returns the count inserted.
func (m *MultiLevel) PrefillFromBook(book model.OpeningBook, depth uint8) int {
	if book == nil {
		return 0
	}

	n := 0
	for _, pos := range book.Positions() {
		if pos.Hash == 0 {
			continue
		}
		m.Store(model.Entry{
			HashKey:  pos.Hash,
			Score:    pos.Score,
			Depth:    depth,
			Flag:     model.BoundExact,
			BestMove: pos.BestMove,
			Source:   model.SourcePrefill,
		})
		n++
	}
	return n
}
