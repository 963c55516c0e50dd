package prefetch

import (
	"sync/atomic"
)

// sink keeps the compiler from eliding the hint loads.
var sink atomic.Uint64

// Prefetcher issues best-effort cache warming hints and counts them.
type Prefetcher struct {
	issued atomic.Int64
}

// New creates a Prefetcher.
func New() *Prefetcher {
	return &Prefetcher{}
}

// Touch hints that slot will be read soon. No-op on a nil Prefetcher or slot.
func (p *Prefetcher) Touch(slot *atomic.Uint64) {
	if p == nil || slot == nil {
		return
	}
	sink.Store(slot.Load())
	p.issued.Add(1)
}

// Issued returns the number of hints issued so far.
func (p *Prefetcher) Issued() int64 {
	if p == nil {
		return 0
	}
	return p.issued.Load()
}
