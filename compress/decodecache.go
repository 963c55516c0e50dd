package compress

import (
	"hash/crc32"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/shogitt/model"
)

// crcTable is pre-computed for the Castagnoli polynomial, which is hardware
// accelerated on modern CPUs.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// payloadKey hashes a compressed payload for decode-cache lookup.
func payloadKey(payload []byte) uint32 {
	return crc32.Checksum(payload, crcTable)
}

// DecodeCache is a capacity-bounded map with FIFO eviction that amortizes
// repeated decompression of hot entries. Safe for concurrent use.
type DecodeCache struct {
	mu       sync.Mutex
	capacity int
	items    map[uint32]model.Entry
	order    []uint32 // insertion order ring
	head     int

	hits   atomic.Int64
	misses atomic.Int64
}

// NewDecodeCache creates a cache holding up to capacity decoded entries.
// Capacity values below 1 default to 256.
func NewDecodeCache(capacity int) *DecodeCache {
	if capacity < 1 {
		capacity = 256
	}
	return &DecodeCache{
		capacity: capacity,
		items:    make(map[uint32]model.Entry, capacity),
		order:    make([]uint32, 0, capacity),
	}
}

// Get returns the decoded entry for a payload, if cached.
func (c *DecodeCache) Get(payload []byte) (model.Entry, bool) {
	key := payloadKey(payload)

	c.mu.Lock()
	e, ok := c.items[key]
	c.mu.Unlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return e, ok
}

// Put caches the decoded entry for a payload, evicting the oldest insertion
// when full.
func (c *DecodeCache) Put(payload []byte, e model.Entry) {
	key := payloadKey(payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		c.items[key] = e
		return
	}

	if len(c.items) >= c.capacity {
		oldest := c.order[c.head]
		delete(c.items, oldest)
		c.order[c.head] = key
		c.head = (c.head + 1) % c.capacity
	} else {
		c.order = append(c.order, key)
	}
	c.items[key] = e
}

// Len returns the number of cached entries.
func (c *DecodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the cache.
func (c *DecodeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
	c.order = c.order[:0]
	c.head = 0
}

// Stats returns cumulative hit/miss counters.
func (c *DecodeCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
