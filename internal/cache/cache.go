package cache

import (
	"sync"
	"sync/atomic"

	"github.com/torchlit/buildcalc/internal/model"
)

// Cache is the process-local result cache: a bounded LRU over full
// calculator outputs, keyed by the fingerprint of the input that produced
// them. It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	store  *lru
	hits   atomic.Int64
	misses atomic.Int64
}

// New builds a Cache holding at most capacity entries.
func New(capacity int) *Cache {
	return &Cache{store: newLRU(capacity)}
}

// Get looks up the cached output for input, reporting a hit or miss.
func (c *Cache) Get(input model.CalculatorInput) (model.CalculatorOutput, bool) {
	key := Compute(input)
	c.mu.Lock()
	v, ok := c.store.get(key)
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return model.CalculatorOutput{}, false
	}
	c.hits.Add(1)
	return v.(model.CalculatorOutput), true
}

// Put stores output under input's fingerprint, evicting the least recently
// used entry if the cache is at capacity.
func (c *Cache) Put(input model.CalculatorInput, output model.CalculatorOutput) {
	key := Compute(input)
	c.mu.Lock()
	c.store.put(key, output)
	c.mu.Unlock()
}

// Wipe discards every cached entry without resetting hit/miss counters;
// those describe the cache's lifetime behavior, not its current contents.
func (c *Cache) Wipe() {
	c.mu.Lock()
	c.store.purge()
	c.mu.Unlock()
}

// Stats reports the cache's current occupancy and cumulative hit rate.
func (c *Cache) Stats() model.CacheStats {
	c.mu.Lock()
	size := c.store.len()
	capacity := c.store.capacity
	c.mu.Unlock()

	return model.CacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Size:     size,
		Capacity: capacity,
	}
}
