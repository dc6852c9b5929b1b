package eventcast

import (
	"reflect"
	"sync"

	"github.com/randalmurphal/eventcast/pkg/eventcast/typedesc"
)

// TypeCache memoizes declared event types per concrete listener type.
// It uses sync.RWMutex for read-heavy workloads: after warm-up every
// lookup takes the read path.
//
// The cache is monotonic. Entries are never evicted or invalidated; the
// population is bounded by the number of distinct listener implementation
// types in the process. A stored typedesc.None records that a type
// declares nothing, which is distinct from "not yet computed".
type TypeCache struct {
	mu      sync.RWMutex
	entries map[reflect.Type]typedesc.Type
}

// NewTypeCache creates a new empty cache.
func NewTypeCache() *TypeCache {
	return &TypeCache{
		entries: make(map[reflect.Type]typedesc.Type),
	}
}

// GetOrCompute returns the declared event type for key, computing and
// storing it on first use. The bool reports whether the entry already
// existed. compute is called at most once per key, even under concurrent
// access, and must be pure.
func (c *TypeCache) GetOrCompute(key reflect.Type, compute func(reflect.Type) typedesc.Type) (typedesc.Type, bool) {
	// Fast path: check if already computed
	c.mu.RLock()
	d, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return d, true
	}

	// Slow path: compute with write lock
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if d, ok := c.entries[key]; ok {
		return d, true
	}

	d = compute(key)
	c.entries[key] = d
	return d, false
}

// Lookup returns the entry for key and whether it has been computed.
// A (typedesc.None, true) result means the type was inspected and
// declares nothing.
func (c *TypeCache) Lookup(key reflect.Type) (typedesc.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[key]
	return d, ok
}

// Len returns the number of computed entries.
func (c *TypeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
