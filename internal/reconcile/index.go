package reconcile

import (
	"sort"
	"sync"

	"github.com/compmap/eventmap/internal/scene"
)

// MarkerIndex maps record keys to the marker element drawn for them
type MarkerIndex struct {
	mu      sync.RWMutex
	markers map[string]*scene.Element
}

// NewMarkerIndex creates a new MarkerIndex
func NewMarkerIndex() *MarkerIndex {
	return &MarkerIndex{
		markers: make(map[string]*scene.Element),
	}
}

// Get retrieves a marker by key
func (c *MarkerIndex) Get(key string) (*scene.Element, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	el, ok := c.markers[key]
	return el, ok
}

// Set stores a marker by key
func (c *MarkerIndex) Set(key string, el *scene.Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers[key] = el
}

// Delete removes a marker by key
func (c *MarkerIndex) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.markers, key)
}

// Len returns the number of indexed markers
func (c *MarkerIndex) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.markers)
}

// Keys returns the indexed keys in ascending order
func (c *MarkerIndex) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.markers))
	for k := range c.markers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn for every indexed marker, in key order
func (c *MarkerIndex) Each(fn func(key string, el *scene.Element)) {
	for _, k := range c.Keys() {
		if el, ok := c.Get(k); ok {
			fn(k, el)
		}
	}
}

// Reset clears all markers from the index
func (c *MarkerIndex) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers = make(map[string]*scene.Element)
}
