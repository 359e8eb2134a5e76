package layout

import "sync"

// Cache is the measured-geometry oracle: the renderer reports layer
// measurements as they happen and the engine reads the latest one.
// Last-writer-wins, no expiry; a stale measurement is still better than a
// heuristic.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]LayerGeometry
}

// NewCache creates an empty geometry cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]LayerGeometry)}
}

// Report stores the latest measurement for a layer.
func (c *Cache) Report(layerID string, geom LayerGeometry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[layerID] = geom
}

// Forget drops a layer's measurement, used when the layer is deleted.
func (c *Cache) Forget(layerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, layerID)
}

// LayerGeometry implements Oracle.
func (c *Cache) LayerGeometry(layerID string) (LayerGeometry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	geom, ok := c.entries[layerID]
	return geom, ok
}

// Len reports the number of cached measurements.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Static is a fixed-map oracle for tests and offline simulation.
type Static map[string]LayerGeometry

// LayerGeometry implements Oracle.
func (s Static) LayerGeometry(layerID string) (LayerGeometry, bool) {
	geom, ok := s[layerID]
	return geom, ok
}
