package texture

import (
	"image"
	"sync"

	"rig-renderer/internal/logging"
)

// Resolver resolves a texture name to a decoded RGBA image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Every path is decoded at most
// once; a failed decode is remembered and reported a single time.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

// cacheEntry records a load attempt; img stays nil when decoding failed.
type cacheEntry struct {
	img *image.NRGBA
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or undecodable.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		c.missing(texName)
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadTexture(path)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.img
	}
	c.items[path] = &cacheEntry{img: img}
	c.mu.Unlock()

	if err != nil {
		logging.Warn("texture unavailable, rendering untextured", "path", path, "err", err)
	} else {
		logging.Debug("texture loaded", "path", path)
	}
	return img
}

func (c *Cache) missing(texName string) {
	key := "missing:" + texName
	c.mu.Lock()
	_, seen := c.items[key]
	if !seen {
		c.items[key] = &cacheEntry{}
	}
	c.mu.Unlock()
	if !seen {
		logging.Warn("texture not found, rendering untextured", "texture", texName)
	}
}
