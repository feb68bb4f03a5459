// Package imagecache loads part images and keeps every decoded image for
// the lifetime of the session.
package imagecache

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"mell-studio/internal/manifest"
)

// Cache is a concurrency-safe, append-only image cache keyed by normalized
// path. Failed loads are not remembered, so a later call retries.
type Cache struct {
	src   Source
	log   *slog.Logger
	mu    sync.RWMutex
	items map[string]*image.NRGBA
}

// New creates a cache reading from src.
func New(src Source, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		src:   src,
		log:   logger,
		items: make(map[string]*image.NRGBA),
	}
}

// Load returns the decoded image for p, reading it on the first request.
func (c *Cache) Load(ctx context.Context, p string) (*image.NRGBA, error) {
	key := manifest.NormalizeKey(p)

	// Fast path: read lock
	c.mu.RLock()
	img, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Slow path: decode outside the lock
	img, err := c.read(key)
	if err != nil {
		return nil, err
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[key]; ok {
		return existing, nil
	}
	c.items[key] = img
	return img, nil
}

func (c *Cache) read(key string) (*image.NRGBA, error) {
	rc, err := c.src.Open(key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Decode(rc, key)
}

// Has reports whether p is already decoded.
func (c *Cache) Has(p string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[manifest.NormalizeKey(p)]
	return ok
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
