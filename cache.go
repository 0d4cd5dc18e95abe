package sitethumbs

import (
	"sync"
	"time"
)

const listingTTL = time.Minute

// ListingCache is an in-memory copy of the catalog listing served by the
// preview routes. Build invalidates it.
type ListingCache struct {
	mu      sync.RWMutex
	thumbs  []Thumbnail
	loaded  bool
	fetched time.Time
	ttl     time.Duration
	load    func() ([]Thumbnail, error)
}

// NewListingCache creates a ListingCache that refreshes through load at
// most once per ttl.
func NewListingCache(ttl time.Duration, load func() ([]Thumbnail, error)) *ListingCache {
	return &ListingCache{ttl: ttl, load: load}
}

func (c *ListingCache) valid() bool {
	return c.loaded && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ListingCache) Invalidate() {
	c.mu.Lock()
	c.thumbs = nil
	c.loaded = false
	c.mu.Unlock()
}

// Thumbnails returns the cached listing, reloading it when stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ListingCache) Thumbnails() ([]Thumbnail, error) {
	c.mu.RLock()
	if c.valid() {
		thumbs := c.thumbs
		c.mu.RUnlock()
		return thumbs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.thumbs, nil
	}
	thumbs, err := c.load()
	if err != nil {
		return nil, err
	}
	c.thumbs = thumbs
	c.loaded = true
	c.fetched = time.Now()
	return c.thumbs, nil
}
