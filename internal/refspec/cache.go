package refspec

import (
	"time"

	"github.com/maypok86/otter"
)

// Cache memoizes parsed descriptor lists keyed by reference table path.
//
// The reference table is re-read from disk only after the TTL expires, so
// a long-running watch process picks up table edits without re-parsing it
// for every batch. Refresh drops the cached entry immediately.
type Cache struct {
	cache otter.Cache[string, []Descriptor]
	load  func(TableConfig) ([]Descriptor, error)
}

// NewCache builds a descriptor cache with the given freshness window.
func NewCache(ttl time.Duration) (*Cache, error) {
	c, err := otter.MustBuilder[string, []Descriptor](16).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, err
	}
	return &Cache{cache: c, load: LoadTable}, nil
}

// Descriptors returns the parsed descriptor list for cfg, loading the
// table on a cache miss. The returned slice is shared; callers must treat
// it as read-only.
func (c *Cache) Descriptors(cfg TableConfig) ([]Descriptor, error) {
	if descs, ok := c.cache.Get(cfg.Path); ok {
		return descs, nil
	}

	descs, err := c.load(cfg)
	if err != nil {
		return nil, err
	}
	c.cache.Set(cfg.Path, descs)
	return descs, nil
}

// Refresh evicts the cached entry for the given table path, forcing the
// next Descriptors call to re-read the file.
func (c *Cache) Refresh(path string) {
	c.cache.Delete(path)
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.cache.Close()
}
