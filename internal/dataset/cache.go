package dataset

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
)

// Cache keeps the last dataset loaded from a Source for ttl. Concurrent
// misses share one underlying load. A ttl <= 0 disables expiry.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	ds       *Dataset
	loadedAt time.Time
	gen      uint64
}

func NewCache(source Source, ttl time.Duration) *Cache {
	return &Cache{source: source, ttl: ttl, now: time.Now}
}

func (c *Cache) Load(ctx context.Context) (*Dataset, error) {
	c.mu.RLock()
	ds, fresh, gen := c.ds, c.fresh(), c.gen
	c.mu.RUnlock()
	if ds != nil && fresh {
		return ds, nil
	}

	v, err, _ := c.group.Do("load", func() (interface{}, error) {
		ds, err := c.source.Load(ctx)
		metrics.ObserveDatasetLoad(err)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// An Invalidate that raced with this load wins.
		if c.gen == gen {
			c.ds, c.loadedAt = ds, c.now()
		}
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Invalidate drops the cached dataset; the next Load goes to the source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.ds = nil
	c.gen++
	c.mu.Unlock()
}

// fresh must be called with mu held.
func (c *Cache) fresh() bool {
	return c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl
}
