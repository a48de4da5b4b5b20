package render

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
)

// CachedRenderer wraps a Renderer with an in-memory LRU cache keyed by
// snapshot, level and mode. Snapshots are immutable, so entries never go
// stale; a new snapshot simply misses.
type CachedRenderer struct {
	inner   Renderer
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedRenderer creates a cache decorator around a renderer.
func NewCachedRenderer(inner Renderer, maxEntries int, metrics *observability.Metrics) *CachedRenderer {
	return &CachedRenderer{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedRenderer) Render(ctx context.Context, snap *pipeline.Snapshot, level domain.Level, mode domain.DisplayMode) ([]byte, error) {
	if snap == nil {
		return nil, domain.ErrNoSnapshot
	}
	key := CacheKey(snap, level, mode)
	if out, ok := c.cache.get(key); ok {
		c.metrics.RenderCache.WithLabelValues("hit").Inc()
		return out, nil
	}
	c.metrics.RenderCache.WithLabelValues("miss").Inc()

	out, err := c.inner.Render(ctx, snap, level, mode)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, out)
	return out, nil
}

// CacheKey identifies one rendering. It doubles as the HTTP ETag.
func CacheKey(snap *pipeline.Snapshot, level domain.Level, mode domain.DisplayMode) string {
	return fmt.Sprintf("%s-%d-%s", snap.ID, level, mode)
}

// lruCache is a thread-safe LRU cache of encoded charts. The front of the
// list is the most recently used entry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List
	entries    map[string]*list.Element
}

type entry struct {
	key   string
	value []byte
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*entry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
