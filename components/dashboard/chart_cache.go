package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// RenderCache memoizes rendered chart HTML keyed by region, theme and spec.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is an in-memory TTL cache for rendered charts.
type ChartCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cachedChart
}

type cachedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL. A non-positive TTL disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedChart),
	}
}

// GetOrRender returns the live entry for key or renders and stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, html)
	return html, nil
}

func (c *ChartCache) enabled() bool { return c != nil && c.ttl > 0 }

func (c *ChartCache) lookup(key string) (string, bool) {
	if !c.enabled() {
		return "", false
	}
	now := c.now()
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.html, true
	}
	if ok {
		c.evict(key, now)
	}
	return "", false
}

// evict drops key only if it is still expired at now; a concurrent store wins.
func (c *ChartCache) evict(key string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok && !now.Before(entry.expires) {
		delete(c.entries, key)
	}
}

func (c *ChartCache) store(key, html string) {
	if !c.enabled() {
		return
	}
	expires := c.now().Add(c.ttl)
	c.mu.Lock()
	c.entries[key] = cachedChart{html: html, expires: expires}
	c.mu.Unlock()
}

// specHash returns a deterministic hash for a chart spec.
func specHash(spec ChartSpec) string {
	if spec.IsNoResults() {
		return "empty"
	}
	b, err := json.Marshal(spec)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Len returns the number of live entries.
func (c *ChartCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	now := c.now()
	for _, entry := range c.entries {
		if now.Before(entry.expires) {
			n++
		}
	}
	return n
}
