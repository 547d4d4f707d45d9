package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/adapter/metrics"
)

// Loader reads the placeholder manifest: image base name to data URI.
type Loader func(ctx context.Context) (map[string]string, error)

// FileLoader reads the manifest from a JSON file on disk.
func FileLoader(filename string) Loader {
	return func(context.Context) (map[string]string, error) {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read placeholder manifest: %w", err)
		}
		var manifest map[string]string
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("failed to decode placeholder manifest: %w", err)
		}
		return manifest, nil
	}
}

// PlaceholderCache owns the loaded manifest. A failed load caches an empty
// manifest, so the loader runs at most once per TTL either way.
type PlaceholderCache struct {
	loader  Loader
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *metrics.CacheMetrics

	mu        sync.Mutex
	entries   map[string]string
	expiresAt time.Time
	loaded    bool
}

// NewPlaceholderCache creates an empty cache. m may be nil.
func NewPlaceholderCache(loader Loader, ttl time.Duration, clock clockwork.Clock, m *metrics.CacheMetrics) *PlaceholderCache {
	return &PlaceholderCache{
		loader:  loader,
		ttl:     ttl,
		clock:   clock,
		metrics: m,
	}
}

// Lookup returns the data URI for an image path or base name.
func (c *PlaceholderCache) Lookup(ctx context.Context, image string) (string, bool) {
	if image == "" {
		return "", false
	}
	entries := c.current(ctx)
	uri, ok := entries[imageKey(image)]

	if c.metrics != nil {
		if ok {
			c.metrics.Hits.Inc()
		} else {
			c.metrics.Misses.Inc()
		}
	}
	return uri, ok
}

// Len reports how many placeholders the current manifest holds.
func (c *PlaceholderCache) Len(ctx context.Context) int {
	return len(c.current(ctx))
}

// Invalidate forces the next lookup to reload the manifest.
func (c *PlaceholderCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
}

func (c *PlaceholderCache) current(ctx context.Context) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.loaded && now.Before(c.expiresAt) {
		return c.entries
	}

	entries, err := c.loader(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Placeholder manifest unavailable, continuing without placeholders", "error", err)
		entries = map[string]string{}
		c.recordLoad("error")
	} else {
		if entries == nil {
			entries = map[string]string{}
		}
		c.recordLoad("success")
	}

	c.entries = entries
	c.expiresAt = now.Add(c.ttl)
	c.loaded = true
	return c.entries
}

func (c *PlaceholderCache) recordLoad(result string) {
	if c.metrics != nil {
		c.metrics.Loads.WithLabelValues(result).Inc()
	}
}

// imageKey maps "/images/event/best-hit.jpg" to "best-hit", the key the
// image pipeline writes.
func imageKey(image string) string {
	base := path.Base(image)
	return strings.TrimSuffix(base, path.Ext(base))
}
