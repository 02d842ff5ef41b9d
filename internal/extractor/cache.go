package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/maypok86/otter"
)

// Cache memoizes extraction results keyed by language and source content.
// Results are immutable, so cached values are shared between callers.
type Cache struct {
	extractor *Extractor
	entries   otter.Cache[string, *Result]
}

// NewCache wraps extractor with a size-bounded cache. A positive ttl expires
// entries after that long; zero keeps them until evicted for size.
func NewCache(extractor *Extractor, maxEntries int, ttl time.Duration) (*Cache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxEntries)
	}

	builder := otter.MustBuilder[string, *Result](maxEntries).CollectStats()

	var (
		entries otter.Cache[string, *Result]
		err     error
	)
	if ttl > 0 {
		entries, err = builder.WithTTL(ttl).Build()
	} else {
		entries, err = builder.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction cache: %w", err)
	}

	return &Cache{extractor: extractor, entries: entries}, nil
}

// Extract returns the cached result for (source, language), extracting on a miss.
func (c *Cache) Extract(source, language string) *Result {
	key := c.key(source, language)
	if result, ok := c.entries.Get(key); ok {
		return result
	}

	result := c.extractor.Extract(source, language)
	c.entries.Set(key, result)
	return result
}

// Hits returns the number of cache hits so far.
func (c *Cache) Hits() int64 {
	return c.entries.Stats().Hits()
}

// Misses returns the number of cache misses so far.
func (c *Cache) Misses() int64 {
	return c.entries.Stats().Misses()
}

// Close releases the cache's background resources.
func (c *Cache) Close() {
	c.entries.Close()
}

func (c *Cache) key(source, language string) string {
	lang, ok := c.extractor.registry.Canonical(language)
	if !ok {
		lang = strings.ToLower(strings.TrimSpace(language))
	}

	sum := sha256.Sum256([]byte(source))
	return lang + ":" + hex.EncodeToString(sum[:])
}
