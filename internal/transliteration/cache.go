package transliteration

import (
	"log/slog"
	"sync"

	"github.com/NaanProphet/sanscript/internal/metrics"
	"github.com/NaanProphet/sanscript/internal/scheme"
	"golang.org/x/sync/singleflight"
)

type pair struct {
	from, to string
}

// Cache memoizes maps by scheme pair for the life of the process. Maps are
// never evicted; the key space is bounded by the number of registered pairs.
type Cache struct {
	reg *scheme.Registry
	log *slog.Logger

	mu    sync.RWMutex
	maps  map[pair]*Map
	group singleflight.Group
}

func NewCache(reg *scheme.Registry, log *slog.Logger) *Cache {
	return &Cache{
		reg:  reg,
		log:  log,
		maps: make(map[pair]*Map),
	}
}

// GetOrBuild returns the map for the pair, building it on first use.
// Concurrent first requests for the same pair share a single build.
func (c *Cache) GetOrBuild(from, to string) (*Map, error) {
	key := pair{from: from, to: to}
	if m, ok := c.lookup(key); ok {
		metrics.MapCacheLookups.WithLabelValues("hit").Inc()
		return m, nil
	}
	metrics.MapCacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(from+"\x00"+to, func() (any, error) {
		if m, ok := c.lookup(key); ok {
			return m, nil
		}
		m, err := BuildMap(c.reg, from, to)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.maps[key] = m
		c.mu.Unlock()

		metrics.MapBuildsTotal.Inc()
		c.log.Debug("built transliteration map",
			"from", from,
			"to", to,
			"letters", len(m.letters),
			"marks", len(m.marks),
			"max_token_length", m.maxTokenLength,
		)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Map), nil
}

// Len returns the number of cached maps.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.maps)
}

func (c *Cache) lookup(key pair) (*Map, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.maps[key]
	return m, ok
}
