// Package querycache caches serialized search result pages in the store
// with a short TTL. Entries are safe to evict at any time; the catalog
// remains the source of truth.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/atelier-cloud/curator/internal/db"
	domsearch "github.com/atelier-cloud/curator/internal/domain/search"
)

// store is the consumer interface for the query cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores ranked result pages keyed by a deterministic hash of the
// query, filters, and limit.
type Cache struct {
	store      store
	keyPrefix  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a query cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, keyPrefix string, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		keyPrefix:  keyPrefix + "search_cache:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

type page struct {
	Results     []domsearch.Result    `json:"results"`
	Diagnostics domsearch.Diagnostics `json:"diagnostics"`
}

// Get returns a cached result page, if present and parseable.
func (c *Cache) Get(ctx context.Context, fingerprint string) ([]domsearch.Result, domsearch.Diagnostics, bool) {
	data, err := c.store.Get(ctx, c.keyPrefix+fingerprint)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read search cache", zap.Error(err))
		}
		c.inc("miss")
		return nil, domsearch.Diagnostics{}, false
	}
	var p page
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("Failed to parse cached search page", zap.Error(err))
		c.inc("miss")
		return nil, domsearch.Diagnostics{}, false
	}
	c.inc("hit")
	return p.Results, p.Diagnostics, true
}

// Put stores a result page. Failures are logged, never propagated: the
// cache is an optimization, not a dependency.
func (c *Cache) Put(ctx context.Context, fingerprint string, results []domsearch.Result, diag domsearch.Diagnostics) {
	data, err := json.Marshal(page{Results: results, Diagnostics: diag})
	if err != nil {
		c.logger.Warn("Failed to marshal search page for cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, c.keyPrefix+fingerprint, data, c.ttl); err != nil {
		c.logger.Warn("Failed to write search cache", zap.Error(err))
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// Fingerprint builds the deterministic cache key for a query+filters+limit
// combination.
func Fingerprint(rawQuery string, filtersJSON []byte, limit int) string {
	h := sha256.New()
	h.Write([]byte(rawQuery))
	h.Write([]byte{0})
	h.Write(filtersJSON)
	h.Write([]byte{0, byte(limit), byte(limit >> 8)})
	return hex.EncodeToString(h.Sum(nil))
}
