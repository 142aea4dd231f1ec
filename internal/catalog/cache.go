// Package catalog caches product collections fetched from the remote
// document store behind a time-to-live window, keyed by query scope.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shinnycodez/Hiba/internal/domain"
	"github.com/shinnycodez/Hiba/internal/storage"
)

// DefaultTTL is the freshness window for a cached scope.
const DefaultTTL = 30 * time.Minute

// timestampSuffix is appended to the scope key to form the key holding the
// fetch timestamp (epoch millis, stored as a decimal string).
const timestampSuffix = "_timestamp"

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog cache reads served without a remote fetch",
		},
		[]string{"scope"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_misses_total",
			Help: "Catalog cache reads that required a remote fetch",
		},
		[]string{"scope"},
	)

	cacheFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_fetch_failures_total",
			Help: "Remote fetches that failed while refreshing a scope",
		},
		[]string{"scope"},
	)
)

// FetchFunc performs the remote query for one scope.
type FetchFunc func(ctx context.Context) ([]domain.Product, error)

// ScopeKey derives the cache partition key for a category filter. An empty
// category means the unscoped "all products" partition.
func ScopeKey(category string) string {
	if category == "" {
		return "products_all"
	}
	return "products_" + category
}

// Cache memoizes product collections in a durable store.
type Cache struct {
	store  storage.Store
	ttl    time.Duration
	logger *slog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a cache over the given durable store.
func New(store storage.Store, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Load returns the products for scopeKey. A stored entry younger than the
// TTL is returned without invoking fetch. Otherwise fetch runs and its
// result is written through (payload first, then timestamp) before being
// returned. A failed fetch leaves any stored entry untouched and is
// reported to the caller; the cache never substitutes an empty collection
// for a failure.
func (c *Cache) Load(ctx context.Context, scopeKey string, fetch FetchFunc) ([]domain.Product, error) {
	if cached, ok := c.fresh(ctx, scopeKey); ok {
		cacheHits.WithLabelValues(scopeKey).Inc()
		return cached, nil
	}
	cacheMisses.WithLabelValues(scopeKey).Inc()

	products, err := fetch(ctx)
	if err != nil {
		cacheFetchFailures.WithLabelValues(scopeKey).Inc()
		return nil, fmt.Errorf("fetch scope %s: %w", scopeKey, err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	c.writeThrough(ctx, scopeKey, products)
	return products, nil
}

// fresh returns the cached payload if a stored entry exists and is within
// the TTL. A missing or unparsable entry is a miss, never an error.
func (c *Cache) fresh(ctx context.Context, scopeKey string) ([]domain.Product, bool) {
	rawTimestamp, err := c.store.Get(ctx, scopeKey+timestampSuffix)
	if err != nil {
		c.logMiss(ctx, scopeKey, err)
		return nil, false
	}

	fetchedAtMillis, err := strconv.ParseInt(string(rawTimestamp), 10, 64)
	if err != nil {
		c.logMiss(ctx, scopeKey, err)
		return nil, false
	}

	fetchedAt := time.UnixMilli(fetchedAtMillis)
	if c.now().Sub(fetchedAt) >= c.ttl {
		return nil, false
	}

	payload, err := c.store.Get(ctx, scopeKey)
	if err != nil {
		c.logMiss(ctx, scopeKey, err)
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		c.logMiss(ctx, scopeKey, err)
		return nil, false
	}

	return products, true
}

// writeThrough stores the freshly fetched payload and its timestamp. A
// storage failure downgrades to a log entry: the caller still gets the
// fetched data, the next read simply refetches.
func (c *Cache) writeThrough(ctx context.Context, scopeKey string, products []domain.Product) {
	payload, err := json.Marshal(products)
	if err != nil {
		c.logger.ErrorContext(ctx, "marshal catalog payload",
			slog.String("scope", scopeKey),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.store.Set(ctx, scopeKey, payload); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed",
			slog.String("scope", scopeKey),
			slog.String("error", err.Error()),
		)
		return
	}

	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	if err := c.store.Set(ctx, scopeKey+timestampSuffix, []byte(timestamp)); err != nil {
		c.logger.WarnContext(ctx, "catalog cache timestamp write failed",
			slog.String("scope", scopeKey),
			slog.String("error", err.Error()),
		)
	}
}

func (c *Cache) logMiss(ctx context.Context, scopeKey string, err error) {
	if errors.Is(err, storage.ErrKeyNotFound) {
		return
	}
	c.logger.WarnContext(ctx, "catalog cache entry unusable",
		slog.String("scope", scopeKey),
		slog.String("error", err.Error()),
	)
}
