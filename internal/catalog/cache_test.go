package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinnycodez/Hiba/internal/domain"
	"github.com/shinnycodez/Hiba/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingFetch returns a FetchFunc that counts invocations and returns the
// given products.
func countingFetch(products []domain.Product, calls *int) FetchFunc {
	return func(ctx context.Context) ([]domain.Product, error) {
		*calls++
		return products, nil
	}
}

func TestScopeKey(t *testing.T) {
	assert.Equal(t, "products_all", ScopeKey(""))
	assert.Equal(t, "products_shirts", ScopeKey("shirts"))
}

func TestLoad_MissThenHit(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New(store, 30*time.Minute, discardLogger())
	ctx := context.Background()

	products := []domain.Product{{ID: "p1", Title: "Shirt"}}
	calls := 0

	got, err := c.Load(ctx, "products_all", countingFetch(products, &calls))
	require.NoError(t, err)
	assert.Equal(t, products, got)
	assert.Equal(t, 1, calls)

	// Second read within the TTL serves from the store.
	got, err = c.Load(ctx, "products_all", countingFetch(products, &calls))
	require.NoError(t, err)
	assert.Equal(t, products, got)
	assert.Equal(t, 1, calls, "a fresh entry must not refetch")
}

func TestLoad_FreshWindowBoundary(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New(store, 30*time.Minute, discardLogger())
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	products := []domain.Product{{ID: "p1", Title: "Shirt"}}
	calls := 0
	_, err := c.Load(ctx, "products_all", countingFetch(products, &calls))
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	// 29 minutes later the entry is still fresh: no fetch.
	c.now = func() time.Time { return base.Add(29 * time.Minute) }
	_, err = c.Load(ctx, "products_all", countingFetch(products, &calls))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// 31 minutes after the original fetch the entry is stale: exactly one
	// more fetch.
	c.now = func() time.Time { return base.Add(31 * time.Minute) }
	_, err = c.Load(ctx, "products_all", countingFetch(products, &calls))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoad_ScopesAreIndependent(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New(store, 30*time.Minute, discardLogger())
	ctx := context.Background()

	allCalls, shirtCalls := 0, 0
	_, err := c.Load(ctx, "products_all", countingFetch([]domain.Product{{ID: "p1"}}, &allCalls))
	require.NoError(t, err)

	// A different scope misses even though products_all is fresh.
	_, err = c.Load(ctx, "products_shirts", countingFetch([]domain.Product{{ID: "p2"}}, &shirtCalls))
	require.NoError(t, err)
	assert.Equal(t, 1, allCalls)
	assert.Equal(t, 1, shirtCalls)
}

func TestLoad_FetchFailure_ReturnsErrorAndKeepsEntry(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New(store, 30*time.Minute, discardLogger())
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	calls := 0
	products := []domain.Product{{ID: "p1", Title: "Shirt"}}
	_, err := c.Load(ctx, "products_all", countingFetch(products, &calls))
	require.NoError(t, err)

	// Entry goes stale, then the refresh fails.
	c.now = func() time.Time { return base.Add(time.Hour) }
	fetchErr := errors.New("store unreachable")
	_, err = c.Load(ctx, "products_all", func(ctx context.Context) ([]domain.Product, error) {
		return nil, fetchErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)

	// The stale payload is still stored, not evicted and not replaced with
	// an empty collection.
	payload, err := store.Get(ctx, "products_all")
	require.NoError(t, err)
	var stored []domain.Product
	require.NoError(t, json.Unmarshal(payload, &stored))
	assert.Equal(t, products, stored)
}

func TestLoad_CorruptTimestampIsAMiss(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New(store, 30*time.Minute, discardLogger())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "products_all_timestamp", []byte("not-a-number")))
	require.NoError(t, store.Set(ctx, "products_all", []byte(`[{"id":"stale"}]`)))

	calls := 0
	fresh := []domain.Product{{ID: "fresh"}}
	got, err := c.Load(ctx, "products_all", countingFetch(fresh, &calls))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, fresh, got)
}

func TestLoad_CorruptPayloadIsAMiss(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New(store, 30*time.Minute, discardLogger())
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }
	require.NoError(t, store.Set(ctx, "products_all_timestamp", []byte(timestampFor(now))))
	require.NoError(t, store.Set(ctx, "products_all", []byte(`{broken`)))

	calls := 0
	fresh := []domain.Product{{ID: "fresh"}}
	got, err := c.Load(ctx, "products_all", countingFetch(fresh, &calls))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "a corrupt payload must fall back to a fetch")
	assert.Equal(t, fresh, got)
}

func TestLoad_NilFetchResultBecomesEmptyCollection(t *testing.T) {
	store := storage.NewMemoryStore()
	c := New(store, 30*time.Minute, discardLogger())

	got, err := c.Load(context.Background(), "products_all", func(ctx context.Context) ([]domain.Product, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNew_NonPositiveTTLUsesDefault(t *testing.T) {
	c := New(storage.NewMemoryStore(), 0, discardLogger())
	assert.Equal(t, DefaultTTL, c.ttl)
}

func timestampFor(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
