package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shinnycodez/Hiba/internal/catalog"
	"github.com/shinnycodez/Hiba/internal/domain"
	"github.com/shinnycodez/Hiba/internal/storage"
	apperrors "github.com/shinnycodez/Hiba/pkg/errors"
)

func newCatalogFixture() (*CatalogService, *mockProductSource) {
	source := new(mockProductSource)
	cache := catalog.New(storage.NewMemoryStore(), 30*time.Minute, discardLogger())
	return NewCatalogService(source, cache, discardLogger()), source
}

func catalogProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Title: "Linen Shirt", Price: 49.99, Category: "shirts", Size: "M", Available: true},
		{ID: "p2", Title: "Denim Jacket", Price: 89.00, Category: "jackets", Size: "L", Available: true},
		{ID: "p3", Title: "Silk Shirt", Price: 120.00, Category: "shirts", Size: "S", Available: false},
	}
}

func TestBrowse_AllProducts(t *testing.T) {
	svc, source := newCatalogFixture()

	source.On("List", mock.Anything).Return(catalogProducts(), nil).Once()

	view, err := svc.Browse(context.Background(), domain.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, "All Products", view.Title)
	assert.Len(t, view.Products, 3)

	source.AssertExpectations(t)
}

func TestBrowse_SecondReadServedFromCache(t *testing.T) {
	svc, source := newCatalogFixture()

	source.On("List", mock.Anything).Return(catalogProducts(), nil).Once()

	ctx := context.Background()
	_, err := svc.Browse(ctx, domain.Criteria{})
	require.NoError(t, err)

	// Another read within the TTL must not hit the source again; the mock
	// would fail on a second List call.
	view, err := svc.Browse(ctx, domain.Criteria{})
	require.NoError(t, err)
	assert.Len(t, view.Products, 3)

	source.AssertExpectations(t)
}

func TestBrowse_FacetsNarrowTheCachedScope(t *testing.T) {
	svc, source := newCatalogFixture()

	source.On("List", mock.Anything).Return(catalogProducts(), nil).Once()

	ctx := context.Background()
	_, err := svc.Browse(ctx, domain.Criteria{})
	require.NoError(t, err)

	// A different facet combination reuses the same cached scope.
	view, err := svc.Browse(ctx, domain.Criteria{Category: []string{"shirts"}, Available: []bool{true}})
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "p1", view.Products[0].ID)
}

func TestBrowse_URLCategoryScopesTheFetch(t *testing.T) {
	svc, source := newCatalogFixture()

	shirts := []domain.Product{catalogProducts()[0], catalogProducts()[2]}
	source.On("ListByCategory", mock.Anything, "shirts").Return(shirts, nil).Once()

	view, err := svc.Browse(context.Background(), domain.Criteria{URLCategory: "shirts"})
	require.NoError(t, err)
	assert.Equal(t, "shirts", view.Title)
	assert.Len(t, view.Products, 2)

	source.AssertNotCalled(t, "List", mock.Anything)
}

func TestBrowse_SearchDerivesTitle(t *testing.T) {
	svc, source := newCatalogFixture()

	source.On("List", mock.Anything).Return(catalogProducts(), nil).Once()

	view, err := svc.Browse(context.Background(), domain.Criteria{URLSearch: "Denim"})
	require.NoError(t, err)
	assert.Equal(t, `Results for "denim"`, view.Title)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "p2", view.Products[0].ID)
}

func TestBrowse_FetchFailure(t *testing.T) {
	svc, source := newCatalogFixture()

	source.On("List", mock.Anything).Return(nil, errors.New("store unreachable"))

	_, err := svc.Browse(context.Background(), domain.Criteria{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestBrowse_EmptyCatalog(t *testing.T) {
	svc, source := newCatalogFixture()

	source.On("List", mock.Anything).Return([]domain.Product{}, nil).Once()

	view, err := svc.Browse(context.Background(), domain.Criteria{})
	require.NoError(t, err)
	assert.NotNil(t, view.Products)
	assert.Empty(t, view.Products)
}
