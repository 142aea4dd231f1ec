package service

import (
	"context"
	"log/slog"

	"github.com/shinnycodez/Hiba/internal/catalog"
	"github.com/shinnycodez/Hiba/internal/domain"
	"github.com/shinnycodez/Hiba/internal/repository"
	apperrors "github.com/shinnycodez/Hiba/pkg/errors"
)

// CatalogView is the filtered product collection plus its derived title.
type CatalogView struct {
	Title    string           `json:"title"`
	Products []domain.Product `json:"products"`
}

// CatalogService serves scoped, cached, filtered catalog views.
type CatalogService struct {
	source repository.ProductSource
	cache  *catalog.Cache
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(source repository.ProductSource, cache *catalog.Cache, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// Browse loads the product set for the criteria's URL category scope
// (through the cache) and narrows it with the full filter predicate. The
// scope is keyed by the URL category alone; all other facets are applied
// in memory so they never fragment the cache.
func (s *CatalogService) Browse(ctx context.Context, criteria domain.Criteria) (*CatalogView, error) {
	scope := catalog.ScopeKey(criteria.URLCategory)

	fetch := func(ctx context.Context) ([]domain.Product, error) {
		if criteria.URLCategory != "" {
			return s.source.ListByCategory(ctx, criteria.URLCategory)
		}
		return s.source.List(ctx)
	}

	products, err := s.cache.Load(ctx, scope, fetch)
	if err != nil {
		s.logger.ErrorContext(ctx, "catalog load failed",
			slog.String("scope", scope),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Upstream(err)
	}

	return &CatalogView{
		Title:    criteria.Title(),
		Products: domain.Apply(products, criteria),
	}, nil
}
