package service

import (
	"context"
	"log/slog"

	"github.com/shinnycodez/Hiba/internal/domain"
	"github.com/shinnycodez/Hiba/internal/repository"
)

// ProductDetail is a single product prepared for the detail view: the
// preselected variation and the gallery image sequence are derived, not
// persisted.
type ProductDetail struct {
	domain.Product

	SelectedVariation string   `json:"selectedVariation,omitempty"`
	GalleryImages     []string `json:"galleryImages"`
}

// ProductService loads single products for the detail view.
type ProductService struct {
	source repository.ProductSource
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(source repository.ProductSource, logger *slog.Logger) *ProductService {
	return &ProductService{
		source: source,
		logger: logger,
	}
}

// GetDetail fetches one product by identifier. An absent document yields a
// not-found error (the caller redirects to the catalog root); nothing is
// written anywhere on any path.
func (s *ProductService) GetDetail(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := s.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{
		Product:           *product,
		SelectedVariation: product.DefaultVariation(),
		GalleryImages:     product.GalleryImages(),
	}, nil
}
