package repository

import (
	"context"

	"github.com/shinnycodez/Hiba/internal/domain"
)

// ProductSource is the read-only port onto the remote document store. The
// store owns the products collection; this service only queries it.
type ProductSource interface {
	// List returns every product in the collection.
	List(ctx context.Context) ([]domain.Product, error)

	// ListByCategory returns the products whose category equals the given
	// value exactly.
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)

	// GetByID returns one product by identifier, or an error wrapping
	// errors.ErrNotFound when no document matches.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}
