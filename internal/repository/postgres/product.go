package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shinnycodez/Hiba/internal/domain"
	apperrors "github.com/shinnycodez/Hiba/pkg/errors"
)

// DB is the subset of pgxpool.Pool used by the product source. It is an
// interface so tests can substitute a pgxmock pool.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const productColumns = `id, title, description, price, category, size, color, available, cover_image, images, variations, package_info, details`

// ProductSource implements repository.ProductSource on PostgreSQL. The
// products table mirrors the remote store's documents; list-valued and
// map-valued fields are JSONB columns.
type ProductSource struct {
	db DB
}

// NewProductSource creates a PostgreSQL-backed product source.
func NewProductSource(db DB) *ProductSource {
	return &ProductSource{db: db}
}

// List returns every product in the collection.
func (s *ProductSource) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListByCategory returns the products whose category equals the given value.
func (s *ProductSource) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("query products by category: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByID returns one product by identifier.
func (s *ProductSource) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("query product %s: %w", id, err)
	}
	return p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p              domain.Product
		imagesJSON     []byte
		variationsJSON []byte
		detailsJSON    []byte
	)

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.Size,
		&p.Color,
		&p.Available,
		&p.CoverImage,
		&imagesJSON,
		&variationsJSON,
		&p.PackageInfo,
		&detailsJSON,
	)
	if err != nil {
		return nil, err
	}

	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, fmt.Errorf("unmarshal images: %w", err)
		}
	}
	if len(variationsJSON) > 0 {
		if err := json.Unmarshal(variationsJSON, &p.Variations); err != nil {
			return nil, fmt.Errorf("unmarshal variations: %w", err)
		}
	}
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &p.Details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
	}

	return &p, nil
}
