package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shinnycodez/Hiba/internal/domain"
	"github.com/shinnycodez/Hiba/internal/repository"
	apperrors "github.com/shinnycodez/Hiba/pkg/errors"
)

// EventPublisher emits the storefront domain events that follow cart
// mutations. Publishing is best-effort: a failure is logged, never
// surfaced to the shopper.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, items []domain.CartItem) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishBuyNow(ctx context.Context, sessionID string, item domain.BuyNowItem) error
}

// MaxQuantityPerAdd bounds a single addition to keep carts sane.
const MaxQuantityPerAdd = 100

// AddItemInput holds the parameters for adding an item or starting a
// buy-now checkout.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Variation string `json:"variation"`
}

// CartService implements cart consolidation and the buy-now fast path on
// top of the two-tier cart store.
type CartService struct {
	store    *repository.CartStore
	source   repository.ProductSource
	producer EventPublisher
	logger   *slog.Logger

	// inflight guards against re-entrant additions for the same browsing
	// context: a second trigger while one is submitting is rejected.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCartService creates a new cart service.
func NewCartService(store *repository.CartStore, source repository.ProductSource, producer EventPublisher, logger *slog.Logger) *CartService {
	return &CartService{
		store:    store,
		source:   source,
		producer: producer,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// GetCart returns the cart for the browsing context, empty when nothing is
// stored.
func (s *CartService) GetCart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	return s.store.Read(ctx, sessionID), nil
}

// AddItem merges an addition into the cart. Additions of the same
// (product, variation) pair consolidate into one line; the line's
// identifier, price snapshot, and createdAt keep their first-seen values.
// The addition is rejected while a prior one for the same context is still
// in flight.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) ([]domain.CartItem, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	if !s.begin(sessionID) {
		return nil, apperrors.Conflict("an addition for this session is already in flight")
	}
	defer s.end(sessionID)

	product, variation, err := s.resolveProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	cart := s.store.Read(ctx, sessionID)
	line := domain.CartItem{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.CoverImage,
		Quantity:  input.Quantity,
		Variation: variation,
		CreatedAt: time.Now().UTC(),
	}
	next := domain.Consolidate(cart, line)

	if err := s.store.Write(ctx, sessionID, next); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if err := s.producer.PublishCartUpdated(ctx, sessionID, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", product.ID),
		slog.String("variation", variation),
		slog.Int("quantity", input.Quantity),
	)

	return next, nil
}

// ClearCart empties the cart in both tiers.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("session_id", sessionID))
	return nil
}

// BuyNow builds the ephemeral checkout record and stores it in the session
// tier, replacing any prior record. The persisted cart is never touched.
func (s *CartService) BuyNow(ctx context.Context, sessionID string, input AddItemInput) (*domain.BuyNowItem, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	product, variation, err := s.resolveProduct(ctx, input)
	if err != nil {
		return nil, err
	}

	// The record carries the product id as its own id; unlike a cart line
	// it is single-slot, so no line identifier is minted.
	item := domain.BuyNowItem{
		ID:        product.ID,
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.CoverImage,
		Quantity:  input.Quantity,
		Variation: variation,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.WriteBuyNow(ctx, sessionID, item); err != nil {
		return nil, fmt.Errorf("save buy-now item: %w", err)
	}

	if err := s.producer.PublishBuyNow(ctx, sessionID, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.buynow event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "buy-now checkout started",
		slog.String("session_id", sessionID),
		slog.String("product_id", product.ID),
	)

	return &item, nil
}

// GetBuyNow returns the current ephemeral record for the downstream
// checkout flow.
func (s *CartService) GetBuyNow(ctx context.Context, sessionID string) (*domain.BuyNowItem, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	item := s.store.ReadBuyNow(ctx, sessionID)
	if item == nil {
		return nil, apperrors.NotFound("buy-now item", sessionID)
	}
	return item, nil
}

// ClearBuyNow removes the ephemeral record once checkout has consumed it.
func (s *CartService) ClearBuyNow(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}
	return s.store.ClearBuyNow(ctx, sessionID)
}

func (s *CartService) validateInput(input AddItemInput) error {
	if input.ProductID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if input.Quantity < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}
	if input.Quantity > MaxQuantityPerAdd {
		return apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerAdd))
	}
	return nil
}

// resolveProduct loads the product and settles the variation: a product
// with variations defaults to its first one when none is requested, a
// requested variation must be one the product declares, and a product
// without variations accepts none.
func (s *CartService) resolveProduct(ctx context.Context, input AddItemInput) (*domain.Product, string, error) {
	product, err := s.source.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, "", err
	}

	if !product.Available {
		return nil, "", apperrors.OutOfStock(fmt.Sprintf("product %s is out of stock", product.ID))
	}

	variation := input.Variation
	switch {
	case variation == "":
		variation = product.DefaultVariation()
	case !product.HasVariation(variation):
		return nil, "", apperrors.InvalidInput(fmt.Sprintf("unknown variation %q", variation))
	}

	return product, variation, nil
}

func (s *CartService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *CartService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}
