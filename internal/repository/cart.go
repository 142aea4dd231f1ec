package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shinnycodez/Hiba/internal/domain"
	"github.com/shinnycodez/Hiba/internal/storage"
	"github.com/shinnycodez/Hiba/pkg/validator"
)

// Storage keys per browsing context. The session identifier namespaces
// them, so both tiers stay shared state within one context and isolated
// across contexts.
const (
	keyCartItems = "cartItems"
	keyBuyNow    = "buyNowItem"
)

// CartStore reads and writes the cart list and the buy-now record through
// the two storage tiers. The tiers are intentionally redundant mirror
// copies of the cart: the durable tier survives a full restart, the
// session tier a durable-tier wipe within one session. The buy-now record
// lives in the session tier only.
type CartStore struct {
	durable storage.Store
	session storage.Store
	logger  *slog.Logger
}

// NewCartStore creates a cart store over the two tiers.
func NewCartStore(durable, session storage.Store, logger *slog.Logger) *CartStore {
	return &CartStore{
		durable: durable,
		session: session,
		logger:  logger,
	}
}

func cartKey(sessionID string) string {
	return sessionID + ":" + keyCartItems
}

func buyNowKey(sessionID string) string {
	return sessionID + ":" + keyBuyNow
}

// Read returns the cart for the browsing context. The durable tier is
// consulted first; if it is absent, unreadable, or unparsable the session
// tier is tried; if both fail the cart is empty. Corrupt stored values are
// recovered silently, never surfaced, so Read cannot fail.
func (s *CartStore) Read(ctx context.Context, sessionID string) []domain.CartItem {
	if items, ok := s.readTier(ctx, s.durable, sessionID, "durable"); ok {
		return items
	}
	if items, ok := s.readTier(ctx, s.session, sessionID, "session"); ok {
		return items
	}
	return []domain.CartItem{}
}

// readTier attempts one tier. Malformed individual records are dropped
// (quarantined) rather than poisoning the whole cart; a payload that fails
// to parse at all counts as absent so the next tier gets a chance.
func (s *CartStore) readTier(ctx context.Context, tier storage.Store, sessionID, name string) ([]domain.CartItem, bool) {
	data, err := tier.Get(ctx, cartKey(sessionID))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "cart tier read failed",
				slog.String("tier", name),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.WarnContext(ctx, "cart tier unparsable, treating as absent",
			slog.String("tier", name),
			slog.String("error", err.Error()),
		)
		return nil, false
	}

	valid := items[:0]
	for _, item := range items {
		if err := validator.Validate(item); err != nil {
			s.logger.WarnContext(ctx, "dropping malformed cart record",
				slog.String("tier", name),
				slog.String("item_id", item.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		valid = append(valid, item)
	}
	return valid, true
}

// Write persists the cart to both tiers. The mutation only counts as
// complete when both writes succeed.
func (s *CartStore) Write(ctx context.Context, sessionID string, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.durable.Set(ctx, cartKey(sessionID), data); err != nil {
		return fmt.Errorf("write cart to durable tier: %w", err)
	}
	if err := s.session.Set(ctx, cartKey(sessionID), data); err != nil {
		return fmt.Errorf("write cart to session tier: %w", err)
	}
	return nil
}

// Clear removes the cart from both tiers.
func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.durable.Delete(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("clear cart in durable tier: %w", err)
	}
	if err := s.session.Delete(ctx, cartKey(sessionID)); err != nil {
		return fmt.Errorf("clear cart in session tier: %w", err)
	}
	return nil
}

// ReadBuyNow returns the ephemeral buy-now record, or nil when none is
// stored or the stored value is unusable.
func (s *CartStore) ReadBuyNow(ctx context.Context, sessionID string) *domain.BuyNowItem {
	data, err := s.session.Get(ctx, buyNowKey(sessionID))
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "buy-now read failed", slog.String("error", err.Error()))
		}
		return nil
	}

	var item domain.BuyNowItem
	if err := json.Unmarshal(data, &item); err != nil {
		s.logger.WarnContext(ctx, "buy-now record unparsable, treating as absent",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if err := validator.Validate(item); err != nil {
		s.logger.WarnContext(ctx, "dropping malformed buy-now record",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &item
}

// WriteBuyNow stores the ephemeral record in the session tier, replacing
// any prior record. It is never mirrored to the durable tier.
func (s *CartStore) WriteBuyNow(ctx context.Context, sessionID string, item domain.BuyNowItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal buy-now item: %w", err)
	}
	if err := s.session.Set(ctx, buyNowKey(sessionID), data); err != nil {
		return fmt.Errorf("write buy-now item: %w", err)
	}
	return nil
}

// ClearBuyNow removes the ephemeral record; the downstream checkout flow
// calls this after consuming it.
func (s *CartStore) ClearBuyNow(ctx context.Context, sessionID string) error {
	if err := s.session.Delete(ctx, buyNowKey(sessionID)); err != nil {
		return fmt.Errorf("clear buy-now item: %w", err)
	}
	return nil
}
