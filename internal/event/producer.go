package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shinnycodez/Hiba/internal/domain"
	pkgkafka "github.com/shinnycodez/Hiba/pkg/kafka"
	"github.com/shinnycodez/Hiba/pkg/logger"
)

// Kafka topics for storefront domain events.
var (
	TopicCartUpdated = pkgkafka.Topic("cart", "updated")
	TopicCartCleared = pkgkafka.Topic("cart", "cleared")
	TopicBuyNow      = pkgkafka.Topic("checkout", "buynow")
)

const (
	aggregateTypeCart = "cart"
	sourceService     = "hiba-storefront"
)

// EventWriter is the transport envelopes are published through. The
// kafka producer satisfies it; tests substitute a capture.
type EventWriter interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string            `json:"session_id"`
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  float64           `json:"subtotal"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// BuyNowData is the payload for a checkout.buynow event.
type BuyNowData struct {
	SessionID string            `json:"session_id"`
	Item      domain.BuyNowItem `json:"item"`
}

// Producer publishes storefront domain events.
type Producer struct {
	writer EventWriter
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(writer EventWriter, logger *slog.Logger) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event after a cart mutation.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, items []domain.CartItem) error {
	data := CartUpdatedData{
		SessionID: sessionID,
		Items:     items,
		ItemCount: domain.ItemCount(items),
		Subtotal:  domain.Subtotal(items),
	}

	event, err := p.newEvent(ctx, TopicCartUpdated, sessionID, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.writer.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	event, err := p.newEvent(ctx, TopicCartCleared, sessionID, CartClearedData{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.writer.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)
	return nil
}

// PublishBuyNow publishes a checkout.buynow event when the fast path
// stores an ephemeral record.
func (p *Producer) PublishBuyNow(ctx context.Context, sessionID string, item domain.BuyNowItem) error {
	event, err := p.newEvent(ctx, TopicBuyNow, sessionID, BuyNowData{SessionID: sessionID, Item: item})
	if err != nil {
		return fmt.Errorf("create checkout.buynow event: %w", err)
	}

	if err := p.writer.Publish(ctx, TopicBuyNow, event); err != nil {
		return fmt.Errorf("publish checkout.buynow event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.buynow event",
		slog.String("session_id", sessionID),
		slog.String("product_id", item.ProductID),
	)
	return nil
}

// newEvent builds the envelope and carries the request's correlation id
// into it so downstream consumers can join events to request logs.
func (p *Producer) newEvent(ctx context.Context, eventType, sessionID string, data any) (*pkgkafka.Event, error) {
	event, err := pkgkafka.NewEvent(eventType, sessionID, aggregateTypeCart, sourceService, data)
	if err != nil {
		return nil, err
	}
	event.CorrelationID = logger.CorrelationIDFromContext(ctx)
	return event, nil
}
