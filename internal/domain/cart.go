package domain

import "time"

// CartItem is one line of a cart. Title, price, and image are copied from
// the product at the moment of addition so totals and history stay stable
// even if the source product changes later. ProductID is a weak reference
// into the remote store and may dangle.
type CartItem struct {
	ID        string    `json:"id" validate:"required"`
	ProductID string    `json:"productId" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Price     float64   `json:"price" validate:"gte=0"`
	Image     string    `json:"image"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	Variation string    `json:"variation,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BuyNowItem has the shape of a cart line but lives in a single-slot
// ephemeral record. It is never merged into the cart; the downstream
// checkout flow reads and clears it.
type BuyNowItem struct {
	ID        string    `json:"id" validate:"required"`
	ProductID string    `json:"productId" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Price     float64   `json:"price" validate:"gte=0"`
	Image     string    `json:"image"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	Variation string    `json:"variation,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FindLineIndex returns the index of the line matching the (productID,
// variation) identity key, or -1 if no line matches.
func FindLineIndex(items []CartItem, productID, variation string) int {
	for i := range items {
		if items[i].ProductID == productID && items[i].Variation == variation {
			return i
		}
	}
	return -1
}

// Consolidate merges a new line into the cart. A line with the same
// (productID, variation) identity has its quantity incremented; its
// identifier, price snapshot, and createdAt keep their first-seen values.
// Otherwise the line is appended. The input slice is not modified.
func Consolidate(items []CartItem, line CartItem) []CartItem {
	next := make([]CartItem, len(items))
	copy(next, items)

	if i := FindLineIndex(next, line.ProductID, line.Variation); i >= 0 {
		next[i].Quantity += line.Quantity
		return next
	}
	return append(next, line)
}

// Subtotal returns the sum of price times quantity over all lines.
func Subtotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount returns the total quantity across all lines.
func ItemCount(items []CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
