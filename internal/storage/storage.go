// Package storage provides the key/value port shared by the catalog cache
// and the cart store. Two lifetimes exist: the durable tier survives
// restarts of the browsing context, the session tier expires with it. Both
// tiers speak the same interface so callers choose a lifetime by choosing
// a Store, not an API.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key holds no value.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is a uniform key/value read-write port.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the value stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error
}
