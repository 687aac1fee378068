package repository

import "context"

// KVStore is the durable string key-value backend the cart is mirrored into.
// Get returns ErrNotFound when the key holds nothing.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
