package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
)

const DefaultCartKey = "@GoShopp:products"

type cartRepository struct {
	store repository.KVStore
	key   string
}

// NewCartRepository mirrors the cart into store under a single key.
func NewCartRepository(store repository.KVStore, key string) repository.CartRepository {
	if key == "" {
		key = DefaultCartKey
	}
	return &cartRepository{
		store: store,
		key:   key,
	}
}

func (r *cartRepository) Load(ctx context.Context) (entity.Cart, error) {
	val, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.NewCart(), nil
		}
		return entity.Cart{}, fmt.Errorf("failed to read cart under key %s: %w", r.key, err)
	}

	cart, err := entity.UnmarshalCart([]byte(val))
	if err != nil {
		return entity.Cart{}, fmt.Errorf("%w: key %s: %v", repository.ErrMalformedSnapshot, r.key, err)
	}
	return cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart entity.Cart) error {
	data, err := entity.MarshalCart(cart)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to save cart under key %s: %w", r.key, err)
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, r.key); err != nil {
		return fmt.Errorf("failed to clear cart under key %s: %w", r.key, err)
	}
	return nil
}
