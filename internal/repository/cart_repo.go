package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/domain/entity"
)

// CartRepository persists the single cart snapshot. Load returns an empty
// cart when nothing was stored and ErrMalformedSnapshot when the stored
// value cannot be decoded.
type CartRepository interface {
	Load(ctx context.Context) (entity.Cart, error)
	Save(ctx context.Context, cart entity.Cart) error
	Clear(ctx context.Context) error
}
