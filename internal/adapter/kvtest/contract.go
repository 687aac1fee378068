// Package kvtest holds the behaviour every repository.KVStore backend must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunContract exercises Get/Set/Remove against store using fresh random keys.
func RunContract(t *testing.T, store repository.KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "missing:"+uuid.NewString())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("overwrite keeps last value", func(t *testing.T) {
		key := "@Test:" + uuid.NewString()
		require.NoError(t, store.Set(ctx, key, `[]`))
		require.NoError(t, store.Set(ctx, key, `[{"id":"p1","title":"","image_url":"","price":0,"quantity":1}]`))

		val, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"p1","title":"","image_url":"","price":0,"quantity":1}]`, val)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		key := "@Test:" + uuid.NewString()
		require.NoError(t, store.Set(ctx, key, "v"))
		require.NoError(t, store.Remove(ctx, key))
		require.NoError(t, store.Remove(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
