package file

import (
	"context"
	"os"
	"testing"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/kvtest"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKVStore_RequiresDir(t *testing.T) {
	_, err := NewKVStore("  ")
	assert.Error(t, err)
}

func TestKVStore_RoundTripAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := "@GoShopp:products"

	s, err := NewKVStore(dir)
	require.NoError(t, err)

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Set(ctx, key, `[{"id":"p1"}]`))
	require.NoError(t, s.Set(ctx, key, `[{"id":"p2"}]`))
	require.NoError(t, s.Close())

	reopened, err := NewKVStore(dir)
	require.NoError(t, err)
	val, err := reopened.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"p2"}]`, val)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestKVStore_KeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	s, err := NewKVStore(t.TempDir())
	require.NoError(t, err)

	a, b := uuid.NewString(), uuid.NewString()
	require.NoError(t, s.Set(ctx, a, "A"))
	require.NoError(t, s.Set(ctx, b, "B"))
	require.NoError(t, s.Remove(ctx, a))
	require.NoError(t, s.Remove(ctx, a))

	_, err = s.Get(ctx, a)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	val, err := s.Get(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "B", val)
}

func TestKVStore_Closed(t *testing.T) {
	s, err := NewKVStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Set(context.Background(), "k", "v"), repository.ErrStoreClosed)
}

func TestKVStore_Contract(t *testing.T) {
	s, err := NewKVStore(t.TempDir())
	require.NoError(t, err)
	kvtest.RunContract(t, s)
}
