package s3

import (
	"context"
	"testing"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestNewKVStore_RejectsBadEndpoint(t *testing.T) {
	_, err := NewKVStore(context.Background(), config.S3Config{Endpoint: "http://bad endpoint", Bucket: "cart"}, logger.NewNop())
	assert.Error(t, err)
}

func TestKVStore_ObjectKeyUsesPrefix(t *testing.T) {
	s := &KVStore{prefix: "kv/"}
	assert.Equal(t, "kv/@GoShopp:products", s.objectKey("@GoShopp:products"))
}
