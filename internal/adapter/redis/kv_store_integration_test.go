//go:build integration

package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/kvtest"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/app/config"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var testRedisAddr string

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start Redis resource: %s", err)
	}
	testRedisAddr = resource.GetHostPort("6379/tcp")

	if err := pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
		defer client.Close()
		return client.Ping(context.Background()).Err()
	}); err != nil {
		log.Fatalf("Could not connect to Redis: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		fmt.Printf("Could not purge Redis resource: %s\n", err)
	}
	os.Exit(code)
}

func TestKVStore_Contract(t *testing.T) {
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: testRedisAddr})
	require.NoError(t, err)

	store := NewKVStore(client, 0)
	t.Cleanup(func() { _ = store.Close() })

	kvtest.RunContract(t, store)
}

func TestNewClient_Unreachable(t *testing.T) {
	_, err := NewClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}
