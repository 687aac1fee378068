//go:build integration

package mongo

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
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testMongoURI string

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=password",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	testMongoURI = fmt.Sprintf("mongodb://root:password@%s/?authSource=admin", resource.GetHostPort("27017/tcp"))

	if err := pool.Retry(func() error {
		client, errRetry := mongo.Connect(context.Background(), options.Client().ApplyURI(testMongoURI))
		if errRetry != nil {
			return errRetry
		}
		defer client.Disconnect(context.Background())
		return client.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		fmt.Printf("Could not purge MongoDB resource: %s\n", err)
	}
	os.Exit(code)
}

func TestKVStore_Contract(t *testing.T) {
	cfg := config.MongoDBConfig{URI: testMongoURI, Database: "cart_store_test", Collection: "kv"}
	client, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)

	store := NewKVStore(client, cfg)
	t.Cleanup(func() { _ = store.Close() })

	kvtest.RunContract(t, store)
}
