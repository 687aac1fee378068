package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type kvStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewKVStore keeps one document per key, using the key as _id.
func NewKVStore(client *mongo.Client, cfg config.MongoDBConfig) repository.KVStore {
	return &kvStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}
}

func (s *kvStore) Get(ctx context.Context, key string) (string, error) {
	var doc kvDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", repository.ErrNotFound
		}
		if errors.Is(err, mongo.ErrClientDisconnected) {
			return "", repository.ErrStoreClosed
		}
		return "", fmt.Errorf("failed to find key %s in mongodb: %w", key, err)
	}
	return doc.Value, nil
}

func (s *kvStore) Set(ctx context.Context, key, value string) error {
	doc := kvDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert key %s in mongodb: %w", key, err)
	}
	return nil
}

func (s *kvStore) Remove(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to delete key %s from mongodb: %w", key, err)
	}
	return nil
}

func (s *kvStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
