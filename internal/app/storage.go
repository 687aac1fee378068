package app

import (
	"context"
	"fmt"

	fileadapter "github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/file"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/memory"
	mongoadapter "github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/mongo"
	redisadapter "github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/redis"
	s3adapter "github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/s3"
	sqliteadapter "github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/sqlite"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
)

// newKVStore opens the durable store selected by cfg.Driver. The returned
// store owns its client; closing it releases the connection.
func newKVStore(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (repository.KVStore, error) {
	log.Infof("Initializing %s storage backend...", cfg.Driver)

	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("Memory storage is not durable; the cart is lost on restart")
		return memory.NewKVStore(), nil

	case config.DriverFile:
		store, err := fileadapter.NewKVStore(cfg.File.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file storage: %w", err)
		}
		return store, nil

	case config.DriverSQLite:
		store, err := sqliteadapter.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return store, nil

	case config.DriverRedis:
		client, err := redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		return redisadapter.NewKVStore(client, cfg.Redis.TTL), nil

	case config.DriverMongo:
		client, err := mongoadapter.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
		}
		return mongoadapter.NewKVStore(client, cfg.Mongo), nil

	case config.DriverS3:
		store, err := s3adapter.NewKVStore(ctx, cfg.S3, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
