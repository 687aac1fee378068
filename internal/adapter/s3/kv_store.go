package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const contentType = "application/json"

// KVStore keeps each key as one object in an S3-compatible bucket.
type KVStore struct {
	client *minio.Client
	bucket string
	prefix string
	logger logger.Logger
}

func NewKVStore(ctx context.Context, cfg config.S3Config, log logger.Logger) (*KVStore, error) {
	log.Infof("Initializing S3 KV store: endpoint=%s bucket=%s use_ssl=%t", cfg.Endpoint, cfg.Bucket, cfg.UseSSL)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("%w: failed to make/verify bucket %s: (make: %v / exists_check: %v)",
				repository.ErrConnectionFailed, cfg.Bucket, err, errBucketExists)
		}
		log.Debugf("S3 bucket %s already exists", cfg.Bucket)
	}

	return &KVStore{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: log,
	}, nil
}

func (s *KVStore) objectKey(key string) string {
	return s.prefix + key
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return "", s.mapErr("get", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", s.mapErr("read", key, err)
	}
	return string(data), nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(key), strings.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return s.mapErr("put", key, err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.objectKey(key), minio.RemoveObjectOptions{}); err != nil {
		return s.mapErr("remove", key, err)
	}
	return nil
}

// Close is a no-op: the minio client holds no long-lived connection.
func (s *KVStore) Close() error {
	return nil
}

func (s *KVStore) mapErr(op, key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return repository.ErrNotFound
	}
	s.logger.Debugf("S3 %s failed for key %s: %v", op, key, err)
	return fmt.Errorf("failed to %s object for key %s: %w", op, key, err)
}
