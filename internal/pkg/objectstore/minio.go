// Package objectstore keeps document content and backup bundles in an
// S3-compatible bucket.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/circuitbreaker"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/pkg/metrics"
)

// Object describes a stored object
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Store is a MinIO bucket guarded by a circuit breaker
type Store struct {
	client *minio.Client
	bucket string
	cb     *circuitbreaker.CircuitBreaker
}

// New connects to MinIO and creates the bucket when it is missing
func New(ctx context.Context, cfg config.MinIOConfig) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("created object store bucket", zap.String("bucket", cfg.Bucket))
	}

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		cb:     newBreaker("minio"),
	}, nil
}

func newBreaker(name string) *circuitbreaker.CircuitBreaker {
	cfg := circuitbreaker.DefaultConfig(name)
	// a missing key says nothing about the health of the store
	cfg.IsFailure = func(err error) bool { return !isNotFound(err) }
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		metrics.SetCircuitState(name, int(to))
		logger.Warn("circuit breaker state changed",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	return circuitbreaker.New(cfg)
}

// Put uploads data under key
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.call(ctx, "put", func() error {
		_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: contentType,
		})
		return err
	})
}

// Get downloads the object stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.call(ctx, "get", func() error {
		obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return err
		}
		defer obj.Close()
		data, err = io.ReadAll(obj)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("object")
		}
		return nil, err
	}
	return data, nil
}

// Delete removes the object stored under key. Missing objects are ignored.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.call(ctx, "delete", func() error {
		return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	})
}

// List returns the objects under prefix, newest first
func (s *Store) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	err := s.call(ctx, "list", func() error {
		for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
			if info.Err != nil {
				return info.Err
			}
			if strings.HasSuffix(info.Key, "/") {
				continue
			}
			out = append(out, Object{Key: info.Key, Size: info.Size, LastModified: info.LastModified})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

// Ping checks that the bucket is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.call(ctx, "ping", func() error {
		_, err := s.client.BucketExists(ctx, s.bucket)
		return err
	})
}

func (s *Store) call(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	err := s.cb.Execute(ctx, fn)
	metrics.RecordObjectStoreCall(op, time.Since(start), err)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		return apperrors.Unavailable("object store").WithError(err)
	case isNotFound(err):
		return err
	default:
		return fmt.Errorf("object store %s failed: %w", op, err)
	}
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}
