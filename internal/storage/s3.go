// Package storage persists the watcher's state object in S3.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNotFound reports that the state object does not exist yet. Callers
// treat this as first-run, not as a failure.
var ErrNotFound = errors.New("state object not found")

// ObjectStore reads and writes the single waitlist state object.
type ObjectStore interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
}

// S3Store implements ObjectStore against one bucket/key pair.
type S3Store struct {
	client *s3.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewS3Store creates a store bound to one object.
func NewS3Store(client *s3.Client, bucket, key string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

// Get returns the object's bytes, or ErrNotFound if it has never been
// written.
func (s *S3Store) Get(ctx context.Context) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, s.key)
		}
		return nil, fmt.Errorf("failed to get object %q from bucket %q: %w", s.key, s.bucket, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q body: %w", s.key, err)
	}

	s.logger.DebugContext(ctx, "got state object",
		slog.String("bucket", s.bucket),
		slog.String("key", s.key),
		slog.Int("bytes", len(data)),
	)
	return data, nil
}

// Put writes the object, replacing any previous version.
func (s *S3Store) Put(ctx context.Context, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %q to bucket %q: %w", s.key, s.bucket, err)
	}

	s.logger.InfoContext(ctx, "put state object",
		slog.String("bucket", s.bucket),
		slog.String("key", s.key),
		slog.Int("bytes", len(data)),
	)
	return nil
}
