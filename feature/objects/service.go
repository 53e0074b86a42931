package objects

import (
	"context"
	"io"

	"dms-storage/core/storage"

	"go.uber.org/zap"
)

// Service runs key enumeration, object transfer and bulk deletion on a storage connection.
type Service struct {
	conn   *storage.Connection
	logger *zap.Logger
}

// NewService creates a new objects service.
func NewService(conn *storage.Connection, logger *zap.Logger) *Service {
	return &Service{conn: conn, logger: logger}
}

// Keys collects every key in bucket.
func (s *Service) Keys(ctx context.Context, bucket string) ([]string, error) {
	keys := []string{}
	for key, err := range s.conn.Keys(ctx, bucket) {
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Upload stores the bytes of r under key.
func (s *Service) Upload(ctx context.Context, bucket, key string, r io.Reader) error {
	return s.conn.Upload(ctx, r, bucket, key)
}

// Download writes the bytes of key to w.
func (s *Service) Download(ctx context.Context, bucket, key string, w io.Writer) error {
	return s.conn.Download(ctx, bucket, key, w)
}

// Delete removes keys in chunks of storage.MaxDeleteKeys.
func (s *Service) Delete(ctx context.Context, bucket string, keys []string) error {
	if err := s.conn.DeleteObjectKeys(ctx, bucket, keys...); err != nil {
		return err
	}
	s.logger.Info("Objects deleted", zap.String("bucket", bucket), zap.Int("count", len(keys)))
	return nil
}
