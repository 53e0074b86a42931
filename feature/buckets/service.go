package buckets

import (
	"context"

	"dms-storage/core/storage"

	"go.uber.org/zap"
)

// Service runs bucket lifecycle operations on a storage connection.
type Service struct {
	conn     *storage.Connection
	resolver storage.Resolver
	logger   *zap.Logger
}

// NewService creates a new buckets service.
func NewService(conn *storage.Connection, resolver storage.Resolver, logger *zap.Logger) *Service {
	return &Service{
		conn:     conn,
		resolver: resolver,
		logger:   logger,
	}
}

// Name derives the bucket name for storageName.
func (s *Service) Name(storageName, prefix string) string {
	return storage.BucketName(s.resolver, storageName, prefix)
}

// State probes bucket.
func (s *Service) State(ctx context.Context, bucket string) (storage.BucketState, error) {
	return s.conn.BucketState(ctx, bucket)
}

// Create creates bucket in the configured region.
func (s *Service) Create(ctx context.Context, bucket string) (storage.BucketInfo, error) {
	info, err := s.conn.CreateBucket(ctx, bucket)
	if err != nil {
		return storage.BucketInfo{}, err
	}
	s.logger.Info("Bucket created", zap.String("bucket", info.Name), zap.String("region", info.Region))
	return info, nil
}

// Delete removes bucket when it holds no keys.
func (s *Service) Delete(ctx context.Context, bucket string) error {
	if err := s.conn.DeleteBucket(ctx, bucket); err != nil {
		return err
	}
	s.logger.Info("Bucket deleted", zap.String("bucket", bucket))
	return nil
}
