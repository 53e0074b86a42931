package mocks

import (
	"context"
	"io"
	"iter"

	"dms-storage/core/storage"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of storage.Backend
type Backend struct {
	mock.Mock
}

func (m *Backend) Endpoint() string {
	args := m.Called()
	return args.String(0)
}

func (m *Backend) HeadBucket(ctx context.Context, bucket string) (storage.BucketState, error) {
	args := m.Called(ctx, bucket)
	return args.Get(0).(storage.BucketState), args.Error(1)
}

func (m *Backend) CreateBucket(ctx context.Context, bucket, region string) (storage.BucketInfo, error) {
	args := m.Called(ctx, bucket, region)
	return args.Get(0).(storage.BucketInfo), args.Error(1)
}

func (m *Backend) DeleteBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *Backend) ListKeys(ctx context.Context, bucket string, limit int) iter.Seq2[string, error] {
	args := m.Called(ctx, bucket, limit)
	if seq, ok := args.Get(0).(iter.Seq2[string, error]); ok {
		return seq
	}
	return func(yield func(string, error) bool) {}
}

func (m *Backend) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	args := m.Called(ctx, bucket, keys)
	return args.Error(0)
}

func (m *Backend) PutObject(ctx context.Context, bucket, key string, r io.Reader) error {
	args := m.Called(ctx, bucket, key, r)
	return args.Error(0)
}

func (m *Backend) GetObject(ctx context.Context, bucket, key string, w io.Writer) error {
	args := m.Called(ctx, bucket, key, w)
	if fn, ok := args.Get(0).(func(io.Writer) error); ok {
		return fn(w)
	}
	return args.Error(0)
}

// Keys returns a sequence yielding keys, then err when it is not nil.
func Keys(err error, keys ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, k := range keys {
			if !yield(k, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}
