package storage

import (
	"context"
	"io"
	"iter"
)

// BucketState is the outcome of a bucket existence probe.
type BucketState int

const (
	// BucketUnknown means the probe failed; an error accompanies it.
	BucketUnknown BucketState = iota
	// BucketExists means the remote answered the probe successfully.
	BucketExists
	// BucketNotFound means the remote reported the bucket as missing.
	BucketNotFound
)

func (s BucketState) String() string {
	switch s {
	case BucketExists:
		return "exists"
	case BucketNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// BucketInfo is the metadata returned by the backend on bucket creation.
type BucketInfo struct {
	Name     string `json:"name"`
	Region   string `json:"region,omitempty"`
	Location string `json:"location,omitempty"`
}

// Backend is the driver-specific side of a Connection. Implementations map
// SDK errors once at this boundary: remote-reported failures become
// *ResponseError and unreachable endpoints become *ConnectError.
type Backend interface {
	// Endpoint returns the host the backend talks to.
	Endpoint() string
	// HeadBucket probes a bucket without fetching its contents.
	HeadBucket(ctx context.Context, bucket string) (BucketState, error)
	// CreateBucket creates a bucket. A non-empty region is sent as location constraint.
	CreateBucket(ctx context.Context, bucket, region string) (BucketInfo, error)
	// DeleteBucket removes an empty bucket.
	DeleteBucket(ctx context.Context, bucket string) error
	// ListKeys lists object keys lazily. A limit of zero lists every key.
	ListKeys(ctx context.Context, bucket string, limit int) iter.Seq2[string, error]
	// DeleteObjects removes at most MaxDeleteKeys keys in one request.
	DeleteObjects(ctx context.Context, bucket string, keys []string) error
	// PutObject uploads the bytes of r to key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader) error
	// GetObject writes the bytes of key to w.
	GetObject(ctx context.Context, bucket, key string, w io.Writer) error
}
