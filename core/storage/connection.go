package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"time"

	"go.uber.org/zap"
)

// MaxDeleteKeys is the largest number of keys a single multi-delete request accepts.
const MaxDeleteKeys = 1000

// Operation names reported to the Recorder.
const (
	OpHeadBucket    = "head_bucket"
	OpCreateBucket  = "create_bucket"
	OpDeleteBucket  = "delete_bucket"
	OpListKeys      = "list_keys"
	OpDeleteObjects = "delete_objects"
	OpPutObject     = "put_object"
	OpGetObject     = "get_object"
)

// Recorder observes the outcome of remote calls.
type Recorder interface {
	Observe(op string, start time.Time, err error)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, time.Time, error) {}

// Option configures a Connection.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	backend  Backend
	recorder Recorder
}

// WithLogger sets the logger used for diagnostics. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithBackend uses b instead of building a driver from the configuration.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithRecorder reports every remote call to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// Connection exposes bucket and object operations against one backend.
// It holds no mutable state after construction.
type Connection struct {
	region   string
	backend  Backend
	logger   *zap.Logger
	recorder Recorder
}

// New validates the credentials in cfg and builds a Connection.
func New(ctx context.Context, cfg Config, opts ...Option) (*Connection, error) {
	o := options{logger: zap.NewNop(), recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateCredentials(cfg); err != nil {
		return nil, err
	}

	if cfg.Host != "" {
		o.logger.Debug("aws_host", zap.String("host", cfg.Host))
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = newBackend(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	return &Connection{
		region:   cfg.Region,
		backend:  backend,
		logger:   o.logger,
		recorder: o.recorder,
	}, nil
}

func validateCredentials(cfg Config) error {
	switch {
	case cfg.AccessKey == "" && cfg.SecretKey == "":
		return &ConfigError{Message: credentialsHelp, Err: ErrMissingCredentials}
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return &ConfigError{
			Message: "both AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set\n" + credentialsHelp,
			Err:     ErrPartialCredentials,
		}
	}
	return nil
}

func newBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Driver {
	case "", DriverMinio:
		client, err := NewMinioClient(cfg)
		if err != nil {
			return nil, err
		}
		endpoint, _ := minioEndpoint(cfg.Host)
		return NewMinioBackend(client, endpoint), nil
	case DriverS3:
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Backend(client, cfg.Host), nil
	default:
		return nil, &ConfigError{
			Message: fmt.Sprintf("unknown storage driver %q (expected %q or %q)", cfg.Driver, DriverMinio, DriverS3),
			Err:     ErrUnknownDriver,
		}
	}
}

// Region returns the configured region, or "" when none was set.
func (c *Connection) Region() string {
	return c.region
}

// BucketState probes bucket on every call; nothing is cached.
func (c *Connection) BucketState(ctx context.Context, bucket string) (BucketState, error) {
	start := time.Now()
	state, err := c.backend.HeadBucket(ctx, bucket)
	c.recorder.Observe(OpHeadBucket, start, err)
	if err != nil {
		return BucketUnknown, c.userError(err, bucket)
	}
	return state, nil
}

// BucketExists reports whether bucket exists. A missing bucket is not an error.
func (c *Connection) BucketExists(ctx context.Context, bucket string) (bool, error) {
	state, err := c.BucketState(ctx, bucket)
	if err != nil {
		return false, err
	}
	return state == BucketExists, nil
}

// CreateBucket creates bucket, constrained to the configured region when one is set.
// The existence check and the creation are separate calls and may race a concurrent creator.
func (c *Connection) CreateBucket(ctx context.Context, bucket string) (BucketInfo, error) {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return BucketInfo{}, err
	}
	if exists {
		return BucketInfo{}, &BucketAlreadyExistsError{Bucket: bucket}
	}

	start := time.Now()
	info, err := c.backend.CreateBucket(ctx, bucket, c.region)
	c.recorder.Observe(OpCreateBucket, start, err)
	if err != nil {
		return BucketInfo{}, err
	}
	return info, nil
}

// DeleteBucket removes bucket. Buckets holding at least one key are refused.
func (c *Connection) DeleteBucket(ctx context.Context, bucket string) error {
	start := time.Now()
	var listErr error
	nonEmpty := false
	for _, err := range c.backend.ListKeys(ctx, bucket, 1) {
		listErr = err
		nonEmpty = err == nil
		break
	}
	c.recorder.Observe(OpListKeys, start, listErr)
	if listErr != nil {
		return listErr
	}
	if nonEmpty {
		return &NonEmptyBucketError{Bucket: bucket}
	}

	start = time.Now()
	err := c.backend.DeleteBucket(ctx, bucket)
	c.recorder.Observe(OpDeleteBucket, start, err)
	return err
}

// Keys returns a lazy sequence of every key in bucket. Each iteration lists
// the bucket from the start; a listing failure is yielded as the last element.
func (c *Connection) Keys(ctx context.Context, bucket string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()
		var listErr error
		defer func() { c.recorder.Observe(OpListKeys, start, listErr) }()

		for key, err := range c.backend.ListKeys(ctx, bucket, 0) {
			if err != nil {
				listErr = err
				yield("", err)
				return
			}
			if !yield(key, nil) {
				return
			}
		}
	}
}

// Upload copies the bytes of r to key.
func (c *Connection) Upload(ctx context.Context, r io.Reader, bucket, key string) error {
	start := time.Now()
	err := c.backend.PutObject(ctx, bucket, key, r)
	c.recorder.Observe(OpPutObject, start, err)
	return err
}

// Download writes the bytes of key to w.
func (c *Connection) Download(ctx context.Context, bucket, key string, w io.Writer) error {
	start := time.Now()
	err := c.backend.GetObject(ctx, bucket, key, w)
	c.recorder.Observe(OpGetObject, start, err)
	return err
}

// DeleteObjects deletes keys in consecutive chunks of MaxDeleteKeys, one
// request per chunk, in input order. It stops at the first failing chunk and
// returns a *DeleteChunkError; chunks already sent are not rolled back.
func (c *Connection) DeleteObjects(ctx context.Context, bucket string, keys iter.Seq[string]) error {
	chunk := make([]string, 0, MaxDeleteKeys)
	index, offset := 0, 0

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		start := time.Now()
		err := c.backend.DeleteObjects(ctx, bucket, chunk)
		c.recorder.Observe(OpDeleteObjects, start, err)
		if err != nil {
			c.logger.Warn("Bulk delete stopped",
				zap.String("bucket", bucket),
				zap.Int("chunk", index),
				zap.Int("deleted", offset),
				zap.Error(err),
			)
			return &DeleteChunkError{Chunk: index, Offset: offset, Size: len(chunk), Err: err}
		}
		index++
		offset += len(chunk)
		chunk = make([]string, 0, MaxDeleteKeys)
		return nil
	}

	for key := range keys {
		chunk = append(chunk, key)
		if len(chunk) == MaxDeleteKeys {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// DeleteObjectKeys is DeleteObjects over a slice.
func (c *Connection) DeleteObjectKeys(ctx context.Context, bucket string, keys ...string) error {
	return c.DeleteObjects(ctx, bucket, slices.Values(keys))
}

// userError turns a classified backend error into a *UserError. Connectivity
// failures are logged in full and reported with a short message.
func (c *Connection) userError(err error, bucket string) error {
	var ce *ConnectError
	if errors.As(err, &ce) {
		c.logger.Error("Error during connection on S3",
			zap.String("endpoint", ce.Endpoint),
			zap.String("bucket", bucket),
			zap.Error(ce.Err),
		)
		return &UserError{
			Message: fmt.Sprintf("could not connect to the endpoint URL %q", ce.Endpoint),
			Err:     err,
		}
	}
	return &UserError{Message: err.Error(), Err: err}
}
