package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultMinioEndpoint = "s3.amazonaws.com"

// MinioClient is the subset of *minio.Client the minio backend relies on.
type MinioClient interface {
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// MakeBucket creates a new bucket.
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	// RemoveBucket deletes an empty bucket.
	RemoveBucket(ctx context.Context, bucketName string) error
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// GetObject downloads an object.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	// ListObjects lists objects in a bucket.
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	// RemoveObjects deletes multiple objects from a bucket.
	// objectsCh is a channel of object names to delete.
	RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError
}

// NewMinioClient creates a new Minio client based on the configuration.
func NewMinioClient(cfg Config) (MinioClient, error) {
	endpoint, secure := minioEndpoint(cfg.Host)

	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	lookup := minio.BucketLookupAuto
	if cfg.UsePathStyle {
		lookup = minio.BucketLookupPath
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		Transport:    transport,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	// Minio connects lazily; the first bucket call is what reaches the endpoint.

	return &minioClientWrapper{Client: minioClient}, nil
}

// minioEndpoint splits a scheme-qualified host into the bare endpoint minio
// expects and whether TLS is used.
func minioEndpoint(host string) (string, bool) {
	if host == "" {
		return defaultMinioEndpoint, true
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return host, true
	}
	return u.Host, u.Scheme != "http"
}

type minioClientWrapper struct {
	*minio.Client
}

func (c *minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

// MinioBackend implements Backend on top of minio-go.
type MinioBackend struct {
	client   MinioClient
	endpoint string
}

// NewMinioBackend wraps client. endpoint is only used in error reports.
func NewMinioBackend(client MinioClient, endpoint string) *MinioBackend {
	return &MinioBackend{client: client, endpoint: endpoint}
}

func (b *MinioBackend) Endpoint() string {
	return b.endpoint
}

// HeadBucket relies on minio translating NoSuchBucket into (false, nil).
func (b *MinioBackend) HeadBucket(ctx context.Context, bucket string) (BucketState, error) {
	exists, err := b.client.BucketExists(ctx, bucket)
	if err != nil {
		mapped := b.mapError(err)
		var re *ResponseError
		if errors.As(mapped, &re) && re.StatusCode == http.StatusNotFound {
			return BucketNotFound, nil
		}
		return BucketUnknown, mapped
	}
	if !exists {
		return BucketNotFound, nil
	}
	return BucketExists, nil
}

func (b *MinioBackend) CreateBucket(ctx context.Context, bucket, region string) (BucketInfo, error) {
	if err := b.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return BucketInfo{}, b.mapError(err)
	}
	return BucketInfo{Name: bucket, Region: region}, nil
}

func (b *MinioBackend) DeleteBucket(ctx context.Context, bucket string) error {
	if err := b.client.RemoveBucket(ctx, bucket); err != nil {
		return b.mapError(err)
	}
	return nil
}

func (b *MinioBackend) ListKeys(ctx context.Context, bucket string, limit int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		// Cancelling stops minio's listing goroutine when the caller stops early.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		opts := minio.ListObjectsOptions{Recursive: true}
		if limit > 0 {
			opts.MaxKeys = limit
		}

		n := 0
		for obj := range b.client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				yield("", b.mapError(obj.Err))
				return
			}
			if !yield(obj.Key, nil) {
				return
			}
			n++
			if limit > 0 && n >= limit {
				return
			}
		}
	}
}

func (b *MinioBackend) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var failed []KeyError
	var firstErr error
	for rErr := range b.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = rErr.Err
		}
		resp := minio.ToErrorResponse(rErr.Err)
		failed = append(failed, KeyError{Key: rErr.ObjectName, Code: resp.Code, Message: rErr.Err.Error()})
	}
	if len(failed) == 0 {
		return nil
	}
	// A transport failure fails every key of the request; report it as such.
	var ce *ConnectError
	if mapped := b.mapError(firstErr); errors.As(mapped, &ce) {
		return ce
	}
	return &PartialDeleteError{Errors: failed}
}

func (b *MinioBackend) PutObject(ctx context.Context, bucket, key string, r io.Reader) error {
	size, err := remaining(r)
	if err != nil {
		return err
	}
	_, err = b.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{})
	return err
}

// remaining returns the number of unread bytes of r, or -1 when r cannot
// tell. Without a size minio buffers every part at its maximum size.
func remaining(r io.Reader) (int64, error) {
	if l, ok := r.(interface{ Len() int }); ok {
		return int64(l.Len()), nil
	}
	s, ok := r.(io.Seeker)
	if !ok {
		return -1, nil
	}
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		// Pipes and terminals do not seek.
		return -1, nil
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return -1, nil
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to rewind upload body: %w", err)
	}
	return end - cur, nil
}

func (b *MinioBackend) GetObject(ctx context.Context, bucket, key string, w io.Writer) error {
	obj, err := b.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	_, err = io.Copy(w, obj)
	return err
}

// mapError classifies a minio error as remote-reported or connectivity.
func (b *MinioBackend) mapError(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && (resp.StatusCode != 0 || resp.Code != "") {
		return &ResponseError{Code: resp.Code, StatusCode: resp.StatusCode, Message: resp.Message, Err: err}
	}
	if isConnectError(err) {
		return &ConnectError{Endpoint: b.endpoint, Err: err}
	}
	return err
}

// isConnectError reports transport failures that never produced a response.
func isConnectError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
