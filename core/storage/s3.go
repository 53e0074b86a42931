package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// The SDK cannot sign requests without a region.
const defaultS3Region = "us-east-1"

// S3API is the subset of *s3.Client the s3 backend relies on. It embeds the
// uploader and paginator client interfaces so tests can fake the whole surface.
type S3API interface {
	manager.UploadAPIClient
	s3.ListObjectsV2APIClient
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an aws-sdk-go-v2 S3 client. Only the settings present
// in cfg are applied; the rest come from the SDK's default chain.
func NewS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Host != "" {
			o.BaseEndpoint = aws.String(cfg.Host)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return client, nil
}

// S3Backend implements Backend on top of aws-sdk-go-v2.
type S3Backend struct {
	api      S3API
	uploader *manager.Uploader
	endpoint string
}

// NewS3Backend wraps api. endpoint is only used in error reports.
func NewS3Backend(api S3API, endpoint string) *S3Backend {
	return &S3Backend{
		api:      api,
		uploader: manager.NewUploader(api),
		endpoint: endpoint,
	}
}

func (b *S3Backend) Endpoint() string {
	return b.endpoint
}

func (b *S3Backend) HeadBucket(ctx context.Context, bucket string) (BucketState, error) {
	_, err := b.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return BucketExists, nil
	}
	if isS3NotFound(err) {
		return BucketNotFound, nil
	}
	return BucketUnknown, b.mapError(err)
}

func (b *S3Backend) CreateBucket(ctx context.Context, bucket, region string) (BucketInfo, error) {
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if region != "" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}
	out, err := b.api.CreateBucket(ctx, input)
	if err != nil {
		return BucketInfo{}, b.mapError(err)
	}
	return BucketInfo{Name: bucket, Region: region, Location: aws.ToString(out.Location)}, nil
}

func (b *S3Backend) DeleteBucket(ctx context.Context, bucket string) error {
	if _, err := b.api.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return b.mapError(err)
	}
	return nil
}

func (b *S3Backend) ListKeys(ctx context.Context, bucket string, limit int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
		if limit > 0 && limit <= MaxDeleteKeys {
			input.MaxKeys = aws.Int32(int32(limit))
		}

		n := 0
		paginator := s3.NewListObjectsV2Paginator(b.api, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield("", b.mapError(err))
				return
			}
			for _, obj := range page.Contents {
				if !yield(aws.ToString(obj.Key), nil) {
					return
				}
				n++
				if limit > 0 && n >= limit {
					return
				}
			}
		}
	}
}

func (b *S3Backend) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := b.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return b.mapError(err)
	}
	if len(out.Errors) == 0 {
		return nil
	}

	failed := make([]KeyError, 0, len(out.Errors))
	for _, e := range out.Errors {
		failed = append(failed, KeyError{
			Key:     aws.ToString(e.Key),
			Code:    aws.ToString(e.Code),
			Message: aws.ToString(e.Message),
		})
	}
	return &PartialDeleteError{Errors: failed}
}

func (b *S3Backend) PutObject(ctx context.Context, bucket, key string, r io.Reader) error {
	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	return err
}

func (b *S3Backend) GetObject(ctx context.Context, bucket, key string, w io.Writer) error {
	out, err := b.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	_, err = io.Copy(w, out.Body)
	return err
}

// mapError classifies an SDK error as remote-reported or connectivity.
func (b *S3Backend) mapError(err error) error {
	var sendErr *smithyhttp.RequestSendError
	if errors.As(err, &sendErr) {
		return &ConnectError{Endpoint: b.endpoint, Err: err}
	}

	status := s3StatusCode(err)
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &ResponseError{
			Code:       apiErr.ErrorCode(),
			StatusCode: status,
			Message:    apiErr.ErrorMessage(),
			Err:        err,
		}
	}
	if status != 0 {
		return &ResponseError{StatusCode: status, Err: err}
	}
	return err
}

// isS3NotFound reports the 404 answer of a HeadBucket call. HEAD responses
// carry no body, so the status code is the reliable signal.
func isS3NotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	return s3StatusCode(err) == http.StatusNotFound
}

func s3StatusCode(err error) int {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}
