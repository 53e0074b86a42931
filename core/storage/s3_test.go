package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"dms-storage/core/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 implements storage.S3API with overridable calls.
type fakeS3 struct {
	headBucket    func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error)
	createBucket  func(*s3.CreateBucketInput) (*s3.CreateBucketOutput, error)
	deleteBucket  func(*s3.DeleteBucketInput) (*s3.DeleteBucketOutput, error)
	listObjects   func(*s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)
	deleteObjects func(*s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error)
	getObject     func(*s3.GetObjectInput) (*s3.GetObjectOutput, error)
	putObject     func(*s3.PutObjectInput) (*s3.PutObjectOutput, error)
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return f.headBucket(in)
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	return f.createBucket(in)
}

func (f *fakeS3) DeleteBucket(_ context.Context, in *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	return f.deleteBucket(in)
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return f.listObjects(in)
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	return f.deleteObjects(in)
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return f.getObject(in)
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return f.putObject(in)
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart upload not expected")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not expected")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not expected")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload not expected")
}

func statusError(code int) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: code}},
			Err:      errors.New(http.StatusText(code)),
		},
	}
}

func TestS3Backend_HeadBucket(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		err   error
		state storage.BucketState
	}{
		{"Exists", nil, storage.BucketExists},
		{"NotFoundType", &types.NotFound{}, storage.BucketNotFound},
		{"NotFoundStatus", statusError(404), storage.BucketNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeS3{headBucket: func(in *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
				assert.Equal(t, "docs", aws.ToString(in.Bucket))
				return &s3.HeadBucketOutput{}, tt.err
			}}

			state, err := storage.NewS3Backend(api, "https://s3.example.com").HeadBucket(ctx, "docs")
			assert.NoError(t, err)
			assert.Equal(t, tt.state, state)
		})
	}

	t.Run("AccessDenied", func(t *testing.T) {
		api := &fakeS3{headBucket: func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}
		}}

		state, err := storage.NewS3Backend(api, "https://s3.example.com").HeadBucket(ctx, "docs")
		assert.Equal(t, storage.BucketUnknown, state)

		var re *storage.ResponseError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "AccessDenied", re.Code)
		assert.Equal(t, "Access Denied", re.Message)
	})

	t.Run("Unreachable", func(t *testing.T) {
		api := &fakeS3{headBucket: func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
			return nil, &smithy.OperationError{
				ServiceID:     "S3",
				OperationName: "HeadBucket",
				Err:           &smithyhttp.RequestSendError{Err: errors.New("dial tcp: connection refused")},
			}
		}}

		state, err := storage.NewS3Backend(api, "https://s3.example.com").HeadBucket(ctx, "docs")
		assert.Equal(t, storage.BucketUnknown, state)

		var ce *storage.ConnectError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "https://s3.example.com", ce.Endpoint)
	})
}

func TestS3Backend_CreateBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("LocationConstraint", func(t *testing.T) {
		var got *s3.CreateBucketInput
		api := &fakeS3{createBucket: func(in *s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
			got = in
			return &s3.CreateBucketOutput{Location: aws.String("http://docs.s3.amazonaws.com/")}, nil
		}}

		info, err := storage.NewS3Backend(api, "").CreateBucket(ctx, "docs", "eu-west-1")
		require.NoError(t, err)
		require.NotNil(t, got.CreateBucketConfiguration)
		assert.Equal(t, types.BucketLocationConstraint("eu-west-1"), got.CreateBucketConfiguration.LocationConstraint)
		assert.Equal(t, "http://docs.s3.amazonaws.com/", info.Location)
		assert.Equal(t, "eu-west-1", info.Region)
	})

	t.Run("NoRegion", func(t *testing.T) {
		var got *s3.CreateBucketInput
		api := &fakeS3{createBucket: func(in *s3.CreateBucketInput) (*s3.CreateBucketOutput, error) {
			got = in
			return &s3.CreateBucketOutput{}, nil
		}}

		_, err := storage.NewS3Backend(api, "").CreateBucket(ctx, "docs", "")
		require.NoError(t, err)
		assert.Nil(t, got.CreateBucketConfiguration)
	})
}

func TestS3Backend_ListKeys(t *testing.T) {
	pages := map[string]*s3.ListObjectsV2Output{
		"": {
			Contents:              []types.Object{{Key: aws.String("a")}, {Key: aws.String("b")}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("page-2"),
		},
		"page-2": {
			Contents:    []types.Object{{Key: aws.String("c")}},
			IsTruncated: aws.Bool(false),
		},
	}

	t.Run("Paginates", func(t *testing.T) {
		calls := 0
		api := &fakeS3{listObjects: func(in *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
			calls++
			return pages[aws.ToString(in.ContinuationToken)], nil
		}}

		var got []string
		for key, err := range storage.NewS3Backend(api, "").ListKeys(context.Background(), "docs", 0) {
			require.NoError(t, err)
			got = append(got, key)
		}
		assert.Equal(t, []string{"a", "b", "c"}, got)
		assert.Equal(t, 2, calls)
	})

	t.Run("Limit", func(t *testing.T) {
		calls := 0
		api := &fakeS3{listObjects: func(in *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
			calls++
			assert.Equal(t, int32(1), aws.ToInt32(in.MaxKeys))
			return pages[aws.ToString(in.ContinuationToken)], nil
		}}

		var got []string
		for key, err := range storage.NewS3Backend(api, "").ListKeys(context.Background(), "docs", 1) {
			require.NoError(t, err)
			got = append(got, key)
		}
		assert.Equal(t, []string{"a"}, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("Error", func(t *testing.T) {
		api := &fakeS3{listObjects: func(*s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
			return nil, &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}
		}}

		var errs []error
		for _, err := range storage.NewS3Backend(api, "").ListKeys(context.Background(), "docs", 0) {
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		var re *storage.ResponseError
		assert.ErrorAs(t, errs[0], &re)
	})
}

func TestS3Backend_DeleteObjects(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var got *s3.DeleteObjectsInput
		api := &fakeS3{deleteObjects: func(in *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
			got = in
			return &s3.DeleteObjectsOutput{}, nil
		}}

		err := storage.NewS3Backend(api, "").DeleteObjects(context.Background(), "docs", []string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, got.Delete.Objects, 2)
		assert.Equal(t, "a", aws.ToString(got.Delete.Objects[0].Key))
		assert.Equal(t, "b", aws.ToString(got.Delete.Objects[1].Key))
		assert.True(t, aws.ToBool(got.Delete.Quiet))
	})

	t.Run("KeyFailures", func(t *testing.T) {
		api := &fakeS3{deleteObjects: func(*s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
			return &s3.DeleteObjectsOutput{Errors: []types.Error{
				{Key: aws.String("b"), Code: aws.String("AccessDenied"), Message: aws.String("Access Denied")},
			}}, nil
		}}

		err := storage.NewS3Backend(api, "").DeleteObjects(context.Background(), "docs", []string{"a", "b"})

		var pde *storage.PartialDeleteError
		require.ErrorAs(t, err, &pde)
		assert.Equal(t, []storage.KeyError{{Key: "b", Code: "AccessDenied", Message: "Access Denied"}}, pde.Errors)
	})
}

func TestS3Backend_Objects(t *testing.T) {
	ctx := context.Background()

	t.Run("Put", func(t *testing.T) {
		var body []byte
		api := &fakeS3{putObject: func(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			assert.Equal(t, "docs", aws.ToString(in.Bucket))
			assert.Equal(t, "a.txt", aws.ToString(in.Key))
			var err error
			body, err = io.ReadAll(in.Body)
			return &s3.PutObjectOutput{}, err
		}}

		err := storage.NewS3Backend(api, "").PutObject(ctx, "docs", "a.txt", strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
	})

	t.Run("Get", func(t *testing.T) {
		api := &fakeS3{getObject: func(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "a.txt", aws.ToString(in.Key))
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("hello"))}, nil
		}}

		var buf bytes.Buffer
		err := storage.NewS3Backend(api, "").GetObject(ctx, "docs", "a.txt", &buf)
		require.NoError(t, err)
		assert.Equal(t, "hello", buf.String())
	})

	t.Run("DeleteBucket", func(t *testing.T) {
		api := &fakeS3{deleteBucket: func(*s3.DeleteBucketInput) (*s3.DeleteBucketOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "BucketNotEmpty", Message: "The bucket you tried to delete is not empty"}
		}}

		err := storage.NewS3Backend(api, "").DeleteBucket(ctx, "docs")
		var re *storage.ResponseError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "BucketNotEmpty", re.Code)
	})
}
