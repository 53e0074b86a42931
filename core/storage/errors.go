package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when neither access key nor secret key is configured.
	ErrMissingCredentials = errors.New("storage credentials are not configured")
	// ErrPartialCredentials is returned when only one of access key and secret key is configured.
	ErrPartialCredentials = errors.New("storage credentials are incomplete")
	// ErrUnknownDriver is returned for an unsupported storage_driver value.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

const credentialsHelp = "If you want to read from the S3 buckets, the following " +
	"environment variables must be set:\n" +
	"* AWS_ACCESS_KEY_ID\n" +
	"* AWS_SECRET_ACCESS_KEY\n" +
	"Optionally, the S3 host and region can be changed with:\n" +
	"* AWS_HOST\n" +
	"* AWS_REGION\n"

// ConfigError reports a connection that cannot be built from the configuration.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// BucketAlreadyExistsError is returned when creating a bucket that already exists.
type BucketAlreadyExistsError struct {
	Bucket string
}

func (e *BucketAlreadyExistsError) Error() string {
	return fmt.Sprintf("bucket %s already exists within your cloud provider", e.Bucket)
}

// NonEmptyBucketError is returned when deleting a bucket that still holds objects.
type NonEmptyBucketError struct {
	Bucket string
}

func (e *NonEmptyBucketError) Error() string {
	return fmt.Sprintf("bucket %s is not empty", e.Bucket)
}

// ResponseError is an error reported by the remote service.
type ResponseError struct {
	Code       string
	StatusCode int
	Message    string
	Err        error
}

func (e *ResponseError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("remote error (status %d)", e.StatusCode)
	}
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// ConnectError reports an endpoint that could not be reached.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("could not connect to the endpoint URL %q: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// UserError is a failure meant to be shown to an end user. Its message never
// carries low-level transport detail; the wrapped error does.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// KeyError describes a single key the backend refused to delete.
type KeyError struct {
	Key     string
	Code    string
	Message string
}

// PartialDeleteError is returned when a multi-delete request succeeded but
// the backend reported failures for some of its keys.
type PartialDeleteError struct {
	Errors []KeyError
}

func (e *PartialDeleteError) Error() string {
	if len(e.Errors) == 0 {
		return "delete objects: no keys failed"
	}
	first := e.Errors[0]
	return fmt.Sprintf("delete objects: %d keys failed, first %q: %s %s", len(e.Errors), first.Key, first.Code, first.Message)
}

// DeleteChunkError reports the chunk at which a bulk delete stopped.
// Chunks before it were deleted; chunks after it were not attempted.
type DeleteChunkError struct {
	Chunk  int
	Offset int
	Size   int
	Err    error
}

func (e *DeleteChunkError) Error() string {
	return fmt.Sprintf("delete chunk %d (keys %d-%d) failed: %v", e.Chunk, e.Offset, e.Offset+e.Size-1, e.Err)
}

func (e *DeleteChunkError) Unwrap() error {
	return e.Err
}
