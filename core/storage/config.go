package storage

import (
	"strings"

	"dms-storage/core/utils"
)

// Logical setting keys. They are resolved as upper-case environment
// variables first and lower-case host configuration keys second.
const (
	KeyHost           = "aws_host"
	KeyRegion         = "aws_region"
	KeyAccessKeyID    = "aws_access_key_id"
	KeySecretKey      = "aws_secret_access_key"
	KeyBucketPrefix   = "aws_bucket_prefix"
	KeyUsePathStyle   = "aws_use_path_style"
	KeyDriver         = "storage_driver"
	KeyTimeoutSeconds = "storage_timeout_seconds"
)

// Supported backend drivers.
const (
	DriverMinio = "minio"
	DriverS3    = "s3"
)

// Resolver returns the current value of a logical setting, or "" when unset.
type Resolver interface {
	Get(key string) string
}

// Config holds configuration for the storage connection.
type Config struct {
	// Host is the endpoint URL of the storage service. Empty means the provider default.
	Host string
	// Region is the region buckets are created in. Optional.
	Region string
	// AccessKey is the access key ID for authentication.
	AccessKey string
	// SecretKey is the secret access key for authentication.
	SecretKey string
	// BucketPrefix is prepended to logical storage names by BucketName.
	BucketPrefix string
	// Driver selects the client library used to reach the backend (minio, s3).
	Driver string
	// UsePathStyle forces path-style bucket addressing.
	UsePathStyle bool
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int
}

// LoadConfig reads the storage settings through r.
func LoadConfig(r Resolver) Config {
	return Config{
		Host:           EnsureScheme(r.Get(KeyHost)),
		Region:         r.Get(KeyRegion),
		AccessKey:      r.Get(KeyAccessKeyID),
		SecretKey:      r.Get(KeySecretKey),
		BucketPrefix:   r.Get(KeyBucketPrefix),
		Driver:         strings.ToLower(r.Get(KeyDriver)),
		UsePathStyle:   utils.ToBool(r.Get(KeyUsePathStyle)),
		TimeoutSeconds: utils.ToInt(r.Get(KeyTimeoutSeconds)),
	}
}

// EnsureScheme prefixes host with https:// when it carries no URL scheme.
// An empty host is returned unchanged.
func EnsureScheme(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}
