// Package storage provides the connection to an S3-compatible object store.
//
// A Connection wraps one Backend and exposes bucket lifecycle and object I/O.
// Two backends are available: the MinIO Go client (default) and the AWS SDK
// for Go v2, selected with the storage_driver setting. Either one maps its
// SDK errors once at the boundary, so the Connection only deals with
// BucketState, *ResponseError and *ConnectError.
//
// # Configuration
//
// Settings are read through a Resolver (see core/config) under the keys
// aws_host, aws_region, aws_access_key_id, aws_secret_access_key and
// aws_bucket_prefix. A host without scheme gets https://. Construction fails
// with a *ConfigError when the credentials are missing or incomplete.
//
// # Operations
//
//   - BucketState / BucketExists: live existence probe, never cached.
//   - CreateBucket: refuses existing buckets, sends the region as location constraint.
//   - DeleteBucket: refuses non-empty buckets.
//   - Keys: lazy iterator over every key, paginated by the backend.
//   - Upload / Download: stream copy of a single object.
//   - DeleteObjects: bulk delete in chunks of MaxDeleteKeys, stops at the first failing chunk.
//   - BucketName: slug of the (prefixed) logical storage name.
//
// # Usage
//
//	conn, err := storage.New(ctx, storage.LoadConfig(resolver), storage.WithLogger(log))
//	info, err := conn.CreateBucket(ctx, storage.BucketName(resolver, "Invoices", ""))
//	for key, err := range conn.Keys(ctx, info.Name) {
//	    ...
//	}
package storage
