// Package buckets exposes bucket lifecycle operations over HTTP.
//
// # HTTP Endpoints
//
//   - GET /buckets/name?storage=&prefix= : derive a bucket name from a storage name.
//   - GET /buckets/:bucket : report "exists" or "not_found".
//   - POST /buckets/:bucket : create the bucket in the configured region (201, 409 if it exists).
//   - DELETE /buckets/:bucket : delete an empty bucket (204, 409 if it holds keys).
package buckets
