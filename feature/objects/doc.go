// Package objects exposes key enumeration, object transfer and bulk
// deletion over HTTP.
//
// # HTTP Endpoints
//
//   - GET /buckets/:bucket/keys : list every key.
//   - PUT /buckets/:bucket/objects/* : upload the request body to the key.
//   - GET /buckets/:bucket/objects/* : download the key.
//   - POST /buckets/:bucket/delete : delete {"keys": [...]} in chunks of 1000.
//
// A failed bulk delete reports the failing chunk and how many keys were
// deleted before it; earlier chunks are not restored.
package objects
