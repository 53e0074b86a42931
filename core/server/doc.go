// Package server holds the HTTP server configuration and the mapping of
// storage errors to HTTP responses.
//
// The serve command reads the listen port, the API key protecting every
// route and the upload body limit from Config. Handlers report failures
// through Error, which picks the status with StatusFor:
//
//   - BucketAlreadyExistsError, NonEmptyBucketError: 409
//   - ResponseError with a 404 status: 404
//   - UserError, ConnectError: 502
//   - ConfigError and anything else: 500
package server
