// Package middleware contains HTTP middleware for the Fiber application.
//
//   - auth: checks the X-API-Key header against the configured key.
//   - rayid: assigns every request a ray id, stored in locals and echoed
//     in the X-Ray-ID response header.
package middleware
