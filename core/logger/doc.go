// Package logger provides a structured logging facility based on Zap.
//
// It builds the zap logger shared by the CLI, the HTTP server and the storage
// connection, and ties HTTP log entries to the Fiber request that produced them.
//
// # Context Awareness
//
// WithRayID extracts the RayID set by the rayid middleware from a Fiber
// context and attaches it to the log entry.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
