// Package loader registers HTTP features on the Fiber application.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps the registry. Register adds a feature and LoadAll loads
// every enabled one in registration order, so the buckets and objects
// features can be developed and tested in isolation.
package loader
