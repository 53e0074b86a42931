package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Source is a host configuration store consulted after the environment.
type Source interface {
	// Lookup returns the value stored under key and whether it was set.
	Lookup(key string) (string, bool)
}

// Resolver resolves logical settings: the upper-cased environment variable
// first, then the lower-cased key in the host configuration store.
// Nothing is cached; every Get reads the live sources.
type Resolver struct {
	env    func(string) (string, bool)
	source Source
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithEnv replaces the process environment lookup.
func WithEnv(lookup func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.env = lookup
	}
}

// NewResolver creates a resolver backed by source. A nil source only consults the environment.
func NewResolver(source Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{env: os.LookupEnv, source: source}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the value of key, or "" when neither source sets it.
func (r *Resolver) Get(key string) string {
	if v, ok := r.env(strings.ToUpper(key)); ok && v != "" {
		return v
	}
	if r.source == nil {
		return ""
	}
	if v, ok := r.source.Lookup(strings.ToLower(key)); ok {
		return v
	}
	return ""
}

// MapSource is an in-memory Source.
type MapSource map[string]string

func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Chain consults each source in order and returns the first non-empty value.
type Chain []Source

func (c Chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ViperSource reads keys from a viper instance.
type ViperSource struct {
	v *viper.Viper
}

// NewViperSource wraps v.
func NewViperSource(v *viper.Viper) *ViperSource {
	return &ViperSource{v: v}
}

func (s *ViperSource) Lookup(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// NewFileSource reads config.yaml (or any format viper supports under the
// name "config") from path. A missing file yields an empty source.
func NewFileSource(path string) (*ViperSource, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	return NewViperSource(v), nil
}
