// Package config provides configuration management for the storage service.
//
// Service settings (server, log, database) are loaded with Viper from
// environment variables and an optional .env file, with defaults taken from
// the `default` struct tags.
//
// Storage settings are resolved key by key through a Resolver: the
// upper-cased environment variable wins (AWS_REGION), otherwise the
// lower-cased key is looked up in a host configuration Source (aws_region).
// Sources:
//   - NewFileSource: config.yaml in the working directory
//   - database.SettingsSource: the settings table, when enabled
//   - MapSource: fixed values, mostly for tests
//   - Chain: several sources consulted in order
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	file, err := config.NewFileSource(".")
//	resolver := config.NewResolver(file)
//	region := resolver.Get("aws_region")
package config
