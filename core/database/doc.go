// Package database handles the optional settings database.
//
// It wraps GORM to open MySQL (or SQLite) connections from the service
// configuration and exposes a key/value settings table as a host
// configuration source for the storage resolver.
//
// # Settings Table
//
// SettingsSource reads one row per lookup from a table with key and value
// columns (default name "settings"). The table layout is verified on
// construction with the schema inspector (TableColumns, RequireColumns).
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	src, err := database.NewSettingsSource(db, cfg.Database.Table, log)
//	resolver := config.NewResolver(config.Chain{file, src})
package database
