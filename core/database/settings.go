package database

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setting is one row of the settings table.
type Setting struct {
	Key   string `gorm:"column:key;primaryKey;size:191"`
	Value string `gorm:"column:value;type:text"`
}

// SettingsSource serves host configuration from a key/value table.
// Every Lookup queries the table; values are never cached.
type SettingsSource struct {
	db     *gorm.DB
	table  string
	logger *zap.Logger
}

// NewSettingsSource checks that table has key and value columns and wraps it.
func NewSettingsSource(db *gorm.DB, table string, logger *zap.Logger) (*SettingsSource, error) {
	if table == "" {
		table = "settings"
	}
	if err := RequireColumns(db, table, "key", "value"); err != nil {
		return nil, err
	}
	return &SettingsSource{db: db, table: table, logger: logger}, nil
}

// Lookup returns the value stored under key. Query failures are logged and
// reported as unset so the caller falls back to its defaults.
func (s *SettingsSource) Lookup(key string) (string, bool) {
	var row Setting
	err := s.db.Table(s.table).Where(map[string]any{"key": key}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("Settings lookup failed", zap.String("table", s.table), zap.String("key", key), zap.Error(err))
		return "", false
	}
	return row.Value, true
}

// Set stores value under key, replacing any previous value.
func (s *SettingsSource) Set(key, value string) error {
	return s.db.Table(s.table).Save(&Setting{Key: key, Value: value}).Error
}

// MigrateSettings creates table with key and value columns when it is missing.
func MigrateSettings(db *gorm.DB, table string) error {
	if table == "" {
		table = "settings"
	}
	return db.Table(table).AutoMigrate(&Setting{})
}
