package cmd

import (
	"context"
	"fmt"

	"dms-storage/core/config"
	"dms-storage/core/database"
	"dms-storage/core/logger"
	"dms-storage/core/storage"

	"go.uber.org/zap"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	resolver *config.Resolver
	// settings is nil unless the settings database is enabled and reachable.
	settings *database.SettingsSource
}

func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	file, err := config.NewFileSource(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read host configuration: %w", err)
	}
	sources := config.Chain{file}

	rt := &runtime{cfg: cfg, logger: logg}
	if cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional settings database connection failed", zap.Error(err))
		} else if settings, err := database.NewSettingsSource(db, cfg.Database.Table, logg); err != nil {
			logg.Warn("Settings table unusable", zap.String("table", cfg.Database.Table), zap.Error(err))
		} else {
			rt.settings = settings
			sources = append(sources, settings)
		}
	}

	rt.resolver = config.NewResolver(sources)
	return rt, nil
}

// connect builds a storage connection from the resolved settings.
func (rt *runtime) connect(ctx context.Context, opts ...storage.Option) (*storage.Connection, error) {
	opts = append([]storage.Option{storage.WithLogger(rt.logger)}, opts...)
	return storage.New(ctx, storage.LoadConfig(rt.resolver), opts...)
}
