package cmd

import (
	"errors"
	"fmt"
	"strings"

	"dms-storage/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errSettingsDisabled = errors.New("settings database is not available (set DATABASE_ENABLED=true)")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and edit the host configuration store",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rt.resolver.Get(args[0]))
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the settings table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		cfg := rt.cfg.Database
		if !cfg.Enabled {
			return errSettingsDisabled
		}
		db, err := database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to settings database: %w", err)
		}
		if err := database.MigrateSettings(db, cfg.Table); err != nil {
			return err
		}
		rt.logger.Info("Settings table ready", zap.String("table", cfg.Table))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting in the settings table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if rt.settings == nil {
			return errSettingsDisabled
		}
		return rt.settings.Set(strings.ToLower(args[0]), args[1])
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsInitCmd, settingsSetCmd)
	RootCmd.AddCommand(settingsCmd)
}
