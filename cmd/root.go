package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dms-storage/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dms-storage",
	Short: "Document storage service",
	Long: `dms-storage manages the object-storage buckets backing the document store.
It talks to AWS S3 or any S3-compatible endpoint (MinIO) and can run as a CLI or an HTTP service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Console format with ISO8601 timestamps for CLI output.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding .env and config.yaml")
}
