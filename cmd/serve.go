package cmd

import (
	"dms-storage/core/loader"
	"dms-storage/core/logger"
	"dms-storage/core/metrics"
	"dms-storage/core/middleware/auth"
	"dms-storage/core/middleware/rayid"
	"dms-storage/core/storage"
	"dms-storage/feature/buckets"
	"dms-storage/feature/objects"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server exposing bucket and object operations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)

		conn, err := rt.connect(cmd.Context(), storage.WithRecorder(m))
		if err != nil {
			return err
		}

		app, err := newApp(rt, conn, m)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(rt.cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func newApp(rt *runtime, conn *storage.Connection, m *metrics.Metrics) (*fiber.App, error) {
	logg := rt.logger
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             rt.cfg.Server.BodyLimit(),
	})

	mgr := loader.NewManager()
	mgr.Register(buckets.NewFeature(conn, rt.resolver, logg))
	mgr.Register(objects.NewFeature(conn, logg))

	// RayID first so every log line carries it.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: []string{"/metrics"}}))
	app.Get("/metrics", m.Handler())

	for _, f := range mgr.Features() {
		logg.Debug("Loading feature", zap.String("feature", f.Name()), zap.Bool("enabled", f.IsEnabled()))
	}
	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
