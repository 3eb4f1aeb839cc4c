package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"netsync/core/loader"
	"netsync/core/logger"
	"netsync/core/middleware/auth"
	"netsync/core/middleware/rayid"
	"netsync/core/server"
	syncFeature "netsync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "netsync/docs/swagger"
)

// @title netsync API
// @version 1.0
// @description Reconciles collected network device facts into the network inventory.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the netsync server",
	Long:  `Starts the HTTP server exposing sync runs, archived reports and metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		d, err := setup()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer d.close()
		logg := d.logger
		zap.ReplaceGlobals(logg)

		// Without storage the server still runs on a local facts file, reports are not archived
		if err := d.connectStorage(context.Background()); err != nil {
			logg.Warn("Optional storage connection failed", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			WriteTimeout:          d.cfg.Server.WriteTimeout(),
		})

		mgr := loader.NewManager()
		mgr.Register(syncFeature.NewFeature(d.service()))

		// RayID first so every log line below carries it
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

		if err := mountRoutes(app, d.cfg.Server, mgr); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", d.cfg.Server.Address()))
			if err := app.Listen(d.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// mountRoutes installs swagger, the API key check, metrics and the features, in that order.
// Metrics stay public through the skip list of the API key check.
func mountRoutes(app *fiber.App, cfg server.Config, mgr *loader.Manager) error {
	app.Get("/swagger/*", swagger.HandlerDefault)

	var skip []string
	if cfg.MetricsPath != "" {
		skip = append(skip, cfg.MetricsPath)
	}
	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey, Skip: skip}))

	if cfg.MetricsPath != "" {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	return mgr.LoadAll(app)
}

func init() {
	RootCmd.AddCommand(startCmd)
}
