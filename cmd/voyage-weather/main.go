package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	httpapi "github.com/harborline/voyage-weather/internal/api/http"
	"github.com/harborline/voyage-weather/internal/config"
	"github.com/harborline/voyage-weather/internal/geo"
	"github.com/harborline/voyage-weather/internal/report"
	"github.com/harborline/voyage-weather/internal/scheduler"
	"github.com/harborline/voyage-weather/internal/store"
	"github.com/harborline/voyage-weather/internal/voyage"
	"github.com/harborline/voyage-weather/internal/weather"
	"github.com/harborline/voyage-weather/internal/weather/providers"
)

func main() {
	log := newLogger()

	if err := godotenv.Load(); err != nil {
		log.WithField("error", err).Info("no .env file loaded")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithField("error", err).Fatal("failed to load config")
	}

	// Providers in the operator's configured fallback order. An unknown
	// adapter identifier is fatal here, not recoverable at runtime.
	var provs []weather.Provider
	for _, name := range cfg.ProviderOrder {
		settings, err := cfg.ProviderByName(name)
		if err != nil {
			log.WithField("error", err).Fatal("invalid provider order")
		}
		client, err := providers.New(settings, log)
		if err != nil {
			log.WithField("error", err).Fatal("failed to construct provider")
		}
		provs = append(provs, client)
	}

	service := weather.NewService(provs, log)
	snapshots := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Waypoints without coordinates are geocoded at startup.
	resolver := geo.NewResolver(cfg.GeocoderAPIKey, log)
	targets := resolver.ResolveTargets(cfg.Waypoints)

	sched := scheduler.New(targets, cfg.FetchInterval, service, snapshots, log)
	if err := sched.Start(); err != nil {
		log.WithField("error", err).Fatal("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "voyage-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "voyage-weather",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:    service,
		Snapshots:  snapshots,
		Thresholds: cfg.MarineThresholds,
		ReportDir:  cfg.ReportDir,
		CSVPath:    cfg.CSVPath,
		Log:        log,
		WriteFiles: reportWriter(cfg, log),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithField("error", err).Error("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithField("error", err).Error("error during shutdown")
	}
}

// reportWriter persists the markdown report and CSV summary for each voyage
// assessment. Either output can be disabled by blanking its path.
func reportWriter(cfg *config.AppConfig, log *logrus.Logger) func(voyage.Assessment) error {
	if cfg.ReportDir == "" && cfg.CSVPath == "" {
		return nil
	}
	return func(a voyage.Assessment) error {
		if cfg.ReportDir != "" {
			md, err := report.WriteMarkdown(a, cfg.MarineThresholds, cfg.ReportDir)
			if err != nil {
				return err
			}
			log.WithField("path", md.Path).Info("voyage report written")
		}
		if cfg.CSVPath != "" {
			if err := report.AppendCSV(a, cfg.CSVPath); err != nil {
				return err
			}
		}
		return nil
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()

	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	return log
}
