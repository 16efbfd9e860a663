package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/pulsetrack/ingest-api/internal/config"
	"github.com/pulsetrack/ingest-api/internal/database"
	"github.com/pulsetrack/ingest-api/internal/enrich"
	"github.com/pulsetrack/ingest-api/internal/eventstore"
	"github.com/pulsetrack/ingest-api/internal/geo"
	"github.com/pulsetrack/ingest-api/internal/handlers"
	"github.com/pulsetrack/ingest-api/internal/ingest"
	"github.com/pulsetrack/ingest-api/internal/logging"
	"github.com/pulsetrack/ingest-api/internal/middleware"
	"github.com/pulsetrack/ingest-api/internal/quota"
	"github.com/pulsetrack/ingest-api/internal/realtime"
	"github.com/pulsetrack/ingest-api/internal/routes"
	"github.com/pulsetrack/ingest-api/internal/translate"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.StoreAPIToken == "" {
		slog.Error("EVENTSTORE_API_TOKEN environment variable is required")
		os.Exit(1)
	}

	// Optional Postgres sink for ERROR+ logs
	var pgLogHandler *logging.PGHandler
	cleanupDone := make(chan struct{})
	if cfg.LogSinkEnabled() {
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("system log migration failed", "error", err)
			os.Exit(1)
		}
		pgLogHandler = logging.NewPGHandler(database.DB)
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
			pgLogHandler,
		)))
		logging.StartCleanup(database.DB, cleanupDone)
	}

	// Collaborators
	store := eventstore.NewClient(cfg.StoreAPIURL, cfg.StoreAPIToken, cfg.ExternalTimeout)
	gate := quota.NewGate(cfg.QuotaAPIURL, cfg.QuotaAPIKey, cfg.ExternalTimeout)
	geoClient := geo.NewClient(cfg.GeoAPIURL, cfg.GeoAPIToken, cfg.ExternalTimeout)
	resolver := enrich.NewResolver(geoClient)

	var notifier ingest.Notifier
	if cfg.RealtimeAPIURL != "" {
		notifier = realtime.NewBroadcaster(cfg.RealtimeAPIURL, cfg.RealtimeAPIKey, cfg.ExternalTimeout)
	}

	pipeline := ingest.NewPipeline(store, gate, resolver, notifier, cfg.ExternalTimeout)

	translator := translate.NewClient(cfg.TranslateAPIURL, cfg.TranslateAPIKey, cfg.ExternalTimeout)
	translationService := translate.NewService(translator, translate.NewCache(cfg.TranslateCacheTTL))

	// Handlers
	ingestHandler := handlers.NewIngestHandler(pipeline)
	localizationHandler := handlers.NewLocalizationHandler(translationService)
	healthHandler := handlers.NewHealthHandler(cfg.LogSinkEnabled())
	opsHandler := handlers.NewOpsHandler()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))

	// Routes
	routes.Setup(app, cfg, ingestHandler, localizationHandler, healthHandler, opsHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}

	slog.Info("server stopped")
}

// customErrorHandler maps unhandled errors to the response envelope. Message
// sniffing mirrors the inherited contract: anything mentioning authorization
// maps to 401, everything else is a 500.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else if strings.Contains(strings.ToLower(err.Error()), "unauthorized") {
		code = fiber.StatusUnauthorized
		message = "unauthorized"
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
