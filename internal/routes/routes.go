package routes

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulsetrack/ingest-api/internal/config"
	"github.com/pulsetrack/ingest-api/internal/handlers"
	"github.com/pulsetrack/ingest-api/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	ingestHandler *handlers.IngestHandler,
	localizationHandler *handlers.LocalizationHandler,
	healthHandler *handlers.HealthHandler,
	opsHandler *handlers.OpsHandler,
) {
	app.Get("/", healthHandler.Live)
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Event ingestion — identity is derived but never required.
	identity := middleware.Identity(cfg)
	app.Post("/ingest", identity, ingestHandler.IngestError)
	app.Post("/log", identity, ingestHandler.IngestLog)
	app.Post("/track-404", identity, ingestHandler.TrackNotFound)

	// Translation proxy — rate limited to protect the upstream service.
	localization := app.Group("/localization", limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	localization.Post("/", localizationHandler.TranslateText)
	localization.Post("/object", localizationHandler.TranslateObject)

	// Operational surface requires a valid token.
	ops := app.Group("/ops", middleware.JWTProtected(cfg))
	ops.Get("/stats", opsHandler.Stats)
}
