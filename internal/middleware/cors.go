package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/pulsetrack/ingest-api/internal/config"
)

// CORS mirrors the request origin when CORS_ORIGINS is "*" (SDKs post from
// arbitrary customer domains), otherwise restricts to the configured list.
func CORS(cfg *config.Config) fiber.Handler {
	c := cors.Config{
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: false,
	}
	if cfg.CORSOrigins == "*" {
		c.AllowOriginsFunc = func(origin string) bool { return true }
	} else {
		c.AllowOrigins = cfg.CORSOrigins
	}
	return cors.New(c)
}
