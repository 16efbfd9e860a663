package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pulsetrack/ingest-api/internal/database"
)

type HealthHandler struct {
	logSinkEnabled bool
}

func NewHealthHandler(logSinkEnabled bool) *HealthHandler {
	return &HealthHandler{logSinkEnabled: logSinkEnabled}
}

// Live handles GET / — a bare liveness string for load balancers.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.SendString("analytics ingest API is running")
}

// Check handles GET /health
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	logSink := "disabled"
	if h.logSinkEnabled {
		logSink = "ok"
		if err := database.Ping(); err != nil {
			logSink = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"log_sink":  logSink,
	})
}
