package handlers

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
)

// OpsHandler serves the JWT-protected operational surface.
type OpsHandler struct {
	startedAt time.Time
}

func NewOpsHandler() *OpsHandler {
	return &OpsHandler{startedAt: time.Now()}
}

// Stats handles GET /ops/stats
func (h *OpsHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"started_at":     h.startedAt.UTC().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"goroutines":     runtime.NumGoroutine(),
		"go_version":     runtime.Version(),
	})
}
