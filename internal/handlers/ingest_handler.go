package handlers

import (
	"errors"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/pulsetrack/ingest-api/internal/events"
	"github.com/pulsetrack/ingest-api/internal/ingest"
	"github.com/pulsetrack/ingest-api/internal/middleware"
)

// IngestHandler handles the three SDK event endpoints.
type IngestHandler struct {
	pipeline *ingest.Pipeline
}

func NewIngestHandler(pipeline *ingest.Pipeline) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// IngestError handles POST /ingest
func (h *IngestHandler) IngestError(c *fiber.Ctx) error {
	return h.handle(c, events.KindError)
}

// IngestLog handles POST /log
func (h *IngestHandler) IngestLog(c *fiber.Ctx) error {
	return h.handle(c, events.KindLog)
}

// TrackNotFound handles POST /track-404
func (h *IngestHandler) TrackNotFound(c *fiber.Ctx) error {
	return h.handle(c, events.KindNotFound)
}

func (h *IngestHandler) handle(c *fiber.Ctx, kind events.Kind) error {
	payload := map[string]any{}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error", "message": "invalid request body",
			})
		}
	}

	clientID, _ := payload["client_id"].(string)
	if clientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "client_id is required",
		})
	}

	id, err := h.pipeline.Ingest(c.UserContext(), ingest.Request{
		Kind:      kind,
		ClientID:  clientID,
		UserID:    middleware.UserID(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		ClientIP:  c.IP(),
		Payload:   payload,
	})
	if err != nil {
		if errors.Is(err, ingest.ErrQuotaExceeded) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error", "message": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "failed to process event",
		})
	}

	return c.JSON(fiber.Map{"status": "success", "id": id})
}
