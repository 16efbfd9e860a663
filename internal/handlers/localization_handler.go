package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/pulsetrack/ingest-api/internal/translate"
)

const (
	defaultSourceLocale = "en"
	defaultTargetLocale = "ar"
)

// LocalizationHandler proxies text and object translation through the cached
// translation service.
type LocalizationHandler struct {
	service *translate.Service
}

func NewLocalizationHandler(service *translate.Service) *LocalizationHandler {
	return &LocalizationHandler{service: service}
}

// TranslateText handles POST /localization
func (h *LocalizationHandler) TranslateText(c *fiber.Ctx) error {
	var req struct {
		Key      string `json:"key"`
		Language string `json:"language"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "invalid request body",
		})
	}
	if req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "key is required",
		})
	}
	if req.Language == "" {
		req.Language = defaultTargetLocale
	}

	result, err := h.service.Translate(c.UserContext(), req.Key, defaultSourceLocale, req.Language)
	if err != nil {
		slog.Error("text translation failed", "language", req.Language, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "translation failed",
		})
	}
	return c.JSON(fiber.Map{"result": result})
}

// TranslateObject handles POST /localization/object
func (h *LocalizationHandler) TranslateObject(c *fiber.Ctx) error {
	var req struct {
		Content      map[string]any `json:"content"`
		SourceLocale string         `json:"sourceLocale"`
		TargetLocale string         `json:"targetLocale"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "invalid request body",
		})
	}
	if len(req.Content) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "content must be a non-empty object",
		})
	}
	if req.SourceLocale == "" {
		req.SourceLocale = defaultSourceLocale
	}
	if req.TargetLocale == "" {
		req.TargetLocale = defaultTargetLocale
	}

	result, err := h.service.Translate(c.UserContext(), req.Content, req.SourceLocale, req.TargetLocale)
	if err != nil {
		slog.Error("object translation failed", "target", req.TargetLocale, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "translation failed",
		})
	}
	return c.JSON(fiber.Map{"result": result})
}
