package handler

import (
	"go-bakery-trace/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// writeError renders err as the {error, code, details} envelope. Causes of
// 5xx responses are logged, never returned.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	appErr := service.AsAppError(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", appErr.Code),
			zap.Error(appErr.Err))
	}

	body := fiber.Map{"error": appErr.Message, "code": appErr.Code}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return c.Status(appErr.Status).JSON(body)
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid JSON",
		"code":  service.CodeValidation,
	})
}
