package handler

import (
	"go-bakery-trace/internal/middleware"
	"go-bakery-trace/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecallHandler struct {
	recallService service.RecallService
	logger        *zap.Logger
}

func NewRecallHandler(recallService service.RecallService, logger *zap.Logger) *RecallHandler {
	return &RecallHandler{recallService: recallService, logger: logger}
}

// Execute recalls an ingredient lot and everything made from it
// POST /api/v1/traceability/recall/:id/execute
func (h *RecallHandler) Execute(c *fiber.Ctx) error {
	var req service.ExecuteRecallRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	res, err := h.recallService.Execute(c.UserContext(), c.Params("id"), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// List returns executed recalls, newest first
// GET /api/v1/recalls
func (h *RecallHandler) List(c *fiber.Ctx) error {
	events, err := h.recallService.List(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(events)
}
