package handler

import (
	"go-bakery-trace/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TraceHandler struct {
	traceService service.TraceService
	logger       *zap.Logger
}

func NewTraceHandler(traceService service.TraceService, logger *zap.Logger) *TraceHandler {
	return &TraceHandler{traceService: traceService, logger: logger}
}

// Forward returns everything made from an ingredient lot
// GET /api/v1/traceability/forward/:id
func (h *TraceHandler) Forward(c *fiber.Ctx) error {
	res, err := h.traceService.ForwardTrace(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(res)
}

// Backward returns the ingredient lots inside a pallet
// GET /api/v1/traceability/backward/:id
func (h *TraceHandler) Backward(c *fiber.Ctx) error {
	res, err := h.traceService.BackwardTrace(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(res)
}

// Recall returns the recall impact assessment of an ingredient lot
// GET /api/v1/traceability/recall/:id
func (h *TraceHandler) Recall(c *fiber.Ctx) error {
	res, err := h.traceService.AssessRecall(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(res)
}
