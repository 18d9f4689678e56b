package handler

import (
	"go-bakery-trace/internal/middleware"
	"go-bakery-trace/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LotHandler struct {
	lotService service.LotService
	logger     *zap.Logger
}

func NewLotHandler(lotService service.LotService, logger *zap.Logger) *LotHandler {
	return &LotHandler{lotService: lotService, logger: logger}
}

// Receive records an incoming ingredient lot
// POST /api/v1/lots
func (h *LotHandler) Receive(c *fiber.Ctx) error {
	var req service.ReceiveLotRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	lot, err := h.lotService.Receive(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lot)
}

// GET /api/v1/lots
func (h *LotHandler) List(c *fiber.Ctx) error {
	lots, err := h.lotService.List(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(lots)
}

// GET /api/v1/lots/:id
func (h *LotHandler) Get(c *fiber.Ctx) error {
	lot, err := h.lotService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(lot)
}

// UpdateQuality moves a lot through quality inspection
// PUT /api/v1/lots/:id/quality
func (h *LotHandler) UpdateQuality(c *fiber.Ctx) error {
	var req service.UpdateQualityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	lot, err := h.lotService.UpdateQuality(c.UserContext(), c.Params("id"), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(lot)
}

// Audit reports lots whose remaining quantity drifted from their usage
// GET /api/v1/lots/audit
func (h *LotHandler) Audit(c *fiber.Ctx) error {
	report, err := h.lotService.Audit(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(report)
}
