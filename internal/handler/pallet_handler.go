package handler

import (
	"go-bakery-trace/internal/middleware"
	"go-bakery-trace/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PalletHandler struct {
	palletService service.PalletService
	logger        *zap.Logger
}

func NewPalletHandler(palletService service.PalletService, logger *zap.Logger) *PalletHandler {
	return &PalletHandler{palletService: palletService, logger: logger}
}

// POST /api/v1/pallets
func (h *PalletHandler) Create(c *fiber.Ctx) error {
	var req service.CreatePalletRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	pallet, err := h.palletService.Create(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(pallet)
}

// GET /api/v1/pallets/:id
func (h *PalletHandler) Get(c *fiber.Ctx) error {
	pallet, err := h.palletService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(pallet)
}

// Ship marks a pallet shipped against a customer order
// PUT /api/v1/pallets/:id/ship
func (h *PalletHandler) Ship(c *fiber.Ctx) error {
	var req service.ShipPalletRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	pallet, err := h.palletService.Ship(c.UserContext(), c.Params("id"), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(pallet)
}
