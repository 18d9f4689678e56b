package handler

import (
	"go-bakery-trace/internal/middleware"
	"go-bakery-trace/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductionHandler struct {
	productionService service.ProductionService
	logger            *zap.Logger
}

func NewProductionHandler(productionService service.ProductionService, logger *zap.Logger) *ProductionHandler {
	return &ProductionHandler{productionService: productionService, logger: logger}
}

// POST /api/v1/production-runs
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var req service.CreateRunRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	run, err := h.productionService.Create(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(run)
}

// GET /api/v1/production-runs
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	runs, err := h.productionService.List(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(runs)
}

// GET /api/v1/production-runs/:id
func (h *ProductionHandler) Get(c *fiber.Ctx) error {
	run, err := h.productionService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(run)
}

// Update applies a partial update
// PUT /api/v1/production-runs/:id
func (h *ProductionHandler) Update(c *fiber.Ctx) error {
	var req service.UpdateRunRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	run, err := h.productionService.Update(c.UserContext(), c.Params("id"), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(run)
}

// Delete removes an unshipped run and restores its lot quantities
// DELETE /api/v1/production-runs/:id
func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	if err := h.productionService.Delete(c.UserContext(), c.Params("id"), middleware.Actor(c)); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Consume records ingredient lot usage on a run
// POST /api/v1/production-runs/:id/ingredients
func (h *ProductionHandler) Consume(c *fiber.Ctx) error {
	var req service.ConsumeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	usage, err := h.productionService.Consume(c.UserContext(), c.Params("id"), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(usage)
}
