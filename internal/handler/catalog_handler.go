package handler

import (
	"go-bakery-trace/internal/middleware"
	"go-bakery-trace/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, logger: logger}
}

// POST /api/v1/ingredients
func (h *CatalogHandler) CreateIngredient(c *fiber.Ctx) error {
	var req service.CreateIngredientRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	ing, err := h.catalogService.CreateIngredient(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ing)
}

// GET /api/v1/ingredients
func (h *CatalogHandler) ListIngredients(c *fiber.Ctx) error {
	out, err := h.catalogService.ListIngredients(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// POST /api/v1/suppliers
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.CreateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	sup, err := h.catalogService.CreateSupplier(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sup)
}

// GET /api/v1/suppliers
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.catalogService.ListSuppliers(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// POST /api/v1/recipes
func (h *CatalogHandler) CreateRecipe(c *fiber.Ctx) error {
	var req service.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	rc, err := h.catalogService.CreateRecipe(c.UserContext(), &req, middleware.Actor(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rc)
}

// GET /api/v1/recipes
func (h *CatalogHandler) ListRecipes(c *fiber.Ctx) error {
	out, err := h.catalogService.ListRecipes(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}
