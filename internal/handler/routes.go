package handler

import (
	"go-bakery-trace/internal/middleware"
	"go-bakery-trace/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every API handler for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Role       *RoleHandler
	Catalog    *CatalogHandler
	Lot        *LotHandler
	Production *ProductionHandler
	Pallet     *PalletHandler
	Trace      *TraceHandler
	Recall     *RecallHandler
}

// RegisterRoutes mounts the API under api. requireAuth guards every route
// except login.
func RegisterRoutes(api fiber.Router, h Handlers, requireAuth fiber.Handler) {
	priv := middleware.RequirePrivilege

	// Public
	api.Post("/auth/login", h.Auth.Login)

	protected := api.Group("", requireAuth)
	protected.Get("/auth/me", h.Auth.Me)
	if h.Role != nil {
		protected.Get("/roles", h.Role.GetRoles)
	}

	// Catalog
	protected.Get("/ingredients", h.Catalog.ListIngredients)
	protected.Post("/ingredients", priv(model.PrivCatalogManage), h.Catalog.CreateIngredient)
	protected.Get("/suppliers", h.Catalog.ListSuppliers)
	protected.Post("/suppliers", priv(model.PrivCatalogManage), h.Catalog.CreateSupplier)
	protected.Get("/recipes", h.Catalog.ListRecipes)
	protected.Post("/recipes", priv(model.PrivCatalogManage), h.Catalog.CreateRecipe)

	// Ingredient lots (audit before :id)
	protected.Get("/lots/audit", priv(model.PrivLotQuality), h.Lot.Audit)
	protected.Get("/lots", h.Lot.List)
	protected.Post("/lots", priv(model.PrivLotReceive), h.Lot.Receive)
	protected.Get("/lots/:id", h.Lot.Get)
	protected.Put("/lots/:id/quality", priv(model.PrivLotQuality), h.Lot.UpdateQuality)

	// Production
	protected.Get("/production-runs", h.Production.List)
	protected.Post("/production-runs", priv(model.PrivProductionManage), h.Production.Create)
	protected.Get("/production-runs/:id", h.Production.Get)
	protected.Put("/production-runs/:id", priv(model.PrivProductionManage), h.Production.Update)
	protected.Delete("/production-runs/:id", priv(model.PrivProductionManage), h.Production.Delete)
	protected.Post("/production-runs/:id/ingredients", priv(model.PrivProductionManage), h.Production.Consume)

	// Pallets
	protected.Post("/pallets", priv(model.PrivPalletManage), h.Pallet.Create)
	protected.Get("/pallets/:id", h.Pallet.Get)
	protected.Put("/pallets/:id/ship", priv(model.PrivPalletManage), h.Pallet.Ship)

	// Traceability
	trace := protected.Group("/traceability", priv(model.PrivTraceView))
	trace.Get("/forward/:id", h.Trace.Forward)
	trace.Get("/backward/:id", h.Trace.Backward)
	trace.Get("/recall/:id", h.Trace.Recall)
	trace.Post("/recall/:id/execute", priv(model.PrivRecallExecute), h.Recall.Execute)
	protected.Get("/recalls", priv(model.PrivTraceView), h.Recall.List)
}
