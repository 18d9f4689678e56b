package handler

import (
	"go-bakery-trace/internal/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RoleHandler struct {
	roleRepo repository.RoleRepository
	logger   *zap.Logger
}

func NewRoleHandler(roleRepo repository.RoleRepository, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{roleRepo: roleRepo, logger: logger}
}

// GetRoles returns all available roles with their privileges
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roleRepo.FindAll()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(roles)
}
