// Package bootstrap prepares a database for the API and the ops CLI.
package bootstrap

import (
	"errors"
	"fmt"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Admin is the account created on first start.
type Admin struct {
	Email    string
	FullName string
	Password string
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Privilege{},
		&model.Role{},
		&model.User{},
		&model.Ingredient{},
		&model.Supplier{},
		&model.Recipe{},
		&model.IngredientLot{},
		&model.ProductionRun{},
		&model.BatchIngredient{},
		&model.Pallet{},
		&model.RecallEvent{},
	)
}

// SeedAccess creates default privileges and roles, grants role privileges
// that are still empty, and creates the admin account if it is missing.
func SeedAccess(db *gorm.DB, admin Admin, logger *zap.Logger) error {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	all, err := privilegeRepo.FindAll()
	if err != nil {
		return fmt.Errorf("load privileges: %w", err)
	}
	for _, code := range []string{model.RoleQAManager, model.RoleOperator} {
		role, err := roleRepo.FindByCode(code)
		if err != nil {
			return fmt.Errorf("load role %s: %w", code, err)
		}
		if len(role.Privileges) > 0 {
			continue
		}
		if err := roleRepo.ReplacePrivileges(role, PrivilegesFor(code, all)); err != nil {
			return fmt.Errorf("grant role %s: %w", code, err)
		}
		logger.Info("role privileges granted", zap.String("role", code))
	}

	_, err = userRepo.FindByEmail(admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	qa, err := roleRepo.FindByCode(model.RoleQAManager)
	if err != nil {
		return fmt.Errorf("load role %s: %w", model.RoleQAManager, err)
	}
	user := &model.User{
		Email:    admin.Email,
		FullName: admin.FullName,
		RoleID:   &qa.ID,
		IsActive: true,
	}
	if err := user.SetPassword(admin.Password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Warn("admin user created, change its password", zap.String("email", admin.Email))
	return nil
}

// PrivilegesFor returns the subset of all a role is granted by default.
// QA managers get everything.
func PrivilegesFor(roleCode string, all []model.Privilege) []model.Privilege {
	if roleCode == model.RoleQAManager {
		return all
	}
	allowed := map[string]bool{}
	if roleCode == model.RoleOperator {
		for _, code := range model.OperatorPrivileges {
			allowed[code] = true
		}
	}
	out := []model.Privilege{}
	for _, p := range all {
		if allowed[p.Code] {
			out = append(out, p)
		}
	}
	return out
}
