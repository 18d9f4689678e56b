package service

import (
	"context"
	"strings"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"
)

type CreateIngredientRequest struct {
	Name           string            `json:"name" validate:"required,max=255"`
	Allergens      []string          `json:"allergens" validate:"dive,required,max=50"`
	Certifications []string          `json:"certifications" validate:"dive,required,max=50"`
	StorageType    model.StorageType `json:"storageType" validate:"omitempty,oneof=DRY REFRIGERATED FROZEN"`
}

type CreateSupplierRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
}

type CreateRecipeRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Version     int    `json:"version" validate:"omitempty,gte=1"`
	Description string `json:"description"`
}

type CatalogService interface {
	CreateIngredient(ctx context.Context, req *CreateIngredientRequest, actor string) (*model.Ingredient, error)
	ListIngredients(ctx context.Context) ([]model.Ingredient, error)
	CreateSupplier(ctx context.Context, req *CreateSupplierRequest, actor string) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	CreateRecipe(ctx context.Context, req *CreateRecipeRequest, actor string) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) CreateIngredient(ctx context.Context, req *CreateIngredientRequest, actor string) (*model.Ingredient, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	ing := &model.Ingredient{
		Name:           strings.TrimSpace(req.Name),
		Allergens:      normalizeTags(req.Allergens),
		Certifications: normalizeTags(req.Certifications),
		StorageType:    req.StorageType,
	}
	if ing.StorageType == "" {
		ing.StorageType = model.StorageDry
	}
	ing.CreatedBy = actor
	ing.UpdatedBy = actor
	if err := s.repo.CreateIngredient(ctx, ing); err != nil {
		return nil, storeError(err, CodeInternal, "Failed to create ingredient")
	}
	return ing, nil
}

func (s *catalogService) ListIngredients(ctx context.Context) ([]model.Ingredient, error) {
	out, err := s.repo.FindIngredients(ctx)
	if err != nil {
		return nil, internalError(CodeInternal, "Failed to list ingredients", err)
	}
	return out, nil
}

func (s *catalogService) CreateSupplier(ctx context.Context, req *CreateSupplierRequest, actor string) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	sup := &model.Supplier{Name: strings.TrimSpace(req.Name), ContactEmail: req.ContactEmail}
	sup.CreatedBy = actor
	sup.UpdatedBy = actor
	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return nil, storeError(err, CodeInternal, "Failed to create supplier")
	}
	return sup, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	out, err := s.repo.FindSuppliers(ctx)
	if err != nil {
		return nil, internalError(CodeInternal, "Failed to list suppliers", err)
	}
	return out, nil
}

func (s *catalogService) CreateRecipe(ctx context.Context, req *CreateRecipeRequest, actor string) (*model.Recipe, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	rc := &model.Recipe{Name: strings.TrimSpace(req.Name), Version: req.Version, Description: req.Description}
	if rc.Version == 0 {
		rc.Version = 1
	}
	rc.CreatedBy = actor
	rc.UpdatedBy = actor
	if err := s.repo.CreateRecipe(ctx, rc); err != nil {
		return nil, storeError(err, CodeInternal, "Failed to create recipe")
	}
	return rc, nil
}

func (s *catalogService) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	out, err := s.repo.FindRecipes(ctx)
	if err != nil {
		return nil, internalError(CodeInternal, "Failed to list recipes", err)
	}
	return out, nil
}

// normalizeTags lower-cases, trims and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
