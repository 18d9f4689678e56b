package repository

import (
	"context"

	"go-bakery-trace/internal/model"

	"gorm.io/gorm"
)

// CatalogRepository stores the reference data that decorates traces.
type CatalogRepository interface {
	CreateIngredient(ctx context.Context, ing *model.Ingredient) error
	FindIngredients(ctx context.Context) ([]model.Ingredient, error)
	FindIngredientByID(ctx context.Context, id uint) (*model.Ingredient, error)

	CreateSupplier(ctx context.Context, s *model.Supplier) error
	FindSuppliers(ctx context.Context) ([]model.Supplier, error)
	FindSupplierByID(ctx context.Context, id uint) (*model.Supplier, error)

	CreateRecipe(ctx context.Context, rc *model.Recipe) error
	FindRecipes(ctx context.Context) ([]model.Recipe, error)
	FindRecipeByID(ctx context.Context, id uint) (*model.Recipe, error)
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db}
}

func (r *catalogRepo) CreateIngredient(ctx context.Context, ing *model.Ingredient) error {
	return r.db.WithContext(ctx).Create(ing).Error
}

func (r *catalogRepo) FindIngredients(ctx context.Context) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	err := r.db.WithContext(ctx).Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *catalogRepo) FindIngredientByID(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ing model.Ingredient
	if err := r.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ing, nil
}

func (r *catalogRepo) CreateSupplier(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *catalogRepo) FindSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *catalogRepo) FindSupplierByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var s model.Supplier
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *catalogRepo) CreateRecipe(ctx context.Context, rc *model.Recipe) error {
	return r.db.WithContext(ctx).Create(rc).Error
}

func (r *catalogRepo) FindRecipes(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).Order("name ASC, version DESC").Find(&recipes).Error
	return recipes, err
}

func (r *catalogRepo) FindRecipeByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var rc model.Recipe
	if err := r.db.WithContext(ctx).First(&rc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rc, nil
}
