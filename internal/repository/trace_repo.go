package repository

import (
	"context"

	"go-bakery-trace/internal/model"

	"gorm.io/gorm"
)

// LotLineage is an ingredient lot with every batch usage that references it.
// Each usage carries its production run, the run's recipe and its pallets.
type LotLineage struct {
	Lot    model.IngredientLot
	Usages []model.BatchIngredient
}

// PalletLineage is a pallet with its production run (and recipe) plus every
// batch usage on that run, each carrying the ingredient lot, ingredient and
// supplier.
type PalletLineage struct {
	Pallet model.Pallet
	Usages []model.BatchIngredient
}

// TraceRepository is the read-only view of the provenance graph used by the
// tracers.
type TraceRepository interface {
	GetLotWithUsages(ctx context.Context, lotID uint) (*LotLineage, error)
	GetPalletWithLineage(ctx context.Context, palletID uint) (*PalletLineage, error)
}

type traceRepo struct {
	db *gorm.DB
}

func NewTraceRepo(db *gorm.DB) TraceRepository {
	return &traceRepo{db}
}

func (r *traceRepo) GetLotWithUsages(ctx context.Context, lotID uint) (*LotLineage, error) {
	var lot model.IngredientLot
	if err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Preload("Supplier").
		First(&lot, lotID).Error; err != nil {
		return nil, translate(err)
	}

	var usages []model.BatchIngredient
	err := r.db.WithContext(ctx).
		Preload("ProductionRun.Recipe").
		Preload("ProductionRun.Pallets", func(db *gorm.DB) *gorm.DB {
			return db.Order("pallets.id ASC")
		}).
		Where("ingredient_lot_id = ?", lotID).
		Order("added_at ASC, id ASC").
		Find(&usages).Error
	if err != nil {
		return nil, err
	}

	return &LotLineage{Lot: lot, Usages: usages}, nil
}

func (r *traceRepo) GetPalletWithLineage(ctx context.Context, palletID uint) (*PalletLineage, error) {
	var pallet model.Pallet
	if err := r.db.WithContext(ctx).
		Preload("ProductionRun.Recipe").
		First(&pallet, palletID).Error; err != nil {
		return nil, translate(err)
	}

	var usages []model.BatchIngredient
	err := r.db.WithContext(ctx).
		Preload("IngredientLot.Ingredient").
		Preload("IngredientLot.Supplier").
		Where("production_run_id = ?", pallet.ProductionRunID).
		Order("added_at ASC, id ASC").
		Find(&usages).Error
	if err != nil {
		return nil, err
	}

	return &PalletLineage{Pallet: pallet, Usages: usages}, nil
}
