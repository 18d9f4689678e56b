package repository

import (
	"context"
	"time"

	"go-bakery-trace/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PalletRepository interface {
	Create(ctx context.Context, pallet *model.Pallet) error
	FindByID(ctx context.Context, id uint) (*model.Pallet, error)
	FindByRun(ctx context.Context, runID uint) ([]model.Pallet, error)
	LockByID(tx *gorm.DB, id uint) (*model.Pallet, error)
	Save(tx *gorm.DB, pallet *model.Pallet) error
	CountShippedByRun(tx *gorm.DB, runID uint) (int64, error)
	DeleteByRun(tx *gorm.DB, runID uint) error
	// MarkRecalledByRuns stamps RecalledAt on every pallet of the runs. Pallets
	// on hand also become RECALLED; shipped pallets keep their status.
	MarkRecalledByRuns(tx *gorm.DB, runIDs []uint, at time.Time, updatedBy string) (int64, error)
}

type palletRepo struct {
	db *gorm.DB
}

func NewPalletRepo(db *gorm.DB) PalletRepository {
	return &palletRepo{db}
}

func (r *palletRepo) Create(ctx context.Context, pallet *model.Pallet) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(pallet).Error
}

func (r *palletRepo) FindByID(ctx context.Context, id uint) (*model.Pallet, error) {
	var pallet model.Pallet
	if err := r.db.WithContext(ctx).Preload("ProductionRun.Recipe").First(&pallet, id).Error; err != nil {
		return nil, translate(err)
	}
	return &pallet, nil
}

func (r *palletRepo) FindByRun(ctx context.Context, runID uint) ([]model.Pallet, error) {
	var pallets []model.Pallet
	err := r.db.WithContext(ctx).Where("production_run_id = ?", runID).Order("id ASC").Find(&pallets).Error
	return pallets, err
}

func (r *palletRepo) LockByID(tx *gorm.DB, id uint) (*model.Pallet, error) {
	var pallet model.Pallet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("ProductionRun").First(&pallet, id).Error; err != nil {
		return nil, translate(err)
	}
	return &pallet, nil
}

func (r *palletRepo) Save(tx *gorm.DB, pallet *model.Pallet) error {
	return tx.Omit(clause.Associations).Save(pallet).Error
}

func (r *palletRepo) CountShippedByRun(tx *gorm.DB, runID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.Pallet{}).
		Where("production_run_id = ? AND (shipping_status = ? OR shipped_at IS NOT NULL)", runID, model.ShippingShipped).
		Count(&count).Error
	return count, err
}

func (r *palletRepo) DeleteByRun(tx *gorm.DB, runID uint) error {
	return tx.Where("production_run_id = ?", runID).Delete(&model.Pallet{}).Error
}

func (r *palletRepo) MarkRecalledByRuns(tx *gorm.DB, runIDs []uint, at time.Time, updatedBy string) (int64, error) {
	if len(runIDs) == 0 {
		return 0, nil
	}
	onHand := tx.Model(&model.Pallet{}).
		Where("production_run_id IN ? AND shipping_status IN ?", runIDs, model.InventoryStatuses).
		Updates(map[string]interface{}{
			"shipping_status": model.ShippingRecalled,
			"recalled_at":     at,
			"updated_by":      updatedBy,
		})
	if onHand.Error != nil {
		return 0, onHand.Error
	}

	// Shipped (and already RECALLED) pallets only get the recall stamp
	rest := tx.Model(&model.Pallet{}).
		Where("production_run_id IN ? AND recalled_at IS NULL", runIDs).
		Updates(map[string]interface{}{
			"recalled_at": at,
			"updated_by":  updatedBy,
		})
	return onHand.RowsAffected + rest.RowsAffected, rest.Error
}
