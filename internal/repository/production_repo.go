package repository

import (
	"context"

	"go-bakery-trace/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductionRepository interface {
	Create(ctx context.Context, run *model.ProductionRun) error
	FindByID(ctx context.Context, id uint) (*model.ProductionRun, error)
	FindAll(ctx context.Context) ([]model.ProductionRun, error)
	LockByID(tx *gorm.DB, id uint) (*model.ProductionRun, error)
	// LockByIDs locks the runs FOR UPDATE in ascending id order.
	LockByIDs(tx *gorm.DB, ids []uint) error
	Save(tx *gorm.DB, run *model.ProductionRun) error
	Delete(tx *gorm.DB, id uint) error

	CreateUsage(tx *gorm.DB, usage *model.BatchIngredient) error
	UsagesByRun(tx *gorm.DB, runID uint) ([]model.BatchIngredient, error)
	DeleteUsagesByRun(tx *gorm.DB, runID uint) error

	// RunIDsByLot returns the distinct runs that consumed a lot.
	RunIDsByLot(tx *gorm.DB, lotID uint) ([]uint, error)
	MarkRecalled(tx *gorm.DB, runIDs []uint, updatedBy string) (int64, error)
}

type productionRepo struct {
	db *gorm.DB
}

func NewProductionRepo(db *gorm.DB) ProductionRepository {
	return &productionRepo{db}
}

func (r *productionRepo) Create(ctx context.Context, run *model.ProductionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *productionRepo) FindByID(ctx context.Context, id uint) (*model.ProductionRun, error) {
	var run model.ProductionRun
	err := r.db.WithContext(ctx).
		Preload("Recipe").
		Preload("Usages.IngredientLot").
		Preload("Pallets").
		First(&run, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &run, nil
}

func (r *productionRepo) FindAll(ctx context.Context) ([]model.ProductionRun, error) {
	var runs []model.ProductionRun
	err := r.db.WithContext(ctx).Preload("Recipe").Order("start_time DESC, id DESC").Find(&runs).Error
	return runs, err
}

func (r *productionRepo) LockByID(tx *gorm.DB, id uint) (*model.ProductionRun, error) {
	var run model.ProductionRun
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&run, id).Error; err != nil {
		return nil, translate(err)
	}
	return &run, nil
}

func (r *productionRepo) LockByIDs(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var runs []model.ProductionRun
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&runs).Error
}

func (r *productionRepo) Save(tx *gorm.DB, run *model.ProductionRun) error {
	return tx.Omit(clause.Associations).Save(run).Error
}

func (r *productionRepo) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.ProductionRun{}, id).Error
}

func (r *productionRepo) CreateUsage(tx *gorm.DB, usage *model.BatchIngredient) error {
	return tx.Omit(clause.Associations).Create(usage).Error
}

func (r *productionRepo) UsagesByRun(tx *gorm.DB, runID uint) ([]model.BatchIngredient, error) {
	var usages []model.BatchIngredient
	err := tx.Where("production_run_id = ?", runID).Order("id ASC").Find(&usages).Error
	return usages, err
}

func (r *productionRepo) DeleteUsagesByRun(tx *gorm.DB, runID uint) error {
	return tx.Where("production_run_id = ?", runID).Delete(&model.BatchIngredient{}).Error
}

func (r *productionRepo) RunIDsByLot(tx *gorm.DB, lotID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&model.BatchIngredient{}).
		Distinct("production_run_id").
		Where("ingredient_lot_id = ?", lotID).
		Order("production_run_id ASC").
		Pluck("production_run_id", &ids).Error
	return ids, err
}

func (r *productionRepo) MarkRecalled(tx *gorm.DB, runIDs []uint, updatedBy string) (int64, error) {
	if len(runIDs) == 0 {
		return 0, nil
	}
	res := tx.Model(&model.ProductionRun{}).
		Where("id IN ?", runIDs).
		Updates(map[string]interface{}{
			"status":     model.ProductionRecalled,
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}
