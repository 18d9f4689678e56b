package repository

import (
	"context"
	"time"

	"go-bakery-trace/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LotBalance compares a lot's stored remaining quantity with its usage sum.
type LotBalance struct {
	LotID             uint            `json:"lotId"`
	InternalLotCode   string          `json:"internalLotCode"`
	QuantityReceived  decimal.Decimal `json:"quantityReceived"`
	QuantityRemaining decimal.Decimal `json:"quantityRemaining"`
	QuantityUsed      decimal.Decimal `json:"quantityUsed"`
}

// Expected is the remaining quantity implied by the usage rows.
func (b LotBalance) Expected() decimal.Decimal {
	return b.QuantityReceived.Sub(b.QuantityUsed)
}

// Drift is stored minus expected; zero when consistent.
func (b LotBalance) Drift() decimal.Decimal {
	return b.QuantityRemaining.Sub(b.Expected())
}

type LotRepository interface {
	Create(ctx context.Context, lot *model.IngredientLot) error
	FindByID(ctx context.Context, id uint) (*model.IngredientLot, error)
	FindAll(ctx context.Context) ([]model.IngredientLot, error)
	LockByID(tx *gorm.DB, id uint) (*model.IngredientLot, error)
	SumUsage(tx *gorm.DB, lotID uint) (decimal.Decimal, error)
	UpdateRemaining(tx *gorm.DB, id uint, remaining decimal.Decimal, updatedBy string) error
	UpdateQuality(tx *gorm.DB, id uint, status model.QualityStatus, updatedBy string) error
	MarkRecalled(tx *gorm.DB, id uint, at time.Time, updatedBy string) error
	Balances(ctx context.Context) ([]LotBalance, error)
}

type lotRepo struct {
	db *gorm.DB
}

func NewLotRepo(db *gorm.DB) LotRepository {
	return &lotRepo{db}
}

func (r *lotRepo) Create(ctx context.Context, lot *model.IngredientLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *lotRepo) FindByID(ctx context.Context, id uint) (*model.IngredientLot, error) {
	var lot model.IngredientLot
	if err := r.db.WithContext(ctx).Preload("Ingredient").Preload("Supplier").First(&lot, id).Error; err != nil {
		return nil, translate(err)
	}
	return &lot, nil
}

func (r *lotRepo) FindAll(ctx context.Context) ([]model.IngredientLot, error) {
	var lots []model.IngredientLot
	err := r.db.WithContext(ctx).Preload("Ingredient").Preload("Supplier").Order("received_date DESC, id DESC").Find(&lots).Error
	return lots, err
}

// LockByID loads the lot with a row lock; tx must be a transaction.
func (r *lotRepo) LockByID(tx *gorm.DB, id uint) (*model.IngredientLot, error) {
	var lot model.IngredientLot
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Ingredient").First(&lot, id).Error; err != nil {
		return nil, translate(err)
	}
	return &lot, nil
}

func (r *lotRepo) SumUsage(tx *gorm.DB, lotID uint) (decimal.Decimal, error) {
	var used decimal.Decimal
	row := tx.Model(&model.BatchIngredient{}).
		Select("COALESCE(SUM(quantity_used), 0)").
		Where("ingredient_lot_id = ?", lotID).
		Row()
	if err := row.Scan(&used); err != nil {
		return decimal.Zero, err
	}
	return used, nil
}

func (r *lotRepo) UpdateRemaining(tx *gorm.DB, id uint, remaining decimal.Decimal, updatedBy string) error {
	return tx.Model(&model.IngredientLot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity_remaining": remaining,
			"updated_by":         updatedBy,
		}).Error
}

func (r *lotRepo) UpdateQuality(tx *gorm.DB, id uint, status model.QualityStatus, updatedBy string) error {
	return tx.Model(&model.IngredientLot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quality_status": status,
			"updated_by":     updatedBy,
		}).Error
}

func (r *lotRepo) MarkRecalled(tx *gorm.DB, id uint, at time.Time, updatedBy string) error {
	return tx.Model(&model.IngredientLot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quality_status": model.QualityQuarantined,
			"recalled_at":    at,
			"updated_by":     updatedBy,
		}).Error
}

func (r *lotRepo) Balances(ctx context.Context) ([]LotBalance, error) {
	rows, err := r.db.WithContext(ctx).
		Table("ingredient_lots AS l").
		Select(`
			l.id,
			l.internal_lot_code,
			l.quantity_received,
			l.quantity_remaining,
			COALESCE(SUM(b.quantity_used), 0)
		`).
		Joins("LEFT JOIN batch_ingredients b ON b.ingredient_lot_id = l.id").
		Group("l.id, l.internal_lot_code, l.quantity_received, l.quantity_remaining").
		Order("l.id ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []LotBalance
	for rows.Next() {
		var b LotBalance
		if err := rows.Scan(&b.LotID, &b.InternalLotCode, &b.QuantityReceived, &b.QuantityRemaining, &b.QuantityUsed); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
