package repository

import (
	"context"

	"go-bakery-trace/internal/model"

	"gorm.io/gorm"
)

type RecallRepository interface {
	Create(tx *gorm.DB, event *model.RecallEvent) error
	FindAll(ctx context.Context) ([]model.RecallEvent, error)
}

type recallRepo struct {
	db *gorm.DB
}

func NewRecallRepo(db *gorm.DB) RecallRepository {
	return &recallRepo{db}
}

func (r *recallRepo) Create(tx *gorm.DB, event *model.RecallEvent) error {
	return tx.Omit("IngredientLot").Create(event).Error
}

func (r *recallRepo) FindAll(ctx context.Context) ([]model.RecallEvent, error) {
	var events []model.RecallEvent
	err := r.db.WithContext(ctx).
		Preload("IngredientLot").
		Order("executed_at DESC, id DESC").
		Find(&events).Error
	return events, err
}
