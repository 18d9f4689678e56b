package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRun is one manufacturing batch.
type ProductionRun struct {
	BaseModel
	RecipeID uint    `gorm:"not null;index" json:"recipeId"`
	Recipe   *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`

	DailyLot string `gorm:"type:varchar(100);uniqueIndex;not null" json:"dailyLot"`
	CakeLot  string `gorm:"type:varchar(100)" json:"cakeLot,omitempty"`
	IcingLot string `gorm:"type:varchar(100)" json:"icingLot,omitempty"`

	PlannedQuantity int        `gorm:"not null" json:"plannedQuantity"`
	ActualQuantity  *int       `json:"actualQuantity,omitempty"`
	StartTime       time.Time  `gorm:"not null;index" json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`

	Status        ProductionStatus `gorm:"type:varchar(20);not null;default:'PLANNED'" json:"status"`
	QualityStatus QualityStatus    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"qualityStatus"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`

	Usages  []BatchIngredient `gorm:"foreignKey:ProductionRunID;constraint:OnDelete:CASCADE" json:"usages,omitempty"`
	Pallets []Pallet          `gorm:"foreignKey:ProductionRunID;constraint:OnDelete:CASCADE" json:"pallets,omitempty"`
}

// Locked reports whether the run only accepts quality updates.
func (r *ProductionRun) Locked() bool {
	return r.Status == ProductionCompleted || r.Status == ProductionRecalled || r.QualityStatus == QualityPassed
}

// Deletable reports whether the run is still pre-completion.
func (r *ProductionRun) Deletable() bool {
	switch r.Status {
	case ProductionPlanned, ProductionInProgress, ProductionFailed:
		return true
	}
	return false
}

// BatchIngredient records a quantity of one ingredient lot consumed by one
// production run. Rows are append-only.
type BatchIngredient struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProductionRunID uint            `gorm:"not null;index" json:"productionRunId"`
	ProductionRun   *ProductionRun  `gorm:"foreignKey:ProductionRunID" json:"productionRun,omitempty"`
	IngredientLotID uint            `gorm:"not null;index" json:"ingredientLotId"`
	IngredientLot   *IngredientLot  `gorm:"foreignKey:IngredientLotID" json:"ingredientLot,omitempty"`
	QuantityUsed    decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantityUsed"`
	AddedAt         time.Time       `gorm:"not null" json:"addedAt"`
	AddedBy         string          `gorm:"type:varchar(255)" json:"addedBy"`
}

// TableName keeps the historical table name.
func (BatchIngredient) TableName() string {
	return "batch_ingredients"
}
