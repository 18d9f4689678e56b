package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredientLot is a received shipment of one ingredient. Lots are never hard
// deleted; QuantityRemaining only moves through batch usage writes.
type IngredientLot struct {
	BaseModel
	IngredientID uint        `gorm:"not null;index" json:"ingredientId"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	SupplierID   uint        `gorm:"not null;index" json:"supplierId"`
	Supplier     *Supplier   `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	SupplierLotCode string `gorm:"type:varchar(100)" json:"supplierLotCode"`
	InternalLotCode string `gorm:"type:varchar(100);uniqueIndex;not null" json:"internalLotCode"`

	ReceivedDate    time.Time  `gorm:"not null" json:"receivedDate"`
	ExpirationDate  time.Time  `gorm:"not null;index" json:"expirationDate"`
	ManufactureDate *time.Time `json:"manufactureDate,omitempty"`

	QuantityReceived  decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantityReceived"`
	QuantityRemaining decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantityRemaining"`
	Unit              string          `gorm:"type:varchar(20);not null;default:'kg'" json:"unit"`

	QualityStatus QualityStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"qualityStatus"`
	RecalledAt    *time.Time    `json:"recalledAt,omitempty"`
}

// IsRecalled reports whether a recall has been executed against the lot.
func (l *IngredientLot) IsRecalled() bool {
	return l.RecalledAt != nil
}

// Usable reports whether the lot may still be consumed by production at t.
func (l *IngredientLot) Usable(t time.Time) bool {
	if l.IsRecalled() {
		return false
	}
	if l.QualityStatus == QualityFailed || l.QualityStatus == QualityQuarantined {
		return false
	}
	return t.Before(l.ExpirationDate)
}

// LotCode returns the code shown in trace output, preferring the internal one.
func (l *IngredientLot) LotCode() string {
	if l.InternalLotCode != "" {
		return l.InternalLotCode
	}
	return l.SupplierLotCode
}
