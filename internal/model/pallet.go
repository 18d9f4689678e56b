package model

import "time"

// Pallet is a physical unit of finished product from one production run.
type Pallet struct {
	BaseModel
	ProductionRunID uint           `gorm:"not null;index" json:"productionRunId"`
	ProductionRun   *ProductionRun `gorm:"foreignKey:ProductionRunID" json:"productionRun,omitempty"`

	PalletCode     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"palletCode"`
	QuantityPacked int            `gorm:"not null" json:"quantityPacked"`
	Location       string         `gorm:"type:varchar(100)" json:"location,omitempty"`
	ShippingStatus ShippingStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"shippingStatus"`
	ShippedAt      *time.Time     `json:"shippedAt,omitempty"`
	CustomerOrder  string         `gorm:"type:varchar(100);index" json:"customerOrder,omitempty"`
	RecalledAt     *time.Time     `gorm:"index" json:"recalledAt,omitempty"`
	Notes          string         `gorm:"type:text" json:"notes,omitempty"`
}

// Shipped reports whether the pallet left the bakery. A recall never clears
// this; shipped pallets keep their shipping status and only get RecalledAt.
func (p *Pallet) Shipped() bool {
	return p.ShippingStatus == ShippingShipped || p.ShippedAt != nil
}
