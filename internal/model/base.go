package model

import (
	"time"
)

// BaseModel handles the integer ID and standard audit trail shared by every
// node of the provenance graph.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Audit User Tracking
	CreatedBy string `gorm:"type:varchar(255)" json:"createdBy,omitempty"`
	UpdatedBy string `gorm:"type:varchar(255)" json:"updatedBy,omitempty"`
}
