package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecallEvent is the audit record of an executed recall. Assessment holds the
// JSON snapshot the decision was based on.
type RecallEvent struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Reference       uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"reference"`
	IngredientLotID uint           `gorm:"not null;index" json:"ingredientLotId"`
	IngredientLot   *IngredientLot `gorm:"foreignKey:IngredientLotID" json:"ingredientLot,omitempty"`
	Reason          string         `gorm:"type:text;not null" json:"reason"`
	RiskScore       int            `gorm:"not null" json:"riskScore"`
	RiskLevel       string         `gorm:"type:varchar(20);not null" json:"riskLevel"`
	RunsRecalled    int            `json:"runsRecalled"`
	PalletsRecalled int            `json:"palletsRecalled"`
	InitiatedBy     string         `gorm:"type:varchar(255)" json:"initiatedBy"`
	ExecutedAt      time.Time      `gorm:"not null;index" json:"executedAt"`
	Assessment      datatypes.JSON `gorm:"type:jsonb" json:"assessment,omitempty"`
}
