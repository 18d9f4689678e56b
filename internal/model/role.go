package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // QA_MANAGER, OPERATOR
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleQAManager = "QA_MANAGER"
	RoleOperator  = "OPERATOR"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleQAManager,
		Name:        "Quality Assurance Manager",
		Description: "Full access including quality decisions and recall execution",
	},
	{
		Code:        RoleOperator,
		Name:        "Production Operator",
		Description: "Receives lots, runs production and ships pallets",
	},
}
