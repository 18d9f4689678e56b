package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "lot:receive"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivCatalogManage    = "catalog:manage"
	PrivLotReceive       = "lot:receive"
	PrivLotQuality       = "lot:quality"
	PrivProductionManage = "production:manage"
	PrivPalletManage     = "pallet:manage"
	PrivTraceView        = "trace:view"
	PrivRecallExecute    = "recall:execute"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: PrivCatalogManage, Name: "Manage Ingredients, Suppliers and Recipes"},
	{Code: PrivLotReceive, Name: "Receive Ingredient Lots"},
	{Code: PrivLotQuality, Name: "Change Lot Quality Status"},
	{Code: PrivProductionManage, Name: "Manage Production Runs"},
	{Code: PrivPalletManage, Name: "Pack and Ship Pallets"},
	{Code: PrivTraceView, Name: "View Traceability"},
	{Code: PrivRecallExecute, Name: "Execute Recall"},
}

// OperatorPrivileges is the subset granted to floor operators.
var OperatorPrivileges = []string{
	PrivLotReceive,
	PrivProductionManage,
	PrivPalletManage,
	PrivTraceView,
}
