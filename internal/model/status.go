package model

// QualityStatus is the single canonical quality enum for lots and runs.
type QualityStatus string

const (
	QualityPending         QualityStatus = "PENDING"
	QualityPassed          QualityStatus = "PASSED"
	QualityFailed          QualityStatus = "FAILED"
	QualityQuarantined     QualityStatus = "QUARANTINED"
	QualityConditionalPass QualityStatus = "CONDITIONAL_PASS"
)

// ProductionStatus tracks a run through the bakery floor.
type ProductionStatus string

const (
	ProductionPlanned    ProductionStatus = "PLANNED"
	ProductionInProgress ProductionStatus = "IN_PROGRESS"
	ProductionCompleted  ProductionStatus = "COMPLETED"
	ProductionFailed     ProductionStatus = "FAILED"
	ProductionRecalled   ProductionStatus = "RECALLED"
)

// ShippingStatus of a pallet.
type ShippingStatus string

const (
	ShippingPending  ShippingStatus = "PENDING"
	ShippingActive   ShippingStatus = "ACTIVE"
	ShippingShipped  ShippingStatus = "SHIPPED"
	ShippingRecalled ShippingStatus = "RECALLED"
)

// StorageType classifies how an ingredient must be kept.
type StorageType string

const (
	StorageDry          StorageType = "DRY"
	StorageRefrigerated StorageType = "REFRIGERATED"
	StorageFrozen       StorageType = "FROZEN"
)

// InInventory reports whether the pallet is still physically on hand.
func (s ShippingStatus) InInventory() bool {
	return s == ShippingPending || s == ShippingActive
}

// InventoryStatuses are the shipping states of pallets still on hand.
var InventoryStatuses = []ShippingStatus{ShippingPending, ShippingActive}

// AfterRecall is the shipping status a pallet takes when its run is recalled.
// Pallets on hand become RECALLED; shipped pallets stay SHIPPED.
func (s ShippingStatus) AfterRecall() ShippingStatus {
	if s.InInventory() {
		return ShippingRecalled
	}
	return s
}

// lotQualityTransitions lists the quality changes allowed on an ingredient lot.
// FAILED is terminal.
var lotQualityTransitions = map[QualityStatus][]QualityStatus{
	QualityPending:     {QualityPassed, QualityFailed, QualityQuarantined},
	QualityPassed:      {QualityQuarantined, QualityFailed},
	QualityQuarantined: {QualityPassed, QualityFailed},
}

// CanLotQualityTransition reports whether a lot may move from one quality
// status to another.
func CanLotQualityTransition(from, to QualityStatus) bool {
	for _, next := range lotQualityTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var productionTransitions = map[ProductionStatus][]ProductionStatus{
	ProductionPlanned:    {ProductionInProgress, ProductionFailed},
	ProductionInProgress: {ProductionCompleted, ProductionFailed},
	ProductionCompleted:  {ProductionRecalled},
}

// CanProductionTransition reports whether a run may move between statuses.
func CanProductionTransition(from, to ProductionStatus) bool {
	for _, next := range productionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
