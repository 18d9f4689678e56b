package service

import (
	"time"

	"go-bakery-trace/internal/model"

	"github.com/shopspring/decimal"
)

// Chain node types and levels.
const (
	NodeIngredientLot = "INGREDIENT_LOT"
	NodeProductionRun = "PRODUCTION_RUN"
	NodePallet        = "PALLET"
)

type LotSummary struct {
	ID                uint                `json:"id"`
	InternalLotCode   string              `json:"internalLotCode"`
	SupplierLotCode   string              `json:"supplierLotCode"`
	IngredientID      uint                `json:"ingredientId"`
	IngredientName    string              `json:"ingredientName"`
	Allergens         []string            `json:"allergens"`
	StorageType       model.StorageType   `json:"storageType,omitempty"`
	SupplierID        uint                `json:"supplierId"`
	SupplierName      string              `json:"supplierName"`
	ReceivedDate      time.Time           `json:"receivedDate"`
	ExpirationDate    time.Time           `json:"expirationDate"`
	QuantityReceived  decimal.Decimal     `json:"quantityReceived"`
	QuantityRemaining decimal.Decimal     `json:"quantityRemaining"`
	Unit              string              `json:"unit"`
	QualityStatus     model.QualityStatus `json:"qualityStatus"`
	RecalledAt        *time.Time          `json:"recalledAt,omitempty"`
}

type RunSummary struct {
	ID              uint                   `json:"id"`
	DailyLot        string                 `json:"dailyLot"`
	CakeLot         string                 `json:"cakeLot,omitempty"`
	IcingLot        string                 `json:"icingLot,omitempty"`
	RecipeID        uint                   `json:"recipeId"`
	RecipeName      string                 `json:"recipeName"`
	RecipeVersion   int                    `json:"recipeVersion"`
	Status          model.ProductionStatus `json:"status"`
	QualityStatus   model.QualityStatus    `json:"qualityStatus"`
	PlannedQuantity int                    `json:"plannedQuantity"`
	ActualQuantity  *int                   `json:"actualQuantity,omitempty"`
	StartTime       time.Time              `json:"startTime"`
	EndTime         *time.Time             `json:"endTime,omitempty"`
}

type PalletSummary struct {
	ID             uint                 `json:"id"`
	PalletCode     string               `json:"palletCode"`
	QuantityPacked int                  `json:"quantityPacked"`
	Location       string               `json:"location,omitempty"`
	ShippingStatus model.ShippingStatus `json:"shippingStatus"`
	ShippedAt      *time.Time           `json:"shippedAt,omitempty"`
	CustomerOrder  string               `json:"customerOrder,omitempty"`
	RecalledAt     *time.Time           `json:"recalledAt,omitempty"`
	PackedAt       time.Time            `json:"packedAt"`
}

// reachedCustomer holds for shipped pallets, recalled or not.
func (p PalletSummary) reachedCustomer() bool {
	return p.ShippingStatus == model.ShippingShipped || p.ShippedAt != nil
}

func (p PalletSummary) recalled() bool {
	return p.RecalledAt != nil || p.ShippingStatus == model.ShippingRecalled
}

// AffectedRun is a production run reached from an ingredient lot.
type AffectedRun struct {
	RunSummary
	QuantityUsed decimal.Decimal `json:"quantityUsed"`
	FirstUsedAt  time.Time       `json:"firstUsedAt"`
	Pallets      []PalletSummary `json:"pallets"`
}

type ChainNode struct {
	Level     int       `json:"level"`
	Type      string    `json:"type"`
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// ImpactSummary counts distinct pallets. Shipped and inventory pallets are
// disjoint; RecalledPallets overlaps ShippedPallets for pallets recalled
// after shipping.
type ImpactSummary struct {
	TotalProductionRuns    int      `json:"totalProductionRuns"`
	TotalPallets           int      `json:"totalPallets"`
	ShippedPallets         int      `json:"shippedPallets"`
	InventoryPallets       int      `json:"inventoryPallets"`
	RecalledPallets        int      `json:"recalledPallets"`
	CustomerOrdersAffected int      `json:"customerOrdersAffected"`
	CustomerOrders         []string `json:"customerOrders"`
}

type ForwardTrace struct {
	IngredientLot          LotSummary    `json:"ingredientLot"`
	AffectedProductionRuns []AffectedRun `json:"affectedProductionRuns"`
	TraceabilityChain      []ChainNode   `json:"traceabilityChain"`
	Impact                 ImpactSummary `json:"impact"`
}

// TracedLot is an ingredient lot found inside a pallet.
type TracedLot struct {
	LotSummary
	QuantityUsed decimal.Decimal `json:"quantityUsed"`
	UsedAt       time.Time       `json:"usedAt"`
	AddedBy      string          `json:"addedBy"`
}

type RiskFactor struct {
	Type            string `json:"type"`
	Severity        string `json:"severity"`
	IngredientLotID uint   `json:"ingredientLotId"`
	LotCode         string `json:"lotCode"`
	Message         string `json:"message"`
}

type SupplierSummary struct {
	SupplierName      string          `json:"supplierName"`
	TotalQuantityUsed decimal.Decimal `json:"totalQuantityUsed"`
	LotCount          int             `json:"lotCount"`
	QualityIssues     int             `json:"qualityIssues"`
}

type BackwardSummary struct {
	TotalIngredientLots int                         `json:"totalIngredientLots"`
	TotalSuppliers      int                         `json:"totalSuppliers"`
	QualityStatusCounts map[model.QualityStatus]int `json:"qualityStatusCounts"`
}

type BackwardTrace struct {
	Pallet            PalletSummary     `json:"pallet"`
	ProductionRun     RunSummary        `json:"productionRun"`
	IngredientLots    []TracedLot       `json:"ingredientLots"`
	TraceabilityChain []ChainNode       `json:"traceabilityChain"`
	RiskFactors       []RiskFactor      `json:"riskFactors"`
	SupplierAnalysis  []SupplierSummary `json:"supplierAnalysis"`
	Summary           BackwardSummary   `json:"summary"`
}

func summarizeLot(l *model.IngredientLot) LotSummary {
	s := LotSummary{
		ID:                l.ID,
		InternalLotCode:   l.InternalLotCode,
		SupplierLotCode:   l.SupplierLotCode,
		IngredientID:      l.IngredientID,
		Allergens:         []string{},
		SupplierID:        l.SupplierID,
		ReceivedDate:      l.ReceivedDate,
		ExpirationDate:    l.ExpirationDate,
		QuantityReceived:  l.QuantityReceived,
		QuantityRemaining: l.QuantityRemaining,
		Unit:              l.Unit,
		QualityStatus:     l.QualityStatus,
		RecalledAt:        l.RecalledAt,
	}
	if l.Ingredient != nil {
		s.IngredientName = l.Ingredient.Name
		s.StorageType = l.Ingredient.StorageType
		s.Allergens = append(s.Allergens, l.Ingredient.Allergens...)
	}
	if l.Supplier != nil {
		s.SupplierName = l.Supplier.Name
	}
	return s
}

func summarizeRun(r *model.ProductionRun) RunSummary {
	s := RunSummary{
		ID:              r.ID,
		DailyLot:        r.DailyLot,
		CakeLot:         r.CakeLot,
		IcingLot:        r.IcingLot,
		RecipeID:        r.RecipeID,
		Status:          r.Status,
		QualityStatus:   r.QualityStatus,
		PlannedQuantity: r.PlannedQuantity,
		ActualQuantity:  r.ActualQuantity,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
	}
	if r.Recipe != nil {
		s.RecipeName = r.Recipe.Name
		s.RecipeVersion = r.Recipe.Version
	}
	return s
}

func summarizePallet(p *model.Pallet) PalletSummary {
	return PalletSummary{
		ID:             p.ID,
		PalletCode:     p.PalletCode,
		QuantityPacked: p.QuantityPacked,
		Location:       p.Location,
		ShippingStatus: p.ShippingStatus,
		ShippedAt:      p.ShippedAt,
		CustomerOrder:  p.CustomerOrder,
		RecalledAt:     p.RecalledAt,
		PackedAt:       p.CreatedAt,
	}
}
