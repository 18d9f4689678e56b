package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanProductionTransition(t *testing.T) {
	tests := []struct {
		from ProductionStatus
		to   ProductionStatus
		want bool
	}{
		{ProductionPlanned, ProductionInProgress, true},
		{ProductionPlanned, ProductionCompleted, false},
		{ProductionInProgress, ProductionCompleted, true},
		{ProductionInProgress, ProductionFailed, true},
		{ProductionCompleted, ProductionRecalled, true},
		{ProductionCompleted, ProductionInProgress, false},
		{ProductionFailed, ProductionInProgress, false},
		{ProductionRecalled, ProductionCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanProductionTransition(tt.from, tt.to))
		})
	}
}

func TestCanLotQualityTransition(t *testing.T) {
	assert.True(t, CanLotQualityTransition(QualityPending, QualityPassed))
	assert.True(t, CanLotQualityTransition(QualityPassed, QualityQuarantined))
	assert.True(t, CanLotQualityTransition(QualityQuarantined, QualityPassed))
	assert.False(t, CanLotQualityTransition(QualityFailed, QualityPassed))
	assert.False(t, CanLotQualityTransition(QualityPending, QualityConditionalPass))
}

func TestIngredientLot_Usable(t *testing.T) {
	now := time.Date(2024, 8, 14, 8, 0, 0, 0, time.UTC)
	lot := IngredientLot{
		QualityStatus:     QualityPassed,
		ExpirationDate:    now.AddDate(0, 1, 0),
		QuantityReceived:  decimal.NewFromInt(100),
		QuantityRemaining: decimal.NewFromInt(100),
	}
	assert.True(t, lot.Usable(now))

	expired := lot
	expired.ExpirationDate = now.Add(-time.Hour)
	assert.False(t, expired.Usable(now))

	quarantined := lot
	quarantined.QualityStatus = QualityQuarantined
	assert.False(t, quarantined.Usable(now))

	recalled := lot
	recalled.RecalledAt = &now
	assert.False(t, recalled.Usable(now))
}

func TestProductionRun_Locked(t *testing.T) {
	run := ProductionRun{Status: ProductionInProgress, QualityStatus: QualityPending}
	assert.False(t, run.Locked())
	assert.True(t, run.Deletable())

	run.QualityStatus = QualityPassed
	assert.True(t, run.Locked())

	run = ProductionRun{Status: ProductionCompleted, QualityStatus: QualityPending}
	assert.True(t, run.Locked())
	assert.False(t, run.Deletable())
}

func TestIngredient_HasAllergen(t *testing.T) {
	ing := Ingredient{Allergens: []string{"Nuts", "milk"}}
	assert.True(t, ing.HasAllergen("nuts"))
	assert.True(t, ing.HasAllergen("MILK"))
	assert.False(t, ing.HasAllergen("wheat"))
}

func TestShippingStatus_InInventory(t *testing.T) {
	assert.True(t, ShippingActive.InInventory())
	assert.True(t, ShippingPending.InInventory())
	assert.False(t, ShippingShipped.InInventory())
	assert.False(t, ShippingRecalled.InInventory())
}

func TestShippingStatus_AfterRecall(t *testing.T) {
	assert.Equal(t, ShippingRecalled, ShippingActive.AfterRecall())
	assert.Equal(t, ShippingRecalled, ShippingPending.AfterRecall())
	assert.Equal(t, ShippingShipped, ShippingShipped.AfterRecall())
	assert.Equal(t, ShippingRecalled, ShippingRecalled.AfterRecall())
	for _, s := range InventoryStatuses {
		assert.True(t, s.InInventory(), s)
	}
}

func TestPallet_Shipped(t *testing.T) {
	at := time.Date(2024, 8, 14, 18, 0, 0, 0, time.UTC)

	assert.False(t, (&Pallet{ShippingStatus: ShippingActive}).Shipped())
	assert.False(t, (&Pallet{ShippingStatus: ShippingRecalled}).Shipped())
	assert.True(t, (&Pallet{ShippingStatus: ShippingShipped, ShippedAt: &at}).Shipped())
	assert.True(t, (&Pallet{ShippingStatus: ShippingRecalled, ShippedAt: &at, RecalledAt: &at}).Shipped())
}
