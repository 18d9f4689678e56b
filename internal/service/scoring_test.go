package service

import (
	"testing"
	"time"

	"go-bakery-trace/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{100, RiskLevelCritical},
		{80, RiskLevelCritical},
		{79, RiskLevelHigh},
		{60, RiskLevelHigh},
		{59, RiskLevelMedium},
		{40, RiskLevelMedium},
		{39, RiskLevelLow},
		{0, RiskLevelLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelFor(tt.score), "score %d", tt.score)
	}
}

func TestScoreRisk_NoProduction(t *testing.T) {
	got := ScoreRisk(RiskInput{})

	assert.Equal(t, RiskComponents{RegulatoryRisk: 25}, got.Components)
	// 25 * 0.10
	assert.Equal(t, 3, got.TotalRiskScore)
	assert.Equal(t, RiskLevelLow, got.RiskLevel)
	assert.Equal(t, []string{ActionInventoryQuarantine, ActionInternalInvestigation}, got.RecommendedActions)
}

func TestScoreRisk_ComponentCaps(t *testing.T) {
	got := ScoreRisk(RiskInput{
		CustomerOrders: 500,
		ShippedPallets: 500,
		HasProduction:  true,
		DaysSinceEarly: 90,
		HasAllergen:    true,
		Refrigerated:   true,
	})

	assert.Equal(t, 100, got.Components.CustomerExposure)
	assert.Equal(t, 100, got.Components.VolumeImpact)
	assert.Equal(t, 0, got.Components.TimeUrgency)
	assert.Equal(t, 75, got.Components.RegulatoryRisk)
	assert.Equal(t, 70, got.TotalRiskScore)
	assert.Equal(t, RiskLevelHigh, got.RiskLevel)
	assert.Equal(t, []string{ActionControlledRecall, ActionCustomerNotification}, got.RecommendedActions)
}

func TestScoreRisk_Monotonic(t *testing.T) {
	base := RiskInput{HasProduction: true, DaysSinceEarly: 3, HasAllergen: true}

	prev := -1
	for n := 0; n <= 40; n++ {
		in := base
		in.ShippedPallets = n
		score := ScoreRisk(in).TotalRiskScore
		assert.GreaterOrEqual(t, score, prev, "shipped pallets %d", n)
		prev = score
	}

	prev = -1
	for n := 0; n <= 20; n++ {
		in := base
		in.CustomerOrders = n
		score := ScoreRisk(in).TotalRiskScore
		assert.GreaterOrEqual(t, score, prev, "customer orders %d", n)
		prev = score
	}
}

func TestRecommendedActions_ReturnsCopy(t *testing.T) {
	a := RecommendedActions(RiskLevelCritical)
	a[0] = "changed"
	assert.Equal(t, ActionImmediateRecall, RecommendedActions(RiskLevelCritical)[0])
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, daysBetween(baseTime, baseTime))
	assert.Equal(t, 0, daysBetween(baseTime.Add(time.Hour), baseTime))
	assert.Equal(t, 0, daysBetween(baseTime.Add(-23*time.Hour), baseTime))
	assert.Equal(t, 1, daysBetween(baseTime.Add(-25*time.Hour), baseTime))
	assert.Equal(t, 30, daysBetween(baseTime.AddDate(0, 0, -30), baseTime))
}

func TestClassifyUrgency(t *testing.T) {
	run := func(id uint, age time.Duration, statuses ...model.ShippingStatus) AffectedRun {
		r := AffectedRun{RunSummary: RunSummary{ID: id, StartTime: baseTime.Add(-age)}}
		for i, s := range statuses {
			r.Pallets = append(r.Pallets, PalletSummary{ID: id*10 + uint(i), ShippingStatus: s})
		}
		return r
	}
	day := 24 * time.Hour

	got := classifyUrgency([]AffectedRun{
		run(1, 2*day, model.ShippingShipped),
		run(2, 7*day, model.ShippingShipped, model.ShippingActive),
		run(3, 8*day, model.ShippingShipped),
		run(4, 30*day, model.ShippingShipped),
		run(5, 31*day, model.ShippingShipped, model.ShippingPending),
		run(6, 31*day, model.ShippingShipped),
		run(7, day, model.ShippingRecalled),
		run(8, day),
	}, baseTime)

	ids := func(refs []RunRef) []uint {
		out := []uint{}
		for _, r := range refs {
			out = append(out, r.ProductionRunID)
		}
		return out
	}
	assert.Equal(t, []uint{1, 2}, ids(got.ImmediateAction))
	assert.Equal(t, []uint{3, 4}, ids(got.HighPriority))
	assert.Equal(t, []uint{5}, ids(got.MediumPriority))
	assert.Equal(t, []uint{6, 7, 8}, ids(got.LowPriority))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "0", "-3", "abc", "4.2", "+7", "99999999999999999999999"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, "raw %q", raw)
	}
}
