package service

import (
	"math"
	"time"

	"go-bakery-trace/internal/model"
)

type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// Recommended actions.
const (
	ActionImmediateRecall        = "IMMEDIATE_RECALL"
	ActionRegulatoryNotification = "REGULATORY_NOTIFICATION"
	ActionMediaAlert             = "MEDIA_ALERT"
	ActionControlledRecall       = "CONTROLLED_RECALL"
	ActionCustomerNotification   = "CUSTOMER_NOTIFICATION"
	ActionInventoryQuarantine    = "INVENTORY_QUARANTINE"
	ActionInternalInvestigation  = "INTERNAL_INVESTIGATION"
)

// Component weights, summing to 1.
const (
	weightCustomerExposure = 0.30
	weightVolumeImpact     = 0.25
	weightTimeUrgency      = 0.20
	weightAllergenRisk     = 0.15
	weightRegulatoryRisk   = 0.10
)

const (
	thresholdCritical = 80
	thresholdHigh     = 60
	thresholdMedium   = 40
)

const (
	immediateWindowDays = 7
	highWindowDays      = 30
)

var recommendedActions = map[RiskLevel][]string{
	RiskLevelCritical: {ActionImmediateRecall, ActionRegulatoryNotification, ActionMediaAlert},
	RiskLevelHigh:     {ActionControlledRecall, ActionCustomerNotification},
	RiskLevelMedium:   {ActionInventoryQuarantine, ActionInternalInvestigation},
	RiskLevelLow:      {ActionInventoryQuarantine, ActionInternalInvestigation},
}

// RiskInput is what the scorer needs from a forward trace.
type RiskInput struct {
	CustomerOrders int
	ShippedPallets int
	HasProduction  bool
	DaysSinceEarly int
	HasAllergen    bool
	Refrigerated   bool
	NutsOrWheat    bool
}

type RiskComponents struct {
	CustomerExposure int `json:"customerExposure"`
	VolumeImpact     int `json:"volumeImpact"`
	TimeUrgency      int `json:"timeUrgency"`
	AllergenRisk     int `json:"allergenRisk"`
	RegulatoryRisk   int `json:"regulatoryRisk"`
}

type RiskAssessment struct {
	TotalRiskScore     int            `json:"totalRiskScore"`
	RiskLevel          RiskLevel      `json:"riskLevel"`
	Components         RiskComponents `json:"components"`
	RecommendedActions []string       `json:"recommendedActions"`
}

// ScoreRisk computes the weighted recall risk.
func ScoreRisk(in RiskInput) RiskAssessment {
	c := RiskComponents{
		CustomerExposure: min(in.CustomerOrders*10, 100),
		VolumeImpact:     min(in.ShippedPallets*5, 100),
		AllergenRisk:     0,
		RegulatoryRisk:   25,
	}
	if in.HasProduction {
		c.TimeUrgency = max(0, 100-2*in.DaysSinceEarly)
	}
	if in.HasAllergen {
		c.AllergenRisk = 50
	}
	if in.Refrigerated || in.NutsOrWheat {
		c.RegulatoryRisk = 75
	}

	total := float64(c.CustomerExposure)*weightCustomerExposure +
		float64(c.VolumeImpact)*weightVolumeImpact +
		float64(c.TimeUrgency)*weightTimeUrgency +
		float64(c.AllergenRisk)*weightAllergenRisk +
		float64(c.RegulatoryRisk)*weightRegulatoryRisk
	score := int(math.Round(total))
	level := RiskLevelFor(score)

	return RiskAssessment{
		TotalRiskScore:     score,
		RiskLevel:          level,
		Components:         c,
		RecommendedActions: RecommendedActions(level),
	}
}

// RiskLevelFor buckets a total score.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score >= thresholdCritical:
		return RiskLevelCritical
	case score >= thresholdHigh:
		return RiskLevelHigh
	case score >= thresholdMedium:
		return RiskLevelMedium
	}
	return RiskLevelLow
}

// RecommendedActions returns a copy of the action list for level.
func RecommendedActions(level RiskLevel) []string {
	return append([]string{}, recommendedActions[level]...)
}

// riskInputFor derives scorer input from a forward trace.
func riskInputFor(fwd *ForwardTrace, ing *model.Ingredient, now time.Time) RiskInput {
	in := RiskInput{
		CustomerOrders: fwd.Impact.CustomerOrdersAffected,
		ShippedPallets: fwd.Impact.ShippedPallets,
	}
	for i, r := range fwd.AffectedProductionRuns {
		days := daysBetween(r.StartTime, now)
		if i == 0 || days > in.DaysSinceEarly {
			in.DaysSinceEarly = days
		}
		in.HasProduction = true
	}
	if ing != nil {
		in.HasAllergen = len(ing.Allergens) > 0
		in.Refrigerated = ing.StorageType == model.StorageRefrigerated
		in.NutsOrWheat = ing.HasAllergen("nuts") || ing.HasAllergen("wheat")
	}
	return in
}

// daysBetween counts whole days from from to to, never negative.
func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// RunRef is an affected run placed in an urgency bucket.
type RunRef struct {
	ProductionRunID     uint   `json:"productionRunId"`
	DailyLot            string `json:"dailyLot"`
	RecipeName          string `json:"recipeName"`
	DaysSinceProduction int    `json:"daysSinceProduction"`
	ShippedPallets      int    `json:"shippedPallets"`
	InventoryPallets    int    `json:"inventoryPallets"`
}

type UrgencyBuckets struct {
	ImmediateAction []RunRef `json:"immediateAction"`
	HighPriority    []RunRef `json:"highPriority"`
	MediumPriority  []RunRef `json:"mediumPriority"`
	LowPriority     []RunRef `json:"lowPriority"`
}

// classifyUrgency places every affected run into exactly one bucket.
func classifyUrgency(runs []AffectedRun, now time.Time) UrgencyBuckets {
	b := UrgencyBuckets{
		ImmediateAction: []RunRef{},
		HighPriority:    []RunRef{},
		MediumPriority:  []RunRef{},
		LowPriority:     []RunRef{},
	}
	for _, r := range runs {
		ref := RunRef{
			ProductionRunID:     r.ID,
			DailyLot:            r.DailyLot,
			RecipeName:          r.RecipeName,
			DaysSinceProduction: daysBetween(r.StartTime, now),
		}
		for _, p := range r.Pallets {
			switch {
			case p.reachedCustomer():
				ref.ShippedPallets++
			case p.ShippingStatus.InInventory():
				ref.InventoryPallets++
			}
		}
		switch {
		case ref.ShippedPallets > 0 && ref.DaysSinceProduction <= immediateWindowDays:
			b.ImmediateAction = append(b.ImmediateAction, ref)
		case ref.ShippedPallets > 0 && ref.DaysSinceProduction <= highWindowDays:
			b.HighPriority = append(b.HighPriority, ref)
		case ref.InventoryPallets > 0:
			b.MediumPriority = append(b.MediumPriority, ref)
		default:
			b.LowPriority = append(b.LowPriority, ref)
		}
	}
	return b
}
