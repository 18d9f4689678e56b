package service

import (
	"slices"
	"time"

	"go-bakery-trace/internal/repository"

	"github.com/shopspring/decimal"
)

var immediateRecallActions = []string{
	"Stop all use of the affected ingredient lot",
	"Quarantine remaining inventory from affected production runs",
	"Identify and contact customers who received affected product",
	"Notify the quality assurance manager and food safety team",
	"Preserve production, receiving and shipping records",
}

type milestone struct {
	offset time.Duration
	label  string
	action string
}

var recallTimeline = []milestone{
	{time.Hour, "HOUR_1", "Quarantine affected inventory and stop ingredient use"},
	{4 * time.Hour, "HOUR_4", "Confirm traceability scope and affected customers"},
	{8 * time.Hour, "HOUR_8", "Notify affected customers"},
	{24 * time.Hour, "DAY_1", "Submit regulatory notification where required"},
	{48 * time.Hour, "DAY_2", "Retrieve shipped product and reconcile quantities"},
	{7 * 24 * time.Hour, "WEEK_1", "Complete root-cause investigation and corrective actions"},
}

type Notifications struct {
	CustomersAffected              int  `json:"customersAffected"`
	RegulatoryNotificationRequired bool `json:"regulatoryNotificationRequired"`
	MediaNotificationRequired      bool `json:"mediaNotificationRequired"`
}

type InventoryQuarantine struct {
	ProductionRuns              int             `json:"productionRuns"`
	Pallets                     int             `json:"pallets"`
	Units                       int             `json:"units"`
	IngredientQuantityRemaining decimal.Decimal `json:"ingredientQuantityRemaining"`
	Unit                        string          `json:"unit"`
}

type Milestone struct {
	Milestone string    `json:"milestone"`
	Action    string    `json:"action"`
	DueAt     time.Time `json:"dueAt"`
}

type ActionPlan struct {
	ImmediateActions    []string            `json:"immediateActions"`
	Notifications       Notifications       `json:"notifications"`
	InventoryQuarantine InventoryQuarantine `json:"inventoryQuarantine"`
	Timeline            []Milestone         `json:"timeline"`
}

type RecallAssessment struct {
	IngredientLot          LotSummary     `json:"ingredientLot"`
	AffectedProductionRuns []AffectedRun  `json:"affectedProductionRuns"`
	Impact                 ImpactSummary  `json:"impact"`
	RiskAssessment         RiskAssessment `json:"riskAssessment"`
	Urgency                UrgencyBuckets `json:"urgency"`
	ActionPlan             ActionPlan     `json:"actionPlan"`
	AssessedAt             time.Time      `json:"assessedAt"`
	ExpiresAt              time.Time      `json:"expiresAt"`
}

// buildActionPlan turns a scored trace into the recall plan.
func buildActionPlan(fwd *ForwardTrace, risk RiskAssessment, assessedAt time.Time) ActionPlan {
	q := InventoryQuarantine{
		Pallets:                     fwd.Impact.InventoryPallets,
		IngredientQuantityRemaining: fwd.IngredientLot.QuantityRemaining,
		Unit:                        fwd.IngredientLot.Unit,
	}
	for _, r := range fwd.AffectedProductionRuns {
		held := false
		for _, p := range r.Pallets {
			if p.ShippingStatus.InInventory() {
				q.Units += p.QuantityPacked
				held = true
			}
		}
		if held {
			q.ProductionRuns++
		}
	}

	timeline := make([]Milestone, 0, len(recallTimeline))
	for _, m := range recallTimeline {
		timeline = append(timeline, Milestone{
			Milestone: m.label,
			Action:    m.action,
			DueAt:     assessedAt.Add(m.offset),
		})
	}

	return ActionPlan{
		ImmediateActions: append([]string{}, immediateRecallActions...),
		Notifications: Notifications{
			CustomersAffected:              fwd.Impact.CustomerOrdersAffected,
			RegulatoryNotificationRequired: slices.Contains(risk.RecommendedActions, ActionRegulatoryNotification),
			MediaNotificationRequired:      slices.Contains(risk.RecommendedActions, ActionMediaAlert),
		},
		InventoryQuarantine: q,
		Timeline:            timeline,
	}
}

// buildRecallAssessment scores the forward trace of a lot as of now. The
// result is valid for validity.
func buildRecallAssessment(l *repository.LotLineage, now time.Time, validity time.Duration) *RecallAssessment {
	fwd := buildForwardTrace(l)
	risk := ScoreRisk(riskInputFor(fwd, l.Lot.Ingredient, now))
	return &RecallAssessment{
		IngredientLot:          fwd.IngredientLot,
		AffectedProductionRuns: fwd.AffectedProductionRuns,
		Impact:                 fwd.Impact,
		RiskAssessment:         risk,
		Urgency:                classifyUrgency(fwd.AffectedProductionRuns, now),
		ActionPlan:             buildActionPlan(fwd, risk, now),
		AssessedAt:             now,
		ExpiresAt:              now.Add(validity),
	}
}
