package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"

	"github.com/shopspring/decimal"
)

// Risk factor types and severities.
const (
	RiskQualityFailure    = "QUALITY_FAILURE"
	RiskExpiredIngredient = "EXPIRED_INGREDIENT"
	RiskNearExpiration    = "NEAR_EXPIRATION"
	RiskAllergenPresent   = "ALLERGEN_PRESENT"

	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
)

const unknownSupplier = "Unknown supplier"

// buildBackwardTrace walks pallet -> run -> usages -> lots and analyses the
// lots against now.
func buildBackwardTrace(l *repository.PalletLineage, now time.Time, nearExpiry time.Duration) *BackwardTrace {
	pallet := summarizePallet(&l.Pallet)
	var run RunSummary
	if l.Pallet.ProductionRun != nil {
		run = summarizeRun(l.Pallet.ProductionRun)
	}

	byLot := make(map[uint]*TracedLot)
	for i := range l.Usages {
		u := &l.Usages[i]
		if u.IngredientLot == nil {
			continue
		}
		tl, ok := byLot[u.IngredientLotID]
		if !ok {
			tl = &TracedLot{
				LotSummary:   summarizeLot(u.IngredientLot),
				QuantityUsed: decimal.Zero,
				UsedAt:       u.AddedAt,
				AddedBy:      u.AddedBy,
			}
			byLot[u.IngredientLotID] = tl
		}
		tl.QuantityUsed = tl.QuantityUsed.Add(u.QuantityUsed)
		if u.AddedAt.Before(tl.UsedAt) {
			tl.UsedAt = u.AddedAt
			tl.AddedBy = u.AddedBy
		}
	}

	lots := make([]TracedLot, 0, len(byLot))
	for _, tl := range byLot {
		lots = append(lots, *tl)
	}
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].UsedAt.Equal(lots[j].UsedAt) {
			return lots[i].UsedAt.Before(lots[j].UsedAt)
		}
		return lots[i].ID < lots[j].ID
	})

	chain := []ChainNode{palletNode(pallet, 1, run.RecipeName)}
	if run.ID != 0 {
		chain = append(chain, runNode(run, 2))
	}
	for _, tl := range lots {
		chain = append(chain, lotNode(tl.LotSummary, 3))
	}
	sortChain(chain, true)

	suppliers := analyzeSuppliers(lots)
	return &BackwardTrace{
		Pallet:            pallet,
		ProductionRun:     run,
		IngredientLots:    lots,
		TraceabilityChain: chain,
		RiskFactors:       detectRiskFactors(lots, now, nearExpiry),
		SupplierAnalysis:  suppliers,
		Summary:           summarizeLots(lots, len(suppliers)),
	}
}

func detectRiskFactors(lots []TracedLot, now time.Time, nearExpiry time.Duration) []RiskFactor {
	factors := []RiskFactor{}
	for _, l := range lots {
		add := func(kind, severity, msg string) {
			factors = append(factors, RiskFactor{
				Type:            kind,
				Severity:        severity,
				IngredientLotID: l.ID,
				LotCode:         l.InternalLotCode,
				Message:         msg,
			})
		}
		if l.QualityStatus == model.QualityFailed {
			add(RiskQualityFailure, SeverityCritical,
				fmt.Sprintf("Lot %s failed quality inspection", l.InternalLotCode))
		}
		switch {
		case !l.ExpirationDate.After(now):
			add(RiskExpiredIngredient, SeverityHigh,
				fmt.Sprintf("Lot %s expired on %s", l.InternalLotCode, l.ExpirationDate.Format(time.DateOnly)))
		case !l.ExpirationDate.After(now.Add(nearExpiry)):
			add(RiskNearExpiration, SeverityMedium,
				fmt.Sprintf("Lot %s expires on %s", l.InternalLotCode, l.ExpirationDate.Format(time.DateOnly)))
		}
		if len(l.Allergens) > 0 {
			add(RiskAllergenPresent, SeverityMedium,
				fmt.Sprintf("Lot %s contains allergens: %s", l.InternalLotCode, strings.Join(l.Allergens, ", ")))
		}
	}
	return factors
}

func analyzeSuppliers(lots []TracedLot) []SupplierSummary {
	byName := make(map[string]*SupplierSummary)
	for _, l := range lots {
		name := l.SupplierName
		if name == "" {
			name = unknownSupplier
		}
		s, ok := byName[name]
		if !ok {
			s = &SupplierSummary{SupplierName: name, TotalQuantityUsed: decimal.Zero}
			byName[name] = s
		}
		s.TotalQuantityUsed = s.TotalQuantityUsed.Add(l.QuantityUsed)
		s.LotCount++
		if l.QualityStatus == model.QualityFailed || l.QualityStatus == model.QualityQuarantined {
			s.QualityIssues++
		}
	}

	out := make([]SupplierSummary, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierName < out[j].SupplierName })
	return out
}

func summarizeLots(lots []TracedLot, suppliers int) BackwardSummary {
	counts := make(map[model.QualityStatus]int)
	for _, l := range lots {
		counts[l.QualityStatus]++
	}
	return BackwardSummary{
		TotalIngredientLots: len(lots),
		TotalSuppliers:      suppliers,
		QualityStatusCounts: counts,
	}
}
