package service

import (
	"sort"
	"strings"

	"go-bakery-trace/internal/repository"

	"github.com/shopspring/decimal"
)

const unattributedOrderPrefix = "UNATTRIBUTED:"

// buildForwardTrace walks lot -> usages -> runs -> pallets. Runs reached through
// several usages are merged and their quantities summed.
func buildForwardTrace(l *repository.LotLineage) *ForwardTrace {
	lot := summarizeLot(&l.Lot)

	byRun := make(map[uint]*AffectedRun)
	for i := range l.Usages {
		u := &l.Usages[i]
		if u.ProductionRun == nil {
			continue
		}
		ar, ok := byRun[u.ProductionRunID]
		if !ok {
			ar = &AffectedRun{
				RunSummary:   summarizeRun(u.ProductionRun),
				QuantityUsed: decimal.Zero,
				FirstUsedAt:  u.AddedAt,
				Pallets:      []PalletSummary{},
			}
			for j := range u.ProductionRun.Pallets {
				ar.Pallets = append(ar.Pallets, summarizePallet(&u.ProductionRun.Pallets[j]))
			}
			byRun[u.ProductionRunID] = ar
		}
		ar.QuantityUsed = ar.QuantityUsed.Add(u.QuantityUsed)
		if u.AddedAt.Before(ar.FirstUsedAt) {
			ar.FirstUsedAt = u.AddedAt
		}
	}

	runs := make([]AffectedRun, 0, len(byRun))
	for _, ar := range byRun {
		runs = append(runs, *ar)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartTime.Equal(runs[j].StartTime) {
			return runs[i].StartTime.Before(runs[j].StartTime)
		}
		return runs[i].ID < runs[j].ID
	})

	chain := []ChainNode{lotNode(lot, 1)}
	seen := make(map[uint]bool)
	for _, r := range runs {
		chain = append(chain, runNode(r.RunSummary, 2))
		for _, p := range r.Pallets {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			chain = append(chain, palletNode(p, 3, r.RecipeName))
		}
	}
	sortChain(chain, false)

	return &ForwardTrace{
		IngredientLot:          lot,
		AffectedProductionRuns: runs,
		TraceabilityChain:      chain,
		Impact:                 summarizeImpact(runs),
	}
}

// summarizeImpact counts distinct pallets by shipping state. Shipped pallets
// without an order reference each count as their own customer order.
func summarizeImpact(runs []AffectedRun) ImpactSummary {
	impact := ImpactSummary{
		TotalProductionRuns: len(runs),
		CustomerOrders:      []string{},
	}
	seen := make(map[uint]bool)
	orders := make(map[string]bool)
	for _, r := range runs {
		for _, p := range r.Pallets {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			impact.TotalPallets++
			switch {
			case p.reachedCustomer():
				impact.ShippedPallets++
				orders[orderKey(p)] = true
			case p.ShippingStatus.InInventory():
				impact.InventoryPallets++
			}
			if p.recalled() {
				impact.RecalledPallets++
			}
		}
	}
	for o := range orders {
		impact.CustomerOrders = append(impact.CustomerOrders, o)
	}
	sort.Strings(impact.CustomerOrders)
	impact.CustomerOrdersAffected = len(impact.CustomerOrders)
	return impact
}

func orderKey(p PalletSummary) string {
	if o := strings.TrimSpace(p.CustomerOrder); o != "" {
		return o
	}
	return unattributedOrderPrefix + p.PalletCode
}
