package service

import "sort"

func lotNode(l LotSummary, level int) ChainNode {
	return ChainNode{
		Level:     level,
		Type:      NodeIngredientLot,
		ID:        l.ID,
		Code:      l.InternalLotCode,
		Name:      l.IngredientName,
		Timestamp: l.ReceivedDate,
		Status:    string(l.QualityStatus),
	}
}

func runNode(r RunSummary, level int) ChainNode {
	return ChainNode{
		Level:     level,
		Type:      NodeProductionRun,
		ID:        r.ID,
		Code:      r.DailyLot,
		Name:      r.RecipeName,
		Timestamp: r.StartTime,
		Status:    string(r.Status),
	}
}

func palletNode(p PalletSummary, level int, productName string) ChainNode {
	return ChainNode{
		Level:     level,
		Type:      NodePallet,
		ID:        p.ID,
		Code:      p.PalletCode,
		Name:      productName,
		Timestamp: p.PackedAt,
		Status:    string(p.ShippingStatus),
	}
}

// sortChain orders nodes by level, then timestamp (ascending or descending),
// then ID so equal timestamps stay deterministic.
func sortChain(nodes []ChainNode, descending bool) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			if descending {
				return a.Timestamp.After(b.Timestamp)
			}
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.ID < b.ID
	})
}
