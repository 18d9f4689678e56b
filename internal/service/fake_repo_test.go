package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var baseTime = time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)

// fakeTraceRepo is an in-memory provenance graph.
type fakeTraceRepo struct {
	lots    map[uint]model.IngredientLot
	runs    map[uint]model.ProductionRun
	pallets map[uint]model.Pallet
	usages  []model.BatchIngredient
	err     error
}

func newFakeTraceRepo() *fakeTraceRepo {
	return &fakeTraceRepo{
		lots:    map[uint]model.IngredientLot{},
		runs:    map[uint]model.ProductionRun{},
		pallets: map[uint]model.Pallet{},
	}
}

func (f *fakeTraceRepo) GetLotWithUsages(_ context.Context, id uint) (*repository.LotLineage, error) {
	if f.err != nil {
		return nil, f.err
	}
	lot, ok := f.lots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := &repository.LotLineage{Lot: lot}
	for _, u := range f.usages {
		if u.IngredientLotID != id {
			continue
		}
		run := f.runs[u.ProductionRunID]
		run.Pallets = f.palletsOf(run.ID)
		u.ProductionRun = &run
		out.Usages = append(out.Usages, u)
	}
	return out, nil
}

func (f *fakeTraceRepo) GetPalletWithLineage(_ context.Context, id uint) (*repository.PalletLineage, error) {
	if f.err != nil {
		return nil, f.err
	}
	pallet, ok := f.pallets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	run := f.runs[pallet.ProductionRunID]
	pallet.ProductionRun = &run
	out := &repository.PalletLineage{Pallet: pallet}
	for _, u := range f.usages {
		if u.ProductionRunID != pallet.ProductionRunID {
			continue
		}
		lot := f.lots[u.IngredientLotID]
		u.IngredientLot = &lot
		out.Usages = append(out.Usages, u)
	}
	return out, nil
}

func (f *fakeTraceRepo) palletsOf(runID uint) []model.Pallet {
	var out []model.Pallet
	for _, p := range f.pallets {
		if p.ProductionRunID == runID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTraceRepo) addLot(id uint, code string, ing *model.Ingredient, sup *model.Supplier) *model.IngredientLot {
	lot := model.IngredientLot{
		IngredientID:      ing.ID,
		Ingredient:        ing,
		SupplierID:        sup.ID,
		Supplier:          sup,
		InternalLotCode:   code,
		SupplierLotCode:   "SUP-" + code,
		ReceivedDate:      baseTime.AddDate(0, 0, -10),
		ExpirationDate:    baseTime.AddDate(0, 6, 0),
		QuantityReceived:  decimal.NewFromInt(100),
		QuantityRemaining: decimal.NewFromInt(100),
		Unit:              "kg",
		QualityStatus:     model.QualityPassed,
	}
	lot.ID = id
	f.lots[id] = lot
	return &lot
}

func (f *fakeTraceRepo) updateLot(id uint, fn func(*model.IngredientLot)) {
	lot := f.lots[id]
	fn(&lot)
	f.lots[id] = lot
}

func (f *fakeTraceRepo) addRun(id uint, dailyLot, recipe string, start time.Time) {
	run := model.ProductionRun{
		RecipeID:        id,
		Recipe:          &model.Recipe{Name: recipe, Version: 1},
		DailyLot:        dailyLot,
		PlannedQuantity: 100,
		StartTime:       start,
		Status:          model.ProductionCompleted,
		QualityStatus:   model.QualityPassed,
	}
	run.ID = id
	f.runs[id] = run
}

func (f *fakeTraceRepo) addPallet(id, runID uint, code string, status model.ShippingStatus, order string) {
	p := model.Pallet{
		ProductionRunID: runID,
		PalletCode:      code,
		QuantityPacked:  40,
		Location:        "WH-A",
		ShippingStatus:  status,
		CustomerOrder:   order,
	}
	p.ID = id
	p.CreatedAt = f.runs[runID].StartTime.Add(time.Duration(id) * time.Minute)
	if status == model.ShippingShipped {
		at := p.CreatedAt.Add(time.Hour)
		p.ShippedAt = &at
	}
	f.pallets[id] = p
}

func (f *fakeTraceRepo) use(id, lotID, runID uint, qty int64, at time.Time) {
	f.usages = append(f.usages, model.BatchIngredient{
		ID:              id,
		ProductionRunID: runID,
		IngredientLotID: lotID,
		QuantityUsed:    decimal.NewFromInt(qty),
		AddedAt:         at,
		AddedBy:         "baker@bakery.local",
	})
}

// recallLot applies the state an executed recall leaves behind: the lot
// quarantined and stamped, its runs RECALLED, their pallets moved through
// ShippingStatus.AfterRecall and stamped.
func (f *fakeTraceRepo) recallLot(lotID uint, at time.Time) {
	f.updateLot(lotID, func(l *model.IngredientLot) {
		l.QualityStatus = model.QualityQuarantined
		l.RecalledAt = &at
	})
	for _, u := range f.usages {
		if u.IngredientLotID != lotID {
			continue
		}
		run := f.runs[u.ProductionRunID]
		run.Status = model.ProductionRecalled
		f.runs[run.ID] = run
		for id, p := range f.pallets {
			if p.ProductionRunID != run.ID {
				continue
			}
			p.ShippingStatus = p.ShippingStatus.AfterRecall()
			if p.RecalledAt == nil {
				p.RecalledAt = &at
			}
			f.pallets[id] = p
		}
	}
}

// deleteRun applies the state a run delete leaves behind: usages and pallets
// gone, remaining quantities recomputed from the usages left.
func (f *fakeTraceRepo) deleteRun(runID uint) {
	kept := f.usages[:0]
	touched := map[uint]bool{}
	for _, u := range f.usages {
		if u.ProductionRunID == runID {
			touched[u.IngredientLotID] = true
			continue
		}
		kept = append(kept, u)
	}
	f.usages = kept
	for id, p := range f.pallets {
		if p.ProductionRunID == runID {
			delete(f.pallets, id)
		}
	}
	delete(f.runs, runID)

	for lotID := range touched {
		used := decimal.Zero
		for _, u := range f.usages {
			if u.IngredientLotID == lotID {
				used = used.Add(u.QuantityUsed)
			}
		}
		f.updateLot(lotID, func(l *model.IngredientLot) {
			l.QuantityRemaining = l.QuantityReceived.Sub(used)
		})
	}
}

func ingredient(id uint, name string, storage model.StorageType, allergens ...string) *model.Ingredient {
	ing := &model.Ingredient{
		Name:        name,
		Allergens:   datatypes.JSONSlice[string](allergens),
		StorageType: storage,
	}
	ing.ID = id
	return ing
}

func supplier(id uint, name string) *model.Supplier {
	s := &model.Supplier{Name: name}
	s.ID = id
	return s
}

// flourExample builds the two-run flour scenario: one active cake pallet and
// one shipped cupcake pallet on order CO-2024-001.
func flourExample() *fakeTraceRepo {
	f := newFakeTraceRepo()
	flour := ingredient(1, "All-purpose flour", model.StorageDry, "wheat")
	f.addLot(1, "FLOUR-SUPPLIER-A-001", flour, supplier(1, "Supplier A"))
	f.addRun(10, "CAKE-20240814-001", "Chocolate Cake", baseTime.AddDate(0, 0, -1))
	f.addRun(11, "CUPCAKE-20240814-001", "Vanilla Cupcake", baseTime.AddDate(0, 0, -1).Add(2*time.Hour))
	f.addPallet(100, 10, "CAKE-PAL-001", model.ShippingActive, "")
	f.addPallet(101, 11, "CUPCAKE-PAL-001", model.ShippingShipped, "CO-2024-001")
	f.use(1, 1, 10, 25, baseTime.AddDate(0, 0, -1))
	f.use(2, 1, 11, 10, baseTime.AddDate(0, 0, -1).Add(2*time.Hour))
	return f
}

// nutsExample builds a lot with a nuts allergen feeding one run from a day ago
// that shipped fifty pallets to distinct orders.
func nutsExample() *fakeTraceRepo {
	f := newFakeTraceRepo()
	nuts := ingredient(2, "Hazelnut paste", model.StorageDry, "nuts")
	f.addLot(5, "NUTS-001", nuts, supplier(2, "Nut Co"))
	f.addRun(20, "PRALINE-20240814-001", "Praline Cake", baseTime.AddDate(0, 0, -1))
	for i := uint(1); i <= 50; i++ {
		f.addPallet(200+i, 20, fmt.Sprintf("PRALINE-PAL-%03d", i), model.ShippingShipped, fmt.Sprintf("CO-%03d", i))
	}
	f.use(1, 5, 20, 12, baseTime.AddDate(0, 0, -1))
	return f
}

func fixedClock() time.Time { return baseTime }
