package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-bakery-trace/internal/bootstrap"
	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/internal/service"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type demoIngredient struct {
	Name      string
	Allergens []string
	Storage   model.StorageType
}

type demoLot struct {
	Code        string
	SupplierLot string
	Ingredient  int
	Supplier    int
	ReceivedAgo int // days
	ShelfLife   int // days
	Quantity    int64
	Unit        string
}

type demoUse struct {
	Lot      string
	Quantity int64
}

type demoPallet struct {
	Code     string
	Quantity int
	Location string
	Order    string // empty stays in inventory
}

type demoRun struct {
	Prefix   string
	Recipe   int
	StartAgo int // days
	Planned  int
	Uses     []demoUse
	Pallets  []demoPallet
	Complete bool
}

type demoDataset struct {
	Ingredients []demoIngredient
	Suppliers   []string
	Recipes     []string
	Lots        []demoLot
	Runs        []demoRun
}

// demoData is a small bakery: one flour lot feeding two runs, one of which
// has a shipped and an in-stock pallet, plus a nut torte with its own lots.
func demoData() demoDataset {
	return demoDataset{
		Ingredients: []demoIngredient{
			{Name: "Wheat Flour", Allergens: []string{"wheat", "gluten"}, Storage: model.StorageDry},
			{Name: "Hazelnuts", Allergens: []string{"nuts"}, Storage: model.StorageDry},
			{Name: "Butter", Allergens: []string{"milk"}, Storage: model.StorageRefrigerated},
			{Name: "Cane Sugar", Storage: model.StorageDry},
		},
		Suppliers: []string{"Supplier A Mills", "Nordic Nuts", "Valley Dairy"},
		Recipes:   []string{"Vanilla Sponge Cake", "Hazelnut Torte"},
		Lots: []demoLot{
			{Code: "FLOUR-SUPPLIER-A-001", SupplierLot: "SAM-24-118", Ingredient: 0, Supplier: 0, ReceivedAgo: 10, ShelfLife: 180, Quantity: 100, Unit: "kg"},
			{Code: "NUTS-NORDIC-001", SupplierLot: "NN-5521", Ingredient: 1, Supplier: 1, ReceivedAgo: 8, ShelfLife: 90, Quantity: 40, Unit: "kg"},
			{Code: "BUTTER-VALLEY-001", SupplierLot: "VD-0907", Ingredient: 2, Supplier: 2, ReceivedAgo: 6, ShelfLife: 20, Quantity: 30, Unit: "kg"},
			{Code: "SUGAR-SUPPLIER-A-001", SupplierLot: "SAM-24-120", Ingredient: 3, Supplier: 0, ReceivedAgo: 10, ShelfLife: 365, Quantity: 50, Unit: "kg"},
		},
		Runs: []demoRun{
			{
				Prefix: "CAKE", Recipe: 0, StartAgo: 3, Planned: 400, Complete: true,
				Uses: []demoUse{{"FLOUR-SUPPLIER-A-001", 25}, {"BUTTER-VALLEY-001", 10}, {"SUGAR-SUPPLIER-A-001", 8}},
				Pallets: []demoPallet{
					{Code: "CAKE-PAL-001", Quantity: 200, Location: "DOCK-1", Order: "SO-1001"},
					{Code: "CAKE-PAL-002", Quantity: 200, Location: "COLD-ROOM-2"},
				},
			},
			{
				Prefix: "CAKE", Recipe: 0, StartAgo: 1, Planned: 300,
				Uses: []demoUse{{"FLOUR-SUPPLIER-A-001", 20}},
			},
			{
				Prefix: "TORTE", Recipe: 1, StartAgo: 2, Planned: 120, Complete: true,
				Uses: []demoUse{{"NUTS-NORDIC-001", 12}, {"SUGAR-SUPPLIER-A-001", 5}, {"BUTTER-VALLEY-001", 6}},
				Pallets: []demoPallet{
					{Code: "TORTE-PAL-001", Quantity: 120, Location: "DOCK-2", Order: "SO-1002"},
				},
			},
		},
	}
}

// dailyLot names the seq-th run of a day, e.g. CAKE-20240814-001.
func dailyLot(prefix string, start time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, start.Format("20060102"), seq)
}

func daysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days).Truncate(time.Hour)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create roles, the admin user and a demo bakery dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := rt.connect()
		if err != nil {
			return err
		}
		admin := bootstrap.Admin{Email: rt.cfg.Admin.Email, FullName: rt.cfg.Admin.FullName, Password: rt.cfg.Admin.Password}
		if err := bootstrap.SeedAccess(db, admin, rt.log); err != nil {
			return err
		}

		var existing int64
		if err := db.Model(&model.IngredientLot{}).Where("internal_lot_code = ?", demoData().Lots[0].Code).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Demo dataset already present")
			return nil
		}
		return seedDemo(cmd.Context(), db, demoData(), time.Now().UTC(), rt.log)
	},
}

// seedDemo loads the dataset through the write services so every business
// rule applies to the demo data too.
func seedDemo(ctx context.Context, db *gorm.DB, data demoDataset, now time.Time, log *zap.Logger) error {
	catalogRepo := repository.NewCatalogRepo(db)
	lotRepo := repository.NewLotRepo(db)
	runRepo := repository.NewProductionRepo(db)
	palletRepo := repository.NewPalletRepo(db)

	catalog := service.NewCatalogService(catalogRepo)
	lots := service.NewLotService(db, lotRepo, catalogRepo, nil, log)
	runs := service.NewProductionService(db, runRepo, lotRepo, palletRepo, catalogRepo, nil, log)
	pallets := service.NewPalletService(db, palletRepo, runRepo, nil, log)

	ingredientIDs := make([]uint, len(data.Ingredients))
	for i, ing := range data.Ingredients {
		created, err := catalog.CreateIngredient(ctx, &service.CreateIngredientRequest{
			Name:        ing.Name,
			Allergens:   ing.Allergens,
			StorageType: ing.Storage,
		}, cliActor)
		if err != nil {
			return fmt.Errorf("ingredient %s: %w", ing.Name, err)
		}
		ingredientIDs[i] = created.ID
	}

	supplierIDs := make([]uint, len(data.Suppliers))
	for i, name := range data.Suppliers {
		created, err := catalog.CreateSupplier(ctx, &service.CreateSupplierRequest{Name: name}, cliActor)
		if err != nil {
			return fmt.Errorf("supplier %s: %w", name, err)
		}
		supplierIDs[i] = created.ID
	}

	recipeIDs := make([]uint, len(data.Recipes))
	for i, name := range data.Recipes {
		created, err := catalog.CreateRecipe(ctx, &service.CreateRecipeRequest{Name: name, Version: 1}, cliActor)
		if err != nil {
			return fmt.Errorf("recipe %s: %w", name, err)
		}
		recipeIDs[i] = created.ID
	}

	lotIDs := map[string]uint{}
	for _, l := range data.Lots {
		received := daysAgo(now, l.ReceivedAgo)
		created, err := lots.Receive(ctx, &service.ReceiveLotRequest{
			IngredientID:     ingredientIDs[l.Ingredient],
			SupplierID:       supplierIDs[l.Supplier],
			SupplierLotCode:  l.SupplierLot,
			InternalLotCode:  l.Code,
			ReceivedDate:     received,
			ExpirationDate:   received.AddDate(0, 0, l.ShelfLife),
			QuantityReceived: decimal.NewFromInt(l.Quantity),
			Unit:             l.Unit,
		}, cliActor)
		if err != nil {
			return fmt.Errorf("lot %s: %w", l.Code, err)
		}
		passed := &service.UpdateQualityRequest{QualityStatus: model.QualityPassed}
		if _, err := lots.UpdateQuality(ctx, idString(created.ID), passed, cliActor); err != nil {
			return fmt.Errorf("lot %s quality: %w", l.Code, err)
		}
		lotIDs[l.Code] = created.ID
	}

	seq := map[string]int{}
	for _, r := range data.Runs {
		start := daysAgo(now, r.StartAgo)
		key := r.Prefix + start.Format("20060102")
		seq[key]++

		run, err := runs.Create(ctx, &service.CreateRunRequest{
			RecipeID:        recipeIDs[r.Recipe],
			DailyLot:        dailyLot(r.Prefix, start, seq[key]),
			PlannedQuantity: r.Planned,
			StartTime:       start,
		}, cliActor)
		if err != nil {
			return fmt.Errorf("run %s: %w", r.Prefix, err)
		}
		runID := idString(run.ID)

		for _, u := range r.Uses {
			if _, err := runs.Consume(ctx, runID, &service.ConsumeRequest{
				IngredientLotID: lotIDs[u.Lot],
				QuantityUsed:    decimal.NewFromInt(u.Quantity),
			}, cliActor); err != nil {
				return fmt.Errorf("run %s consume %s: %w", run.DailyLot, u.Lot, err)
			}
		}

		inProgress := model.ProductionInProgress
		if _, err := runs.Update(ctx, runID, &service.UpdateRunRequest{Status: &inProgress}, cliActor); err != nil {
			return fmt.Errorf("run %s start: %w", run.DailyLot, err)
		}

		palletIDs := make([]uint, len(r.Pallets))
		for i, p := range r.Pallets {
			created, err := pallets.Create(ctx, &service.CreatePalletRequest{
				ProductionRunID: run.ID,
				PalletCode:      p.Code,
				QuantityPacked:  p.Quantity,
				Location:        p.Location,
			}, cliActor)
			if err != nil {
				return fmt.Errorf("pallet %s: %w", p.Code, err)
			}
			palletIDs[i] = created.ID
		}

		if !r.Complete {
			continue
		}
		completed := model.ProductionCompleted
		actual := r.Planned
		end := start.Add(6 * time.Hour)
		if _, err := runs.Update(ctx, runID, &service.UpdateRunRequest{
			Status:         &completed,
			ActualQuantity: &actual,
			EndTime:        &end,
		}, cliActor); err != nil {
			return fmt.Errorf("run %s complete: %w", run.DailyLot, err)
		}

		for i, p := range r.Pallets {
			if p.Order == "" {
				continue
			}
			shippedAt := end.Add(12 * time.Hour)
			if _, err := pallets.Ship(ctx, idString(palletIDs[i]), &service.ShipPalletRequest{
				CustomerOrder: p.Order,
				ShippedAt:     &shippedAt,
			}, cliActor); err != nil {
				return fmt.Errorf("pallet %s ship: %w", p.Code, err)
			}
		}
	}

	log.Info("demo dataset created",
		zap.Int("lots", len(data.Lots)),
		zap.Int("runs", len(data.Runs)))
	return nil
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
