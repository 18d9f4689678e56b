package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-bakery-trace/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessRecall_RecalledShipmentsKeepExposure(t *testing.T) {
	repo := nutsExample()
	svc := newTestTraceService(repo)

	before, err := svc.AssessRecall(context.Background(), "5")
	require.NoError(t, err)

	repo.recallLot(5, baseTime)
	after, err := svc.AssessRecall(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, 50, after.Impact.ShippedPallets)
	assert.Equal(t, 50, after.Impact.RecalledPallets)
	assert.Equal(t, 0, after.Impact.InventoryPallets)
	assert.Equal(t, 50, after.Impact.CustomerOrdersAffected)
	assert.Equal(t, before.RiskAssessment, after.RiskAssessment)
	assert.Equal(t, 90, after.RiskAssessment.TotalRiskScore)
	assert.Equal(t, RiskLevelCritical, after.RiskAssessment.RiskLevel)
	assert.Equal(t, 50, after.ActionPlan.Notifications.CustomersAffected)
	require.Len(t, after.Urgency.ImmediateAction, 1)
	assert.Equal(t, 50, after.Urgency.ImmediateAction[0].ShippedPallets)

	p := after.AffectedProductionRuns[0].Pallets[0]
	assert.Equal(t, model.ShippingShipped, p.ShippingStatus)
	require.NotNil(t, p.RecalledAt)
	assert.Equal(t, baseTime, *p.RecalledAt)
}

func TestAssessRecall_ShippedPalletsInRecalledStatus(t *testing.T) {
	repo := nutsExample()
	for id, p := range repo.pallets {
		p.ShippingStatus = model.ShippingRecalled
		repo.pallets[id] = p
	}

	res, err := newTestTraceService(repo).AssessRecall(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, 50, res.Impact.ShippedPallets)
	assert.Equal(t, 50, res.Impact.RecalledPallets)
	assert.Equal(t, 50, res.Impact.CustomerOrdersAffected)
	assert.Equal(t, 90, res.RiskAssessment.TotalRiskScore)
	assert.Equal(t, RiskLevelCritical, res.RiskAssessment.RiskLevel)
	assert.Len(t, res.Urgency.ImmediateAction, 1)
}

// sharedRunExample is the flour example with a sugar lot also consumed by the
// cupcake run that shipped.
func sharedRunExample() *fakeTraceRepo {
	repo := flourExample()
	sugar := ingredient(3, "Cane sugar", model.StorageDry)
	repo.addLot(2, "SUGAR-SUPPLIER-B-001", sugar, supplier(3, "Supplier B"))
	repo.use(3, 2, 11, 5, baseTime.AddDate(0, 0, -1).Add(3*time.Hour))
	return repo
}

func TestTrace_AfterRecallExecution(t *testing.T) {
	repo := sharedRunExample()
	svc := newTestTraceService(repo)

	sugarBefore, err := svc.AssessRecall(context.Background(), "2")
	require.NoError(t, err)

	repo.recallLot(1, baseTime)

	t.Run("recalled lot", func(t *testing.T) {
		fwd, err := svc.ForwardTrace(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, 2, fwd.Impact.TotalProductionRuns)
		assert.Equal(t, 2, fwd.Impact.TotalPallets)
		assert.Equal(t, 1, fwd.Impact.ShippedPallets)
		assert.Equal(t, 0, fwd.Impact.InventoryPallets)
		assert.Equal(t, 2, fwd.Impact.RecalledPallets)
		assert.Equal(t, []string{"CO-2024-001"}, fwd.Impact.CustomerOrders)

		res, err := svc.AssessRecall(context.Background(), "1")
		require.NoError(t, err)
		require.Len(t, res.Urgency.ImmediateAction, 1)
		assert.Equal(t, "CUPCAKE-20240814-001", res.Urgency.ImmediateAction[0].DailyLot)
		assert.Empty(t, res.Urgency.MediumPriority)
		require.Len(t, res.Urgency.LowPriority, 1)
		assert.Equal(t, "CAKE-20240814-001", res.Urgency.LowPriority[0].DailyLot)
		assert.Equal(t, 0, res.ActionPlan.InventoryQuarantine.Pallets)
		assert.Equal(t, 1, res.ActionPlan.Notifications.CustomersAffected)
	})

	t.Run("other lot of a recalled run", func(t *testing.T) {
		fwd, err := svc.ForwardTrace(context.Background(), "2")
		require.NoError(t, err)
		assert.Equal(t, 1, fwd.Impact.ShippedPallets)
		assert.Equal(t, 1, fwd.Impact.RecalledPallets)
		assert.Equal(t, []string{"CO-2024-001"}, fwd.Impact.CustomerOrders)
		assert.Equal(t, model.ProductionRecalled, fwd.AffectedProductionRuns[0].Status)

		res, err := svc.AssessRecall(context.Background(), "2")
		require.NoError(t, err)
		assert.Equal(t, sugarBefore.RiskAssessment, res.RiskAssessment)
		assert.Equal(t, 1, res.ActionPlan.Notifications.CustomersAffected)
		assert.Len(t, res.Urgency.ImmediateAction, 1)
	})

	t.Run("backward from shipped pallet", func(t *testing.T) {
		bwd, err := svc.BackwardTrace(context.Background(), "101")
		require.NoError(t, err)
		assert.Equal(t, model.ShippingShipped, bwd.Pallet.ShippingStatus)
		assert.NotNil(t, bwd.Pallet.RecalledAt)
		assert.Len(t, bwd.IngredientLots, 2)
	})
}

func TestTrace_AfterRunDelete(t *testing.T) {
	repo := flourExample()
	svc := newTestTraceService(repo)

	repo.deleteRun(10)

	fwd, err := svc.ForwardTrace(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, fwd.AffectedProductionRuns, 1)
	assert.Equal(t, "CUPCAKE-20240814-001", fwd.AffectedProductionRuns[0].DailyLot)
	assert.Equal(t, 1, fwd.Impact.TotalProductionRuns)
	assert.Equal(t, 1, fwd.Impact.TotalPallets)
	assert.Equal(t, 1, fwd.Impact.ShippedPallets)
	assert.Equal(t, 0, fwd.Impact.InventoryPallets)
	assert.Equal(t, 1, fwd.Impact.CustomerOrdersAffected)
	assert.True(t, fwd.IngredientLot.QuantityRemaining.Equal(decimal.NewFromInt(90)), fwd.IngredientLot.QuantityRemaining.String())

	res, err := svc.AssessRecall(context.Background(), "1")
	require.NoError(t, err)
	q := res.ActionPlan.InventoryQuarantine
	assert.Equal(t, 0, q.ProductionRuns)
	assert.Equal(t, 0, q.Pallets)
	assert.True(t, q.IngredientQuantityRemaining.Equal(decimal.NewFromInt(90)))
	assert.Empty(t, res.Urgency.MediumPriority)
	assert.Len(t, res.Urgency.ImmediateAction, 1)

	_, err = svc.BackwardTrace(context.Background(), "100")
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
