package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeOf(err error) string {
	if err == nil {
		return ""
	}
	return AsAppError(err).Code
}

func ptr[T any](v T) *T { return &v }

func TestApplyRunUpdate(t *testing.T) {
	start := baseTime.Add(-4 * time.Hour)
	newRun := func(status model.ProductionStatus, quality model.QualityStatus) *model.ProductionRun {
		return &model.ProductionRun{StartTime: start, Status: status, QualityStatus: quality}
	}

	tests := []struct {
		name string
		run  *model.ProductionRun
		req  UpdateRunRequest
		code string
	}{
		{"start planned run", newRun(model.ProductionPlanned, model.QualityPending),
			UpdateRunRequest{Status: ptr(model.ProductionInProgress)}, ""},
		{"skip to completed", newRun(model.ProductionPlanned, model.QualityPending),
			UpdateRunRequest{Status: ptr(model.ProductionCompleted)}, CodeInvalidTransition},
		{"complete in progress run", newRun(model.ProductionInProgress, model.QualityPending),
			UpdateRunRequest{Status: ptr(model.ProductionCompleted), ActualQuantity: ptr(95)}, ""},
		{"completed run rejects notes", newRun(model.ProductionCompleted, model.QualityPending),
			UpdateRunRequest{Notes: ptr("late note")}, CodeRunLocked},
		{"completed run accepts quality", newRun(model.ProductionCompleted, model.QualityPending),
			UpdateRunRequest{QualityStatus: ptr(model.QualityPassed)}, ""},
		{"passed run rejects quantity", newRun(model.ProductionInProgress, model.QualityPassed),
			UpdateRunRequest{ActualQuantity: ptr(10)}, CodeRunLocked},
		{"recalled run rejects quality", newRun(model.ProductionRecalled, model.QualityPassed),
			UpdateRunRequest{QualityStatus: ptr(model.QualityFailed)}, CodeRunLocked},
		{"end before start", newRun(model.ProductionInProgress, model.QualityPending),
			UpdateRunRequest{EndTime: ptr(start.Add(-time.Minute))}, CodeValidation},
		{"same status is a no-op", newRun(model.ProductionInProgress, model.QualityPending),
			UpdateRunRequest{Status: ptr(model.ProductionInProgress)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := applyRunUpdate(tt.run, &tt.req, baseTime)
			assert.Equal(t, tt.code, codeOf(err))
		})
	}
}

func TestApplyRunUpdate_CompletionStampsEndTime(t *testing.T) {
	run := &model.ProductionRun{StartTime: baseTime.Add(-time.Hour), Status: model.ProductionInProgress}

	require.NoError(t, applyRunUpdate(run, &UpdateRunRequest{Status: ptr(model.ProductionCompleted)}, baseTime))
	require.NotNil(t, run.EndTime)
	assert.Equal(t, baseTime, *run.EndTime)
	assert.Equal(t, model.ProductionCompleted, run.Status)
}

func TestCheckConsumption(t *testing.T) {
	run := &model.ProductionRun{Status: model.ProductionInProgress, StartTime: baseTime}
	lot := func(fn func(*model.IngredientLot)) *model.IngredientLot {
		l := &model.IngredientLot{
			QualityStatus:     model.QualityPassed,
			ExpirationDate:    baseTime.AddDate(0, 1, 0),
			QuantityReceived:  decimal.NewFromInt(50),
			QuantityRemaining: decimal.NewFromInt(20),
		}
		if fn != nil {
			fn(l)
		}
		return l
	}
	recalled := baseTime.Add(-time.Hour)

	tests := []struct {
		name string
		run  *model.ProductionRun
		lot  *model.IngredientLot
		qty  int64
		code string
	}{
		{"ok", run, lot(nil), 20, ""},
		{"too much", run, lot(nil), 21, CodeInsufficientQuantity},
		{"failed lot", run, lot(func(l *model.IngredientLot) { l.QualityStatus = model.QualityFailed }), 1, CodeLotUnusable},
		{"quarantined lot", run, lot(func(l *model.IngredientLot) { l.QualityStatus = model.QualityQuarantined }), 1, CodeLotUnusable},
		{"expired at start", run, lot(func(l *model.IngredientLot) { l.ExpirationDate = baseTime }), 1, CodeLotUnusable},
		{"recalled lot", run, lot(func(l *model.IngredientLot) { l.RecalledAt = &recalled }), 1, CodeLotUnusable},
		{"completed run", &model.ProductionRun{Status: model.ProductionCompleted, StartTime: baseTime}, lot(nil), 1, CodeRunLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkConsumption(tt.run, tt.lot, decimal.NewFromInt(tt.qty))
			assert.Equal(t, tt.code, codeOf(err))
		})
	}
}

func TestCheckShippable(t *testing.T) {
	released := &model.ProductionRun{Status: model.ProductionCompleted, QualityStatus: model.QualityPassed}

	assert.NoError(t, checkShippable(&model.Pallet{ShippingStatus: model.ShippingActive, ProductionRun: released}))
	assert.NoError(t, checkShippable(&model.Pallet{ShippingStatus: model.ShippingPending, ProductionRun: released}))

	err := checkShippable(&model.Pallet{ShippingStatus: model.ShippingShipped, ProductionRun: released})
	assert.Equal(t, CodeInvalidTransition, codeOf(err))

	shippedAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	err = checkShippable(&model.Pallet{ShippingStatus: model.ShippingRecalled, ShippedAt: &shippedAt, ProductionRun: released})
	assert.Equal(t, CodeInvalidTransition, codeOf(err))

	failed := &model.ProductionRun{Status: model.ProductionCompleted, QualityStatus: model.QualityFailed}
	err = checkShippable(&model.Pallet{ShippingStatus: model.ShippingActive, ProductionRun: failed})
	assert.ErrorIs(t, err, ErrRunNotShippable)

	running := &model.ProductionRun{Status: model.ProductionInProgress}
	err = checkShippable(&model.Pallet{ShippingStatus: model.ShippingActive, ProductionRun: running})
	assert.ErrorIs(t, err, ErrRunNotShippable)
}

func TestCheckQualityChange(t *testing.T) {
	lot := &model.IngredientLot{QualityStatus: model.QualityPending}
	assert.NoError(t, checkQualityChange(lot, model.QualityPassed))

	lot.QualityStatus = model.QualityFailed
	assert.Equal(t, CodeInvalidTransition, codeOf(checkQualityChange(lot, model.QualityPassed)))

	at := baseTime
	lot = &model.IngredientLot{QualityStatus: model.QualityQuarantined, RecalledAt: &at}
	assert.Equal(t, CodeAlreadyRecalled, codeOf(checkQualityChange(lot, model.QualityPassed)))
}

func TestCheckReceipt(t *testing.T) {
	valid := func() *ReceiveLotRequest {
		return &ReceiveLotRequest{
			IngredientID:     1,
			SupplierID:       1,
			InternalLotCode:  "FLOUR-001",
			ReceivedDate:     baseTime,
			ExpirationDate:   baseTime.AddDate(0, 3, 0),
			QuantityReceived: decimal.NewFromInt(25),
			Unit:             "kg",
		}
	}
	assert.NoError(t, checkReceipt(valid()))

	req := valid()
	req.QuantityReceived = decimal.Zero
	err := checkReceipt(req)
	assert.Equal(t, CodeValidation, codeOf(err))
	assert.Equal(t, http.StatusBadRequest, AsAppError(err).Status)

	req = valid()
	req.ExpirationDate = req.ReceivedDate
	assert.Equal(t, CodeValidation, codeOf(checkReceipt(req)))

	req = valid()
	req.InternalLotCode = ""
	assert.Contains(t, AsAppError(checkReceipt(req)).Message, "InternalLotCode")
}

func TestAuditBalances(t *testing.T) {
	report := auditBalances([]repository.LotBalance{
		{LotID: 1, QuantityReceived: decimal.NewFromInt(100), QuantityRemaining: decimal.NewFromInt(60), QuantityUsed: decimal.NewFromInt(40)},
		{LotID: 2, QuantityReceived: decimal.NewFromInt(100), QuantityRemaining: decimal.NewFromInt(70), QuantityUsed: decimal.NewFromInt(40)},
	})

	assert.Equal(t, 2, report.LotsChecked)
	require.Len(t, report.Drifted, 1)
	assert.Equal(t, uint(2), report.Drifted[0].LotID)
	assert.True(t, report.Drifted[0].ExpectedRemaining.Equal(decimal.NewFromInt(60)))
	assert.True(t, report.Drifted[0].Drift.Equal(decimal.NewFromInt(10)))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"nuts", "wheat"}, normalizeTags([]string{" Nuts", "wheat", "NUTS", ""}))
	assert.Equal(t, []string{}, normalizeTags(nil))
}

func TestStoreError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_pallets_pallet_code"}
	appErr := AsAppError(storeError(dup, CodeInternal, "x"))
	assert.Equal(t, CodeConflict, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "idx_pallets_pallet_code", appErr.Details["constraint"])

	fk := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, CodeValidation, codeOf(storeError(fk, CodeInternal, "x")))

	passthrough := conflict(CodeRunLocked, ErrRunLocked)
	assert.Same(t, passthrough, storeError(passthrough, CodeInternal, "x"))

	appErr = AsAppError(storeError(errors.New("driver: bad connection"), CodeRecallExecution, "Failed to execute recall"))
	assert.Equal(t, CodeRecallExecution, appErr.Code)
	assert.Equal(t, "Failed to execute recall", appErr.Message)
}

func TestNewRecallEvent_SnapshotsAssessment(t *testing.T) {
	repo := nutsExample()
	lineage, err := repo.GetLotWithUsages(context.Background(), 5)
	require.NoError(t, err)
	assessment := buildRecallAssessment(lineage, baseTime, 24*time.Hour)

	event, err := newRecallEvent(5, "supplier notice", "qa@bakery.local", baseTime, assessment)
	require.NoError(t, err)

	assert.Equal(t, 90, event.RiskScore)
	assert.Equal(t, string(RiskLevelCritical), event.RiskLevel)
	assert.NotEmpty(t, event.Reference.String())

	var snap RecallAssessment
	require.NoError(t, json.Unmarshal(event.Assessment, &snap))
	assert.Equal(t, 50, snap.Impact.ShippedPallets)
	assert.Equal(t, "NUTS-001", snap.IngredientLot.InternalLotCode)
}

func TestLookupFailure(t *testing.T) {
	appErr := AsAppError(lookupFailure(repository.ErrNotFound, ErrLotNotFound, 7, CodeRecallExecution, "Failed to execute recall"))
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.Equal(t, uint(7), appErr.Details["id"])

	fault := errors.New("driver: bad connection")
	lockErr := lookupFailure(fault, ErrLotNotFound, 7, CodeRecallExecution, "Failed to execute recall")
	appErr = AsAppError(storeError(lockErr, CodeRecallExecution, "Failed to execute recall"))
	assert.Equal(t, CodeRecallExecution, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr.Err, fault)

	assert.Equal(t, CodeInternal, codeOf(lookupError(fault, ErrLotNotFound, 7)))
}

func TestUnlockedRuns(t *testing.T) {
	assert.Empty(t, unlockedRuns([]uint{10, 11}, []uint{10, 11}))
	assert.Empty(t, unlockedRuns(nil, nil))
	assert.Equal(t, []uint{12, 14}, unlockedRuns([]uint{10, 11}, []uint{14, 10, 12, 11}))
	assert.Equal(t, []uint{3}, unlockedRuns(nil, []uint{3}))
}
