package service

import (
	"context"
	"sort"
	"time"

	"go-bakery-trace/internal/metrics"
	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/internal/ws"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateRunRequest struct {
	RecipeID        uint      `json:"recipeId" validate:"required"`
	DailyLot        string    `json:"dailyLot" validate:"required,max=100"`
	CakeLot         string    `json:"cakeLot" validate:"max=100"`
	IcingLot        string    `json:"icingLot" validate:"max=100"`
	PlannedQuantity int       `json:"plannedQuantity" validate:"gt=0"`
	StartTime       time.Time `json:"startTime" validate:"required"`
	Notes           string    `json:"notes"`
}

// UpdateRunRequest is a partial update; nil fields are left unchanged.
type UpdateRunRequest struct {
	ActualQuantity *int                    `json:"actualQuantity" validate:"omitempty,gte=0"`
	EndTime        *time.Time              `json:"endTime"`
	Notes          *string                 `json:"notes"`
	Status         *model.ProductionStatus `json:"status" validate:"omitempty,oneof=PLANNED IN_PROGRESS COMPLETED FAILED"`
	QualityStatus  *model.QualityStatus    `json:"qualityStatus" validate:"omitempty,oneof=PENDING PASSED FAILED CONDITIONAL_PASS"`
}

func (r *UpdateRunRequest) onlyQuality() bool {
	return r.ActualQuantity == nil && r.EndTime == nil && r.Notes == nil && r.Status == nil
}

type ConsumeRequest struct {
	IngredientLotID uint            `json:"ingredientLotId" validate:"required"`
	QuantityUsed    decimal.Decimal `json:"quantityUsed" validate:"gt=0"`
}

type ProductionService interface {
	Create(ctx context.Context, req *CreateRunRequest, actor string) (*model.ProductionRun, error)
	Get(ctx context.Context, rawID string) (*model.ProductionRun, error)
	List(ctx context.Context) ([]model.ProductionRun, error)
	Update(ctx context.Context, rawID string, req *UpdateRunRequest, actor string) (*model.ProductionRun, error)
	Delete(ctx context.Context, rawID string, actor string) error
	Consume(ctx context.Context, rawID string, req *ConsumeRequest, actor string) (*model.BatchIngredient, error)
}

type productionService struct {
	db      *gorm.DB
	runs    repository.ProductionRepository
	lots    repository.LotRepository
	pallets repository.PalletRepository
	catalog repository.CatalogRepository
	wsHub   *ws.Hub
	logger  *zap.Logger
	now     func() time.Time
}

func NewProductionService(
	db *gorm.DB,
	runs repository.ProductionRepository,
	lots repository.LotRepository,
	pallets repository.PalletRepository,
	catalog repository.CatalogRepository,
	hub *ws.Hub,
	logger *zap.Logger,
) ProductionService {
	return &productionService{
		db:      db,
		runs:    runs,
		lots:    lots,
		pallets: pallets,
		catalog: catalog,
		wsHub:   hub,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *productionService) Create(ctx context.Context, req *CreateRunRequest, actor string) (*model.ProductionRun, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.catalog.FindRecipeByID(ctx, req.RecipeID); err != nil {
		return nil, lookupError(err, ErrRecipeNotFound, req.RecipeID)
	}

	run := &model.ProductionRun{
		RecipeID:        req.RecipeID,
		DailyLot:        req.DailyLot,
		CakeLot:         req.CakeLot,
		IcingLot:        req.IcingLot,
		PlannedQuantity: req.PlannedQuantity,
		StartTime:       req.StartTime,
		Status:          model.ProductionPlanned,
		QualityStatus:   model.QualityPending,
		Notes:           req.Notes,
	}
	run.CreatedBy = actor
	run.UpdatedBy = actor
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, storeError(err, CodeInternal, "Failed to create production run")
	}
	return s.runs.FindByID(ctx, run.ID)
}

func (s *productionService) Get(ctx context.Context, rawID string) (*model.ProductionRun, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrRunNotFound, id)
	}
	return run, nil
}

func (s *productionService) List(ctx context.Context) ([]model.ProductionRun, error) {
	runs, err := s.runs.FindAll(ctx)
	if err != nil {
		return nil, internalError(CodeInternal, "Failed to list production runs", err)
	}
	return runs, nil
}

func (s *productionService) Update(ctx context.Context, rawID string, req *UpdateRunRequest, actor string) (*model.ProductionRun, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var status model.ProductionStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run, err := s.runs.LockByID(tx, id)
		if err != nil {
			return lookupError(err, ErrRunNotFound, id)
		}
		if err := applyRunUpdate(run, req, s.now()); err != nil {
			return err
		}
		run.UpdatedBy = actor
		status = run.Status
		return s.runs.Save(tx, run)
	})
	if err != nil {
		return nil, storeError(err, CodeInternal, "Failed to update production run")
	}

	s.wsHub.Publish(ws.EventRunStatusChange, map[string]interface{}{
		"productionRunId": id,
		"status":          status,
		"by":              actor,
	})
	return s.runs.FindByID(ctx, id)
}

// applyRunUpdate mutates run according to req, enforcing the lock and
// lifecycle rules.
func applyRunUpdate(run *model.ProductionRun, req *UpdateRunRequest, now time.Time) error {
	if run.Status == model.ProductionRecalled {
		return conflict(CodeRunLocked, ErrRunLocked)
	}
	if run.Locked() && !req.onlyQuality() {
		return conflict(CodeRunLocked, ErrRunLocked)
	}

	if req.Status != nil && *req.Status != run.Status {
		if !model.CanProductionTransition(run.Status, *req.Status) {
			return transitionError(string(run.Status), string(*req.Status))
		}
		run.Status = *req.Status
		if run.Status == model.ProductionCompleted && req.EndTime == nil && run.EndTime == nil {
			end := now
			run.EndTime = &end
		}
	}
	if req.ActualQuantity != nil {
		run.ActualQuantity = req.ActualQuantity
	}
	if req.EndTime != nil {
		if req.EndTime.Before(run.StartTime) {
			return validationError("End time must not precede start time", map[string]interface{}{
				"startTime": run.StartTime,
				"endTime":   *req.EndTime,
			})
		}
		run.EndTime = req.EndTime
	}
	if req.Notes != nil {
		run.Notes = *req.Notes
	}
	if req.QualityStatus != nil {
		run.QualityStatus = *req.QualityStatus
	}
	return nil
}

func (s *productionService) Delete(ctx context.Context, rawID string, actor string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run, err := s.runs.LockByID(tx, id)
		if err != nil {
			return lookupError(err, ErrRunNotFound, id)
		}
		if !run.Deletable() {
			return conflict(CodeRunLocked, ErrRunLocked)
		}
		shipped, err := s.pallets.CountShippedByRun(tx, id)
		if err != nil {
			return err
		}
		if shipped > 0 {
			return conflict(CodeConflict, ErrRunHasShippedPallets)
		}

		usages, err := s.runs.UsagesByRun(tx, id)
		if err != nil {
			return err
		}
		lotIDs := distinctLotIDs(usages)
		// Lock lots in id order before touching usage rows.
		for _, lotID := range lotIDs {
			if _, err := s.lots.LockByID(tx, lotID); err != nil {
				return err
			}
		}

		if err := s.runs.DeleteUsagesByRun(tx, id); err != nil {
			return err
		}
		if err := s.pallets.DeleteByRun(tx, id); err != nil {
			return err
		}
		if err := s.runs.Delete(tx, id); err != nil {
			return err
		}
		for _, lotID := range lotIDs {
			if err := s.recomputeRemaining(tx, lotID, actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeError(err, CodeInternal, "Failed to delete production run")
	}

	s.logger.Info("production run deleted", zap.Uint("run_id", id), zap.String("by", actor))
	return nil
}

func (s *productionService) Consume(ctx context.Context, rawID string, req *ConsumeRequest, actor string) (*model.BatchIngredient, error) {
	runID, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	usage := &model.BatchIngredient{
		ProductionRunID: runID,
		IngredientLotID: req.IngredientLotID,
		QuantityUsed:    req.QuantityUsed,
		AddedBy:         actor,
	}
	var remaining decimal.Decimal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock run, then lot
		run, err := s.runs.LockByID(tx, runID)
		if err != nil {
			return lookupError(err, ErrRunNotFound, runID)
		}
		lot, err := s.lots.LockByID(tx, req.IngredientLotID)
		if err != nil {
			return lookupError(err, ErrLotNotFound, req.IngredientLotID)
		}

		// 2. Business rules
		if err := checkConsumption(run, lot, req.QuantityUsed); err != nil {
			return err
		}

		// 3. Append usage, derive remaining from the usage sum
		usage.AddedAt = s.now()
		if err := s.runs.CreateUsage(tx, usage); err != nil {
			return err
		}
		used, err := s.lots.SumUsage(tx, lot.ID)
		if err != nil {
			return err
		}
		remaining = lot.QuantityReceived.Sub(used)
		if remaining.IsNegative() {
			return insufficientQuantity(lot.QuantityReceived.Sub(used.Sub(req.QuantityUsed)), req.QuantityUsed)
		}
		return s.lots.UpdateRemaining(tx, lot.ID, remaining, actor)
	})
	if err != nil {
		return nil, storeError(err, CodeInternal, "Failed to record ingredient usage")
	}

	metrics.LotConsumed()
	s.wsHub.Publish(ws.EventLotConsumed, map[string]interface{}{
		"productionRunId":   runID,
		"ingredientLotId":   req.IngredientLotID,
		"quantityUsed":      req.QuantityUsed,
		"quantityRemaining": remaining,
		"by":                actor,
	})
	return usage, nil
}

// checkConsumption reports whether run may consume qty of lot.
func checkConsumption(run *model.ProductionRun, lot *model.IngredientLot, qty decimal.Decimal) error {
	if run.Status != model.ProductionPlanned && run.Status != model.ProductionInProgress {
		e := conflict(CodeRunLocked, ErrRunNotOpen)
		e.Details = map[string]interface{}{"status": run.Status}
		return e
	}
	if !lot.Usable(run.StartTime) {
		e := conflict(CodeLotUnusable, ErrLotUnusable)
		e.Details = map[string]interface{}{
			"qualityStatus":  lot.QualityStatus,
			"expirationDate": lot.ExpirationDate,
			"recalled":       lot.IsRecalled(),
		}
		return e
	}
	if qty.GreaterThan(lot.QuantityRemaining) {
		return insufficientQuantity(lot.QuantityRemaining, qty)
	}
	return nil
}

func insufficientQuantity(remaining, requested decimal.Decimal) *AppError {
	e := conflict(CodeInsufficientQuantity, ErrInsufficientQuantity)
	e.Details = map[string]interface{}{
		"quantityRemaining": remaining,
		"quantityRequested": requested,
	}
	return e
}

// recomputeRemaining sets a locked lot's remaining quantity from its usage sum.
func (s *productionService) recomputeRemaining(tx *gorm.DB, lotID uint, actor string) error {
	lot, err := s.lots.LockByID(tx, lotID)
	if err != nil {
		return err
	}
	used, err := s.lots.SumUsage(tx, lotID)
	if err != nil {
		return err
	}
	return s.lots.UpdateRemaining(tx, lotID, lot.QuantityReceived.Sub(used), actor)
}

func distinctLotIDs(usages []model.BatchIngredient) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, u := range usages {
		if !seen[u.IngredientLotID] {
			seen[u.IngredientLotID] = true
			ids = append(ids, u.IngredientLotID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
