package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go-bakery-trace/internal/metrics"
	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/internal/ws"
	"go-bakery-trace/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExecuteRecallRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type RecallResult struct {
	Event      *model.RecallEvent `json:"event"`
	Assessment *RecallAssessment  `json:"assessment"`
}

type RecallService interface {
	// Execute quarantines the lot and recalls every run and pallet it reached,
	// all or nothing.
	Execute(ctx context.Context, lotID string, req *ExecuteRecallRequest, actor string) (*RecallResult, error)
	List(ctx context.Context) ([]model.RecallEvent, error)
}

type recallService struct {
	db      *gorm.DB
	lots    repository.LotRepository
	runs    repository.ProductionRepository
	pallets repository.PalletRepository
	recalls repository.RecallRepository
	cfg     config.TraceConfig
	wsHub   *ws.Hub
	logger  *zap.Logger
	now     func() time.Time
}

func NewRecallService(
	db *gorm.DB,
	lots repository.LotRepository,
	runs repository.ProductionRepository,
	pallets repository.PalletRepository,
	recalls repository.RecallRepository,
	cfg config.TraceConfig,
	hub *ws.Hub,
	logger *zap.Logger,
) RecallService {
	return &recallService{
		db:      db,
		lots:    lots,
		runs:    runs,
		pallets: pallets,
		recalls: recalls,
		cfg:     cfg,
		wsHub:   hub,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *recallService) Execute(ctx context.Context, rawID string, req *ExecuteRecallRequest, actor string) (*RecallResult, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	result := &RecallResult{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock runs, then the lot: the order Consume and Delete use.
		// A second recall waits on the lot and then fails.
		runIDs, err := s.runs.RunIDsByLot(tx, id)
		if err != nil {
			return err
		}
		if err := s.runs.LockByIDs(tx, runIDs); err != nil {
			return err
		}
		lot, err := s.lots.LockByID(tx, id)
		if err != nil {
			return lookupFailure(err, ErrLotNotFound, id, CodeRecallExecution, "Failed to execute recall")
		}
		if lot.IsRecalled() {
			return conflict(CodeAlreadyRecalled, ErrAlreadyRecalled)
		}

		// Usages committed while we waited for the lot
		current, err := s.runs.RunIDsByLot(tx, id)
		if err != nil {
			return err
		}
		if err := s.runs.LockByIDs(tx, unlockedRuns(runIDs, current)); err != nil {
			return err
		}
		runIDs = current

		// 2. Assess against the same snapshot that is about to change
		lineage, err := repository.NewTraceRepo(tx).GetLotWithUsages(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		assessment := buildRecallAssessment(lineage, now, s.cfg.RecallValidity)

		// 3. Lot, runs, pallets
		if err := s.lots.MarkRecalled(tx, id, now, actor); err != nil {
			return err
		}
		runs, err := s.runs.MarkRecalled(tx, runIDs, actor)
		if err != nil {
			return err
		}
		pallets, err := s.pallets.MarkRecalledByRuns(tx, runIDs, now, actor)
		if err != nil {
			return err
		}

		// 4. Audit record
		event, err := newRecallEvent(id, req.Reason, actor, now, assessment)
		if err != nil {
			return err
		}
		event.RunsRecalled = int(runs)
		event.PalletsRecalled = int(pallets)
		if err := s.recalls.Create(tx, event); err != nil {
			return err
		}

		result.Event = event
		result.Assessment = assessment
		return nil
	})
	if err != nil {
		appErr := AsAppError(storeError(err, CodeRecallExecution, "Failed to execute recall"))
		if appErr.Status >= 500 {
			s.logger.Error("recall failed", zap.Uint("lot_id", id), zap.Error(appErr.Err))
		}
		return nil, appErr
	}

	level := result.Event.RiskLevel
	metrics.RecallExecuted(level)
	s.logger.Warn("recall executed",
		zap.Uint("lot_id", id),
		zap.String("reference", result.Event.Reference.String()),
		zap.String("risk_level", level),
		zap.Int("runs", result.Event.RunsRecalled),
		zap.Int("pallets", result.Event.PalletsRecalled),
		zap.String("by", actor))
	s.wsHub.Publish(ws.EventRecallExecuted, map[string]interface{}{
		"reference":       result.Event.Reference,
		"ingredientLotId": id,
		"lotCode":         result.Assessment.IngredientLot.InternalLotCode,
		"riskLevel":       level,
		"riskScore":       result.Event.RiskScore,
		"runsRecalled":    result.Event.RunsRecalled,
		"palletsRecalled": result.Event.PalletsRecalled,
	})
	return result, nil
}

// unlockedRuns returns the ids in current that are not in locked, ascending.
func unlockedRuns(locked, current []uint) []uint {
	seen := make(map[uint]bool, len(locked))
	for _, id := range locked {
		seen[id] = true
	}
	var out []uint
	for _, id := range current {
		if !seen[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func newRecallEvent(lotID uint, reason, actor string, at time.Time, a *RecallAssessment) (*model.RecallEvent, error) {
	snapshot, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return &model.RecallEvent{
		Reference:       uuid.New(),
		IngredientLotID: lotID,
		Reason:          reason,
		RiskScore:       a.RiskAssessment.TotalRiskScore,
		RiskLevel:       string(a.RiskAssessment.RiskLevel),
		InitiatedBy:     actor,
		ExecutedAt:      at,
		Assessment:      datatypes.JSON(snapshot),
	}, nil
}

func (s *recallService) List(ctx context.Context) ([]model.RecallEvent, error) {
	events, err := s.recalls.FindAll(ctx)
	if err != nil {
		return nil, internalError(CodeInternal, "Failed to list recalls", err)
	}
	return events, nil
}
