package service

import (
	"context"
	"errors"
	"time"

	"go-bakery-trace/internal/metrics"
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/pkg/config"

	"go.uber.org/zap"
)

// TraceService answers the read-only traceability queries. Identifiers are
// passed raw so parsing errors surface as INVALID_ID.
type TraceService interface {
	ForwardTrace(ctx context.Context, lotID string) (*ForwardTrace, error)
	BackwardTrace(ctx context.Context, palletID string) (*BackwardTrace, error)
	AssessRecall(ctx context.Context, lotID string) (*RecallAssessment, error)
}

type traceService struct {
	repo   repository.TraceRepository
	cfg    config.TraceConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewTraceService(repo repository.TraceRepository, cfg config.TraceConfig, logger *zap.Logger) TraceService {
	return newTraceService(repo, cfg, logger, time.Now)
}

func newTraceService(repo repository.TraceRepository, cfg config.TraceConfig, logger *zap.Logger, now func() time.Time) *traceService {
	return &traceService{repo: repo, cfg: cfg, logger: logger, now: now}
}

func (s *traceService) ForwardTrace(ctx context.Context, lotID string) (res *ForwardTrace, err error) {
	start := time.Now()
	defer func() { s.observe(metrics.KindForward, lotID, start, err) }()

	lineage, err := s.resolveLot(ctx, lotID, CodeTraceability)
	if err != nil {
		return nil, err
	}
	return buildForwardTrace(lineage), nil
}

func (s *traceService) BackwardTrace(ctx context.Context, palletID string) (res *BackwardTrace, err error) {
	start := time.Now()
	defer func() { s.observe(metrics.KindBackward, palletID, start, err) }()

	id, err := ParseID(palletID)
	if err != nil {
		return nil, err
	}
	lineage, err := s.repo.GetPalletWithLineage(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(ErrPalletNotFound, id)
	}
	if err != nil {
		return nil, internalError(CodeTraceability, "Failed to trace pallet", err)
	}
	return buildBackwardTrace(lineage, s.now(), s.cfg.NearExpiryWindow), nil
}

func (s *traceService) AssessRecall(ctx context.Context, lotID string) (res *RecallAssessment, err error) {
	start := time.Now()
	defer func() { s.observe(metrics.KindRecall, lotID, start, err) }()

	lineage, err := s.resolveLot(ctx, lotID, CodeRecallAssessment)
	if err != nil {
		return nil, err
	}
	res = buildRecallAssessment(lineage, s.now(), s.cfg.RecallValidity)
	metrics.ObserveRiskScore(res.RiskAssessment.TotalRiskScore)
	return res, nil
}

func (s *traceService) resolveLot(ctx context.Context, raw, failCode string) (*repository.LotLineage, error) {
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	lineage, err := s.repo.GetLotWithUsages(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(ErrLotNotFound, id)
	}
	if err != nil {
		return nil, internalError(failCode, "Failed to trace ingredient lot", err)
	}
	return lineage, nil
}

func (s *traceService) observe(kind, id string, start time.Time, err error) {
	if err == nil {
		metrics.ObserveTrace(kind, metrics.ResultOK, start)
		s.logger.Debug("trace completed", zap.String("kind", kind), zap.String("id", id), zap.Duration("took", time.Since(start)))
		return
	}
	appErr := AsAppError(err)
	metrics.ObserveTrace(kind, appErr.Code, start)
	if appErr.Status >= 500 {
		s.logger.Error("trace failed", zap.String("kind", kind), zap.String("id", id), zap.String("code", appErr.Code), zap.Error(appErr.Err))
	}
}
