package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/internal/ws"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReceiveLotRequest struct {
	IngredientID     uint            `json:"ingredientId" validate:"required"`
	SupplierID       uint            `json:"supplierId" validate:"required"`
	SupplierLotCode  string          `json:"supplierLotCode" validate:"max=100"`
	InternalLotCode  string          `json:"internalLotCode" validate:"required,max=100"`
	ReceivedDate     time.Time       `json:"receivedDate" validate:"required"`
	ExpirationDate   time.Time       `json:"expirationDate" validate:"required"`
	ManufactureDate  *time.Time      `json:"manufactureDate"`
	QuantityReceived decimal.Decimal `json:"quantityReceived" validate:"gt=0"`
	Unit             string          `json:"unit" validate:"required,max=20"`
}

type UpdateQualityRequest struct {
	QualityStatus model.QualityStatus `json:"qualityStatus" validate:"required,oneof=PENDING PASSED FAILED QUARANTINED"`
}

// LotDrift is a lot whose stored remaining quantity disagrees with its usage.
type LotDrift struct {
	repository.LotBalance
	ExpectedRemaining decimal.Decimal `json:"expectedRemaining"`
	Drift             decimal.Decimal `json:"drift"`
}

type LotAuditReport struct {
	LotsChecked int        `json:"lotsChecked"`
	Drifted     []LotDrift `json:"drifted"`
}

type LotService interface {
	Receive(ctx context.Context, req *ReceiveLotRequest, actor string) (*model.IngredientLot, error)
	Get(ctx context.Context, rawID string) (*model.IngredientLot, error)
	List(ctx context.Context) ([]model.IngredientLot, error)
	UpdateQuality(ctx context.Context, rawID string, req *UpdateQualityRequest, actor string) (*model.IngredientLot, error)
	Audit(ctx context.Context) (*LotAuditReport, error)
}

type lotService struct {
	db      *gorm.DB
	lots    repository.LotRepository
	catalog repository.CatalogRepository
	wsHub   *ws.Hub
	logger  *zap.Logger
}

func NewLotService(db *gorm.DB, lots repository.LotRepository, catalog repository.CatalogRepository, hub *ws.Hub, logger *zap.Logger) LotService {
	return &lotService{db: db, lots: lots, catalog: catalog, wsHub: hub, logger: logger}
}

func (s *lotService) Receive(ctx context.Context, req *ReceiveLotRequest, actor string) (*model.IngredientLot, error) {
	if err := checkReceipt(req); err != nil {
		return nil, err
	}

	// 1. Reference data must exist
	if _, err := s.catalog.FindIngredientByID(ctx, req.IngredientID); err != nil {
		return nil, lookupError(err, ErrIngredientNotFound, req.IngredientID)
	}
	if _, err := s.catalog.FindSupplierByID(ctx, req.SupplierID); err != nil {
		return nil, lookupError(err, ErrSupplierNotFound, req.SupplierID)
	}

	// 2. Remaining starts at the received quantity
	lot := &model.IngredientLot{
		IngredientID:      req.IngredientID,
		SupplierID:        req.SupplierID,
		SupplierLotCode:   req.SupplierLotCode,
		InternalLotCode:   req.InternalLotCode,
		ReceivedDate:      req.ReceivedDate,
		ExpirationDate:    req.ExpirationDate,
		ManufactureDate:   req.ManufactureDate,
		QuantityReceived:  req.QuantityReceived,
		QuantityRemaining: req.QuantityReceived,
		Unit:              req.Unit,
		QualityStatus:     model.QualityPending,
	}
	lot.CreatedBy = actor
	lot.UpdatedBy = actor
	if err := s.lots.Create(ctx, lot); err != nil {
		return nil, storeError(err, CodeInternal, "Failed to receive lot")
	}

	s.logger.Info("lot received",
		zap.Uint("lot_id", lot.ID),
		zap.String("lot_code", lot.InternalLotCode),
		zap.String("quantity", lot.QuantityReceived.String()),
		zap.String("by", actor))
	return s.lots.FindByID(ctx, lot.ID)
}

// checkReceipt validates a receipt before any lookup.
func checkReceipt(req *ReceiveLotRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if !req.ExpirationDate.After(req.ReceivedDate) {
		return validationError("Expiration date must be after received date", map[string]interface{}{
			"receivedDate":   req.ReceivedDate,
			"expirationDate": req.ExpirationDate,
		})
	}
	return nil
}

func (s *lotService) Get(ctx context.Context, rawID string) (*model.IngredientLot, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	lot, err := s.lots.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrLotNotFound, id)
	}
	return lot, nil
}

func (s *lotService) List(ctx context.Context) ([]model.IngredientLot, error) {
	lots, err := s.lots.FindAll(ctx)
	if err != nil {
		return nil, internalError(CodeInternal, "Failed to list lots", err)
	}
	return lots, nil
}

func (s *lotService) UpdateQuality(ctx context.Context, rawID string, req *UpdateQualityRequest, actor string) (*model.IngredientLot, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var from model.QualityStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lot, err := s.lots.LockByID(tx, id)
		if err != nil {
			return lookupError(err, ErrLotNotFound, id)
		}
		if err := checkQualityChange(lot, req.QualityStatus); err != nil {
			return err
		}
		from = lot.QualityStatus
		return s.lots.UpdateQuality(tx, id, req.QualityStatus, actor)
	})
	if err != nil {
		return nil, storeError(err, CodeInternal, "Failed to update lot quality")
	}

	s.wsHub.Publish(ws.EventLotQuality, map[string]interface{}{
		"ingredientLotId": id,
		"from":            from,
		"to":              req.QualityStatus,
		"by":              actor,
	})
	return s.lots.FindByID(ctx, id)
}

func checkQualityChange(lot *model.IngredientLot, to model.QualityStatus) error {
	if lot.IsRecalled() {
		return conflict(CodeAlreadyRecalled, ErrAlreadyRecalled)
	}
	if !model.CanLotQualityTransition(lot.QualityStatus, to) {
		return transitionError(string(lot.QualityStatus), string(to))
	}
	return nil
}

func (s *lotService) Audit(ctx context.Context) (*LotAuditReport, error) {
	balances, err := s.lots.Balances(ctx)
	if err != nil {
		return nil, internalError(CodeInternal, "Failed to audit lots", err)
	}
	report := auditBalances(balances)
	if len(report.Drifted) > 0 {
		s.logger.Warn("lot quantity drift detected", zap.Int("lots", len(report.Drifted)))
	}
	return report, nil
}

func auditBalances(balances []repository.LotBalance) *LotAuditReport {
	report := &LotAuditReport{LotsChecked: len(balances), Drifted: []LotDrift{}}
	for _, b := range balances {
		if d := b.Drift(); !d.IsZero() {
			report.Drifted = append(report.Drifted, LotDrift{
				LotBalance:        b,
				ExpectedRemaining: b.Expected(),
				Drift:             d,
			})
		}
	}
	return report
}

// lookupError maps a repository lookup failure to NOT_FOUND or INTERNAL_ERROR.
func lookupError(err, notFoundErr error, id uint) error {
	return lookupFailure(err, notFoundErr, id, CodeInternal, "Failed to load record")
}

// lookupFailure is lookupError with the caller's failure code.
func lookupFailure(err, notFoundErr error, id uint, code, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(notFoundErr, id)
	}
	return internalError(code, message, err)
}

func transitionError(from, to string) *AppError {
	e := newAppError(http.StatusConflict, CodeInvalidTransition, capitalize(ErrInvalidTransition.Error()), ErrInvalidTransition)
	e.Details = map[string]interface{}{"from": from, "to": to}
	return e
}
