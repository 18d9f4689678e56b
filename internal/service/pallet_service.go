package service

import (
	"context"
	"strings"
	"time"

	"go-bakery-trace/internal/model"
	"go-bakery-trace/internal/repository"
	"go-bakery-trace/internal/ws"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreatePalletRequest struct {
	ProductionRunID uint   `json:"productionRunId" validate:"required"`
	PalletCode      string `json:"palletCode" validate:"required,max=100"`
	QuantityPacked  int    `json:"quantityPacked" validate:"gt=0"`
	Location        string `json:"location" validate:"max=100"`
	Notes           string `json:"notes"`
}

type ShipPalletRequest struct {
	CustomerOrder string     `json:"customerOrder" validate:"required,max=100"`
	ShippedAt     *time.Time `json:"shippedAt"`
}

type PalletService interface {
	Create(ctx context.Context, req *CreatePalletRequest, actor string) (*model.Pallet, error)
	Get(ctx context.Context, rawID string) (*model.Pallet, error)
	Ship(ctx context.Context, rawID string, req *ShipPalletRequest, actor string) (*model.Pallet, error)
}

type palletService struct {
	db      *gorm.DB
	pallets repository.PalletRepository
	runs    repository.ProductionRepository
	wsHub   *ws.Hub
	logger  *zap.Logger
	now     func() time.Time
}

func NewPalletService(db *gorm.DB, pallets repository.PalletRepository, runs repository.ProductionRepository, hub *ws.Hub, logger *zap.Logger) PalletService {
	return &palletService{db: db, pallets: pallets, runs: runs, wsHub: hub, logger: logger, now: time.Now}
}

func (s *palletService) Create(ctx context.Context, req *CreatePalletRequest, actor string) (*model.Pallet, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	run, err := s.runs.FindByID(ctx, req.ProductionRunID)
	if err != nil {
		return nil, lookupError(err, ErrRunNotFound, req.ProductionRunID)
	}
	if run.Status != model.ProductionInProgress && run.Status != model.ProductionCompleted {
		e := conflict(CodeInvalidTransition, ErrRunNotPacking)
		e.Details = map[string]interface{}{"status": run.Status}
		return nil, e
	}

	pallet := &model.Pallet{
		ProductionRunID: run.ID,
		PalletCode:      req.PalletCode,
		QuantityPacked:  req.QuantityPacked,
		Location:        req.Location,
		ShippingStatus:  model.ShippingActive,
		Notes:           req.Notes,
	}
	pallet.CreatedBy = actor
	pallet.UpdatedBy = actor
	if err := s.pallets.Create(ctx, pallet); err != nil {
		return nil, storeError(err, CodeInternal, "Failed to create pallet")
	}
	return pallet, nil
}

func (s *palletService) Get(ctx context.Context, rawID string) (*model.Pallet, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	pallet, err := s.pallets.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrPalletNotFound, id)
	}
	return pallet, nil
}

func (s *palletService) Ship(ctx context.Context, rawID string, req *ShipPalletRequest, actor string) (*model.Pallet, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var shipped *model.Pallet
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pallet, err := s.pallets.LockByID(tx, id)
		if err != nil {
			return lookupError(err, ErrPalletNotFound, id)
		}
		if err := checkShippable(pallet); err != nil {
			return err
		}

		at := s.now()
		if req.ShippedAt != nil {
			at = *req.ShippedAt
		}
		pallet.ShippingStatus = model.ShippingShipped
		pallet.ShippedAt = &at
		pallet.CustomerOrder = strings.TrimSpace(req.CustomerOrder)
		pallet.UpdatedBy = actor
		shipped = pallet
		return s.pallets.Save(tx, pallet)
	})
	if err != nil {
		return nil, storeError(err, CodeInternal, "Failed to ship pallet")
	}

	s.wsHub.Publish(ws.EventPalletShipped, map[string]interface{}{
		"palletId":      shipped.ID,
		"palletCode":    shipped.PalletCode,
		"customerOrder": shipped.CustomerOrder,
		"by":            actor,
	})
	return shipped, nil
}

// checkShippable requires an on-hand pallet from a released run.
func checkShippable(p *model.Pallet) error {
	if p.Shipped() || !p.ShippingStatus.InInventory() {
		return transitionError(string(p.ShippingStatus), string(model.ShippingShipped))
	}
	run := p.ProductionRun
	if run == nil || run.Status != model.ProductionCompleted || run.QualityStatus == model.QualityFailed {
		e := conflict(CodeInvalidTransition, ErrRunNotShippable)
		if run != nil {
			e.Details = map[string]interface{}{"status": run.Status, "qualityStatus": run.QualityStatus}
		}
		return e
	}
	return nil
}
