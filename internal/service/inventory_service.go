package service

import (
	"context"
	"fmt"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockTarget identifies the row whose stock is being adjusted: either a
// standalone product, or a specific variant of a product. Adjusting a product
// that has variants is a usage error — the variant must be named.
type StockTarget interface{ stockTarget() }

// ProductTarget adjusts a product without variants.
type ProductTarget struct{ ProductID uuid.UUID }

// VariantTarget adjusts one variant; ProductID is the declared parent and
// must match the variant's actual parent.
type VariantTarget struct {
	VariantID uuid.UUID
	ProductID uuid.UUID
}

func (ProductTarget) stockTarget() {}
func (VariantTarget) stockTarget() {}

// InventoryService owns every stock quantity change. All writes go through
// AdjustTx so the bounds check, the quantity write and the audit row share
// one transaction.
type InventoryService interface {
	// AdjustTx applies a signed delta to the target's stock inside the
	// caller's transaction. Fails with InsufficientStockError when the result
	// would be negative; the quantity and its ledger row are written together.
	AdjustTx(ctx context.Context, tx *gorm.DB, target StockTarget, delta decimal.Decimal, changeType string, reason *string, saleID *uuid.UUID) (*model.InventoryLog, error)

	// AdjustManual is the admin-only direct adjustment bypassing any sale.
	AdjustManual(ctx context.Context, actor Actor, req dto.AdjustStockRequest) (*dto.InventoryLogResponse, error)

	ListMovements(ctx context.Context, filter dto.InventoryLogFilter) (*dto.InventoryLogListResponse, error)
	LowStockAlerts(ctx context.Context, actor Actor) ([]dto.LowStockAlertResponse, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	logRepo     repository.InventoryLogRepository
	auditor     *Auditor
}

func NewInventoryService(productRepo repository.ProductRepository, logRepo repository.InventoryLogRepository, auditor *Auditor) InventoryService {
	return &inventoryService{productRepo: productRepo, logRepo: logRepo, auditor: auditor}
}

func (s *inventoryService) AdjustTx(ctx context.Context, tx *gorm.DB, target StockTarget, delta decimal.Decimal, changeType string, reason *string, saleID *uuid.UUID) (*model.InventoryLog, error) {
	switch t := target.(type) {
	case ProductTarget:
		return s.adjustProduct(ctx, tx, t, delta, changeType, reason, saleID)
	case VariantTarget:
		return s.adjustVariant(ctx, tx, t, delta, changeType, reason, saleID)
	default:
		return nil, fmt.Errorf("unsupported stock target %T", target)
	}
}

func (s *inventoryService) adjustProduct(_ context.Context, tx *gorm.DB, t ProductTarget, delta decimal.Decimal, changeType string, reason *string, saleID *uuid.UUID) (*model.InventoryLog, error) {
	p, err := s.productRepo.FindByIDForUpdate(tx, t.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", t.ProductID, ErrNotFound)
	}
	if p.HasVariants {
		return nil, ErrVariantRequired
	}
	if !p.TracksInventory() {
		return nil, ErrNotTracked
	}

	previous := *p.StockQuantity
	next := previous.Add(delta)
	if next.IsNegative() {
		return nil, &InsufficientStockError{Item: p.Name, Current: previous, Requested: delta.Neg()}
	}

	if err := s.productRepo.SetStockTx(tx, p.ID, next); err != nil {
		return nil, err
	}

	entry := &model.InventoryLog{
		ProductID:        p.ID,
		ChangeType:       changeType,
		QuantityChange:   delta,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           reason,
		SaleID:           saleID,
	}
	if err := s.logRepo.CreateTx(tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *inventoryService) adjustVariant(_ context.Context, tx *gorm.DB, t VariantTarget, delta decimal.Decimal, changeType string, reason *string, saleID *uuid.UUID) (*model.InventoryLog, error) {
	v, err := s.productRepo.FindVariantByIDForUpdate(tx, t.VariantID)
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", t.VariantID, ErrNotFound)
	}
	if v.ProductID != t.ProductID {
		return nil, fmt.Errorf("variant %s does not belong to product %s: %w", t.VariantID, t.ProductID, ErrNotFound)
	}
	if !v.TracksInventory() {
		return nil, ErrNotTracked
	}

	previous := *v.StockQuantity
	next := previous.Add(delta)
	if next.IsNegative() {
		return nil, &InsufficientStockError{Item: v.Name, Current: previous, Requested: delta.Neg()}
	}

	if err := s.productRepo.SetVariantStockTx(tx, v.ID, next); err != nil {
		return nil, err
	}

	variantID := v.ID
	entry := &model.InventoryLog{
		ProductID:        v.ProductID,
		VariantID:        &variantID,
		ChangeType:       changeType,
		QuantityChange:   delta,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           reason,
		SaleID:           saleID,
	}
	if err := s.logRepo.CreateTx(tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AdjustManual wraps AdjustTx in its own transaction and records the change
// in the audit trail.
func (s *inventoryService) AdjustManual(ctx context.Context, actor Actor, req dto.AdjustStockRequest) (*dto.InventoryLogResponse, error) {
	if req.Delta.IsZero() {
		return nil, fmt.Errorf("delta must be non-zero")
	}

	target, err := s.resolveTarget(ctx, actor, req.ProductID, req.VariantID)
	if err != nil {
		return nil, err
	}

	var entry *model.InventoryLog
	txErr := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		var err error
		entry, err = s.AdjustTx(ctx, tx, target, req.Delta, req.ChangeType, req.Reason, nil)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Record(ctx, actor, "stock.adjust", "inventory_log", entry.ID.String(), nil, entry)
	resp := inventoryLogToResponse(entry)
	return &resp, nil
}

// resolveTarget parses the request ids, enforces branch ownership, and builds
// the tagged target.
func (s *inventoryService) resolveTarget(ctx context.Context, actor Actor, productID string, variantID *string) (StockTarget, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("invalid product_id: %w", err)
	}
	p, err := s.productRepo.FindByID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	if p.BranchID != actor.BranchID {
		return nil, ErrForbiddenBranch
	}

	if variantID == nil {
		return ProductTarget{ProductID: pid}, nil
	}
	vid, err := uuid.Parse(*variantID)
	if err != nil {
		return nil, fmt.Errorf("invalid variant_id: %w", err)
	}
	return VariantTarget{VariantID: vid, ProductID: pid}, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.InventoryLogFilter) (*dto.InventoryLogListResponse, error) {
	repoFilter := repository.InventoryLogFilter{
		ChangeType: filter.ChangeType,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if filter.ProductID != "" {
		pid, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		repoFilter.ProductID = &pid
	}
	if filter.VariantID != "" {
		vid, err := uuid.Parse(filter.VariantID)
		if err != nil {
			return nil, fmt.Errorf("invalid variant_id: %w", err)
		}
		repoFilter.VariantID = &vid
	}

	logs, total, err := s.logRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.InventoryLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, inventoryLogToResponse(&logs[i]))
	}
	return &dto.InventoryLogListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventoryService) LowStockAlerts(ctx context.Context, actor Actor) ([]dto.LowStockAlertResponse, error) {
	products, variants, err := s.productRepo.ListLowStock(ctx, actor.BranchID)
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.LowStockAlertResponse, 0, len(products)+len(variants))
	for _, p := range products {
		alerts = append(alerts, dto.LowStockAlertResponse{
			ProductID: p.ID.String(),
			Name:      p.Name,
			SKU:       p.SKU,
			Quantity:  *p.StockQuantity,
			Threshold: *p.LowStockThreshold,
		})
	}
	for _, v := range variants {
		vid := v.ID.String()
		alerts = append(alerts, dto.LowStockAlertResponse{
			ProductID: v.ProductID.String(),
			VariantID: &vid,
			Name:      v.Name,
			SKU:       v.SKU,
			Quantity:  *v.StockQuantity,
			Threshold: *v.LowStockThreshold,
		})
	}
	return alerts, nil
}

func inventoryLogToResponse(l *model.InventoryLog) dto.InventoryLogResponse {
	resp := dto.InventoryLogResponse{
		ID:               l.ID.String(),
		ProductID:        l.ProductID.String(),
		ChangeType:       l.ChangeType,
		QuantityChange:   l.QuantityChange,
		PreviousQuantity: l.PreviousQuantity,
		NewQuantity:      l.NewQuantity,
		Reason:           l.Reason,
		CreatedAt:        l.CreatedAt.Format(time.RFC3339),
	}
	if l.VariantID != nil {
		vid := l.VariantID.String()
		resp.VariantID = &vid
	}
	if l.SaleID != nil {
		sid := l.SaleID.String()
		resp.SaleID = &sid
	}
	if l.Product != nil {
		resp.ProductName = l.Product.Name
	}
	return resp
}
