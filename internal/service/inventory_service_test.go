package service_test

import (
	"context"
	"testing"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	svc      service.InventoryService
	products *stubProductRepo
	logs     *stubInventoryLogRepo
	actor    service.Actor
}

func buildInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()
	products := newStubProductRepo()
	logs := &stubInventoryLogRepo{}
	return &inventoryFixture{
		svc:      service.NewInventoryService(products, logs, nil),
		products: products,
		logs:     logs,
		actor:    service.Actor{UserID: uuid.New(), BranchID: uuid.New(), Role: "manager"},
	}
}

func seedVariant(r *stubProductRepo, productID uuid.UUID, name, sku string, price float64, stock, threshold int64) *model.ProductVariant {
	qty := decimal.NewFromInt(stock)
	thr := decimal.NewFromInt(threshold)
	v := &model.ProductVariant{
		ID:                uuid.New(),
		ProductID:         productID,
		SKU:               sku,
		Name:              name,
		CostPrice:         decimal.NewFromFloat(price / 2),
		SellingPrice:      decimal.NewFromFloat(price),
		StockQuantity:     &qty,
		LowStockThreshold: &thr,
		Active:            true,
	}
	r.variants[v.ID] = v
	return v
}

func TestAdjustManualRestock(t *testing.T) {
	f := buildInventoryFixture(t)
	p := seedProduct(f.products, f.actor.BranchID, "Rice 5kg", "RICE-5", 150, 10, 2)
	reason := "weekly delivery"

	resp, err := f.svc.AdjustManual(context.Background(), f.actor, dto.AdjustStockRequest{
		ProductID:  p.ID.String(),
		Delta:      dec("5"),
		ChangeType: model.StockChangeRestock,
		Reason:     &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, "10", resp.PreviousQuantity.String())
	assert.Equal(t, "15", resp.NewQuantity.String())
	assert.Equal(t, "15", p.StockQuantity.String())
	require.Len(t, f.logs.logs, 1)
	assert.Equal(t, model.StockChangeRestock, f.logs.logs[0].ChangeType)
}

func TestAdjustManualRemoval(t *testing.T) {
	f := buildInventoryFixture(t)
	p := seedProduct(f.products, f.actor.BranchID, "Rice 5kg", "RICE-5", 150, 10, 2)
	reason := "damaged bags"

	resp, err := f.svc.AdjustManual(context.Background(), f.actor, dto.AdjustStockRequest{
		ProductID:  p.ID.String(),
		Delta:      dec("-3"),
		ChangeType: model.StockChangeManual,
		Reason:     &reason,
	})
	require.NoError(t, err)

	assert.Equal(t, "7", resp.NewQuantity.String())
	assert.Equal(t, "-3", resp.QuantityChange.String())
}

func TestAdjustManualBelowZeroRejected(t *testing.T) {
	f := buildInventoryFixture(t)
	p := seedProduct(f.products, f.actor.BranchID, "Rice 5kg", "RICE-5", 150, 10, 2)

	_, err := f.svc.AdjustManual(context.Background(), f.actor, dto.AdjustStockRequest{
		ProductID:  p.ID.String(),
		Delta:      dec("-11"),
		ChangeType: model.StockChangeManual,
	})

	var stockErr *service.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "10", stockErr.Current.String())
	// Stock untouched on failure.
	assert.Equal(t, "10", p.StockQuantity.String())
	assert.Empty(t, f.logs.logs)
}

func TestAdjustManualZeroDeltaRejected(t *testing.T) {
	f := buildInventoryFixture(t)
	p := seedProduct(f.products, f.actor.BranchID, "Rice 5kg", "RICE-5", 150, 10, 2)

	_, err := f.svc.AdjustManual(context.Background(), f.actor, dto.AdjustStockRequest{
		ProductID:  p.ID.String(),
		Delta:      decimal.Zero,
		ChangeType: model.StockChangeManual,
	})

	assert.ErrorContains(t, err, "delta must be non-zero")
}

func TestAdjustManualUntrackedProduct(t *testing.T) {
	f := buildInventoryFixture(t)
	p := seedProduct(f.products, f.actor.BranchID, "Photocopy", "SVC-COPY", 10, 0, 0)
	p.StockQuantity = nil
	p.LowStockThreshold = nil

	_, err := f.svc.AdjustManual(context.Background(), f.actor, dto.AdjustStockRequest{
		ProductID:  p.ID.String(),
		Delta:      dec("5"),
		ChangeType: model.StockChangeRestock,
	})

	assert.ErrorIs(t, err, service.ErrNotTracked)
}

func TestAdjustManualVariantRequired(t *testing.T) {
	f := buildInventoryFixture(t)
	p := seedProduct(f.products, f.actor.BranchID, "T-Shirt", "TS-1", 25, 10, 2)
	p.HasVariants = true

	_, err := f.svc.AdjustManual(context.Background(), f.actor, dto.AdjustStockRequest{
		ProductID:  p.ID.String(),
		Delta:      dec("5"),
		ChangeType: model.StockChangeRestock,
	})

	assert.ErrorIs(t, err, service.ErrVariantRequired)
}

func TestAdjustManualVariantStock(t *testing.T) {
	f := buildInventoryFixture(t)
	p := seedProduct(f.products, f.actor.BranchID, "T-Shirt", "TS-1", 25, 10, 2)
	p.HasVariants = true
	v := seedVariant(f.products, p.ID, "T-Shirt M", "TS-1-M", 25, 4, 1)
	vid := v.ID.String()

	resp, err := f.svc.AdjustManual(context.Background(), f.actor, dto.AdjustStockRequest{
		ProductID:  p.ID.String(),
		VariantID:  &vid,
		Delta:      dec("6"),
		ChangeType: model.StockChangeRestock,
	})
	require.NoError(t, err)

	assert.Equal(t, "10", resp.NewQuantity.String())
	assert.Equal(t, "10", v.StockQuantity.String())
	require.NotNil(t, resp.VariantID)
	assert.Equal(t, vid, *resp.VariantID)
}

func TestAdjustManualForeignBranch(t *testing.T) {
	f := buildInventoryFixture(t)
	p := seedProduct(f.products, uuid.New(), "Rice 5kg", "RICE-5", 150, 10, 2)

	_, err := f.svc.AdjustManual(context.Background(), f.actor, dto.AdjustStockRequest{
		ProductID:  p.ID.String(),
		Delta:      dec("5"),
		ChangeType: model.StockChangeRestock,
	})

	assert.ErrorIs(t, err, service.ErrForbiddenBranch)
}
