package dto

import "github.com/shopspring/decimal"

// AdjustStockRequest is the manual, admin-only stock adjustment — a direct
// ledger write that bypasses any sale.
type AdjustStockRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	// Delta is signed: positive restocks, negative removes.
	Delta      decimal.Decimal `json:"delta"       validate:"required"`
	ChangeType string          `json:"change_type" validate:"required,oneof=manual restock"`
	Reason     *string         `json:"reason"`
}

// InventoryLogFilter is bound from the query string of GET /v1/inventory/movements.
type InventoryLogFilter struct {
	ProductID  string `form:"product_id" validate:"omitempty,uuid"`
	VariantID  string `form:"variant_id" validate:"omitempty,uuid"`
	ChangeType string `form:"change_type"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type InventoryLogResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	VariantID        *string         `json:"variant_id,omitempty"`
	ProductName      string          `json:"product_name,omitempty"`
	ChangeType       string          `json:"change_type"`
	QuantityChange   decimal.Decimal `json:"quantity_change"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Reason           *string         `json:"reason,omitempty"`
	SaleID           *string         `json:"sale_id,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

type InventoryLogListResponse struct {
	Data  []InventoryLogResponse `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// LowStockAlertResponse flags a product or variant at or below its threshold.
type LowStockAlertResponse struct {
	ProductID string          `json:"product_id"`
	VariantID *string         `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  decimal.Decimal `json:"quantity"`
	Threshold decimal.Decimal `json:"threshold"`
}
