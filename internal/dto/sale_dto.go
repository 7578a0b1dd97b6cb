package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	// VariantID must be set when the product has variants, and must belong to
	// the product.
	VariantID *string         `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  decimal.Decimal `json:"quantity"   validate:"required"`
}

type PaymentRequest struct {
	Method    string          `json:"method"    validate:"required,oneof=cash card transfer"`
	Amount    decimal.Decimal `json:"amount"    validate:"required"`
	Reference *string         `json:"reference"`
	Notes     *string         `json:"notes"`
}

type CheckoutRequest struct {
	Kind     string                `json:"kind"     validate:"omitempty,oneof=purchase cashback"`
	Items    []CheckoutItemRequest `json:"items"    validate:"omitempty,dive"`
	Payments []PaymentRequest      `json:"payments" validate:"omitempty,dive"`
	Discount decimal.Decimal       `json:"discount" validate:"min=0"`

	// Cashback fields — required when kind == "cashback".
	CashbackAmount *decimal.Decimal `json:"cashback_amount"`
	ServiceCharge  *decimal.Decimal `json:"service_charge"`

	IsCreditSale  bool    `json:"is_credit_sale"`
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	// CustomerEmail, when set, gets the PDF receipt mailed after commit.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
	Notes         *string `json:"notes"`
}

type SettlementRequest struct {
	Method    string          `json:"method" validate:"required,oneof=cash card transfer"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Reference *string         `json:"reference"`
	Notes     *string         `json:"notes"`
}

type WriteOffRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date          string `form:"date"`           // YYYY-MM-DD; empty = all
	Kind          string `form:"kind"`           // purchase | cashback | all
	PaymentStatus string `form:"payment_status"` // pending | partial | paid | all
	CreditOnly    bool   `form:"credit_only"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	VariantID *string         `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  decimal.Decimal `json:"quantity"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
}

type PaymentResponse struct {
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	IsSettlement bool            `json:"is_settlement"`
	Reference    *string         `json:"reference,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	ReceiptNumber int                `json:"receipt_number"`
	Kind          string             `json:"kind"`
	Items         []SaleItemResponse `json:"items"`
	Payments      []PaymentResponse  `json:"payments"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	AmountDue      decimal.Decimal `json:"amount_due"`
	ChangeGiven    decimal.Decimal `json:"change_given"`

	CashbackAmount *decimal.Decimal `json:"cashback_amount,omitempty"`
	ServiceCharge  *decimal.Decimal `json:"service_charge,omitempty"`

	PaymentStatus string  `json:"payment_status"`
	IsCreditSale  bool    `json:"is_credit_sale"`
	CreditStatus  *string `json:"credit_status,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
