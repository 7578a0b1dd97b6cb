package dto

import "github.com/shopspring/decimal"

// AdjustCapitalRequest tops up a branch's cashback capital pool (admin-only).
type AdjustCapitalRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Notes  *string         `json:"notes"`
}

type CapitalResponse struct {
	BranchID string          `json:"branch_id"`
	Balance  decimal.Decimal `json:"balance"`
}
