package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSessionRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type CloseSessionRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance" validate:"min=0"`
	Notes          *string         `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID             string          `json:"id"`
	BranchID       string          `json:"branch_id"`
	OpenedByID     string          `json:"opened_by_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Status         string          `json:"status"`
	OpenedAt       string          `json:"opened_at"`
	ClosedAt       *string         `json:"closed_at,omitempty"`
}

// SessionSummaryResponse carries the drawer reconciliation for a session.
// ExpectedCash = opening balance + cash payments - cashback payouts - expenses,
// all scoped to the session's branch and time window.
type SessionSummaryResponse struct {
	Session        SessionResponse  `json:"session"`
	CashPayments   decimal.Decimal  `json:"cash_payments"`
	CashbackPaid   decimal.Decimal  `json:"cashback_paid"`
	Expenses       decimal.Decimal  `json:"expenses"`
	ExpectedCash   decimal.Decimal  `json:"expected_cash"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	Variance       *decimal.Decimal `json:"variance,omitempty"`
	IsBalanced     *bool            `json:"is_balanced,omitempty"`
}
