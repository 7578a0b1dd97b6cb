package dto

import "github.com/shopspring/decimal"

type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"      validate:"required"`
	Category    string          `json:"category"    validate:"omitempty,max=50"`
	Description string          `json:"description" validate:"required,min=3"`
}

type ExpenseFilter struct {
	Date  string `form:"date"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
}

type ExpenseListResponse struct {
	Data  []ExpenseResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
