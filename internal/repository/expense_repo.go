package repository

import (
	"context"
	"time"

	"tillpoint/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	List(ctx context.Context, branchID uuid.UUID, date string, page, limit int) ([]model.Expense, int64, error)
	// SumAmount totals expenses for a branch within a time window; a nil `to`
	// means "until now" (open session).
	SumAmount(ctx context.Context, branchID uuid.UUID, from time.Time, to *time.Time) (decimal.Decimal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) List(ctx context.Context, branchID uuid.UUID, date string, page, limit int) ([]model.Expense, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("branch_id = ?", branchID)
	if date != "" {
		q = q.Where("DATE(created_at) = ?", date)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	var expenses []model.Expense
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&expenses).Error
	return expenses, total, err
}

func (r *expenseRepo) SumAmount(ctx context.Context, branchID uuid.UUID, from time.Time, to *time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("branch_id = ? AND created_at >= ?", branchID, from)
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	var sum decimal.Decimal
	err := q.Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}
