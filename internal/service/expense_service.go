package service

import (
	"context"
	"fmt"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
)

type ExpenseService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	List(ctx context.Context, actor Actor, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error)
}

type expenseService struct {
	repo    repository.ExpenseRepository
	auditor *Auditor
}

func NewExpenseService(repo repository.ExpenseRepository, auditor *Auditor) ExpenseService {
	return &expenseService{repo: repo, auditor: auditor}
}

func (s *expenseService) Create(ctx context.Context, actor Actor, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be positive")
	}
	category := req.Category
	if category == "" {
		category = "general"
	}

	expense := &model.Expense{
		BranchID:    actor.BranchID,
		UserID:      actor.UserID,
		Amount:      RoundMoney(req.Amount),
		Category:    category,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, actor, "expense.create", "expense", expense.ID.String(), nil, expense)
	resp := expenseToResponse(expense)
	return &resp, nil
}

func (s *expenseService) List(ctx context.Context, actor Actor, filter dto.ExpenseFilter) (*dto.ExpenseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	expenses, total, err := s.repo.List(ctx, actor.BranchID, filter.Date, filter.Page, filter.Limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		items = append(items, expenseToResponse(&expenses[i]))
	}
	return &dto.ExpenseListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func expenseToResponse(e *model.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID.String(),
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
