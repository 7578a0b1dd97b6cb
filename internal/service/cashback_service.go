package service

import (
	"context"
	"fmt"

	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashbackService owns the branch cashback capital pool. Both operations are
// an atomic read-modify-write under a row lock; the pool can never go
// negative at any committed state. There is no separate ledger table — the
// invariant is enforced entirely by the locked bounds check, and top-ups are
// recorded through the audit trail.
type CashbackService interface {
	// DebitTx draws down the pool inside the caller's transaction (checkout).
	DebitTx(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	// Credit is a manual top-up (admin-only).
	Credit(ctx context.Context, actor Actor, branchID uuid.UUID, amount decimal.Decimal, notes *string) (decimal.Decimal, error)
	Balance(ctx context.Context, branchID uuid.UUID) (decimal.Decimal, error)
}

type cashbackService struct {
	branchRepo repository.BranchRepository
	auditor    *Auditor
}

func NewCashbackService(branchRepo repository.BranchRepository, auditor *Auditor) CashbackService {
	return &cashbackService{branchRepo: branchRepo, auditor: auditor}
}

func (s *cashbackService) DebitTx(_ context.Context, tx *gorm.DB, branchID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("debit amount must be positive")
	}

	branch, err := s.branchRepo.FindByIDForUpdate(tx, branchID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("branch %s: %w", branchID, ErrNotFound)
	}

	next := branch.CashbackCapital.Sub(amount)
	if next.IsNegative() {
		return decimal.Zero, &InsufficientCapitalError{Current: branch.CashbackCapital, Requested: amount}
	}
	if err := s.branchRepo.SetCapitalTx(tx, branchID, next); err != nil {
		return decimal.Zero, err
	}
	return next, nil
}

func (s *cashbackService) Credit(ctx context.Context, actor Actor, branchID uuid.UUID, amount decimal.Decimal, notes *string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("credit amount must be positive")
	}

	var before, after decimal.Decimal
	txErr := runTx(ctx, s.branchRepo.DB(), func(tx *gorm.DB) error {
		branch, err := s.branchRepo.FindByIDForUpdate(tx, branchID)
		if err != nil {
			return fmt.Errorf("branch %s: %w", branchID, ErrNotFound)
		}
		before = branch.CashbackCapital
		after = before.Add(amount)
		return s.branchRepo.SetCapitalTx(tx, branchID, after)
	})
	if txErr != nil {
		return decimal.Zero, txErr
	}

	s.auditor.Record(ctx, actor, "cashback_capital.credit", "branch", branchID.String(),
		map[string]string{"balance": before.String()},
		map[string]string{"balance": after.String(), "notes": strOrEmpty(notes)})
	return after, nil
}

func (s *cashbackService) Balance(ctx context.Context, branchID uuid.UUID) (decimal.Decimal, error) {
	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("branch %s: %w", branchID, ErrNotFound)
	}
	return branch.CashbackCapital, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
