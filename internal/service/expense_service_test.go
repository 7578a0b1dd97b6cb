package service_test

import (
	"context"
	"testing"

	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExpense(t *testing.T) {
	repo := &stubExpenseRepo{sum: decimal.Zero}
	svc := service.NewExpenseService(repo, nil)
	actor := service.Actor{UserID: uuid.New(), BranchID: uuid.New(), Role: "cashier"}

	resp, err := svc.Create(context.Background(), actor, dto.CreateExpenseRequest{
		Amount:      dec("250.505"),
		Category:    "fuel",
		Description: "generator diesel",
	})
	require.NoError(t, err)

	// Rounded to minor-unit precision on the way in.
	assert.Equal(t, "250.51", resp.Amount.String())
	assert.Equal(t, "fuel", resp.Category)
	require.Len(t, repo.expenses, 1)
	assert.Equal(t, actor.BranchID, repo.expenses[0].BranchID)
}

func TestCreateExpenseDefaultsCategory(t *testing.T) {
	repo := &stubExpenseRepo{sum: decimal.Zero}
	svc := service.NewExpenseService(repo, nil)
	actor := service.Actor{UserID: uuid.New(), BranchID: uuid.New(), Role: "cashier"}

	resp, err := svc.Create(context.Background(), actor, dto.CreateExpenseRequest{
		Amount:      dec("100"),
		Description: "misc supplies",
	})
	require.NoError(t, err)
	assert.Equal(t, "general", resp.Category)
}

func TestCreateExpenseNonPositiveRejected(t *testing.T) {
	repo := &stubExpenseRepo{sum: decimal.Zero}
	svc := service.NewExpenseService(repo, nil)
	actor := service.Actor{UserID: uuid.New(), BranchID: uuid.New(), Role: "cashier"}

	_, err := svc.Create(context.Background(), actor, dto.CreateExpenseRequest{
		Amount:      decimal.Zero,
		Description: "nothing",
	})
	assert.ErrorContains(t, err, "must be positive")
}
