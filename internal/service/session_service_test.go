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

type sessionFixture struct {
	svc      service.SessionService
	sessions *stubSessionRepo
	saleRepo *stubSaleRepo
	expenses *stubExpenseRepo
	actor    service.Actor
}

func buildSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	sessions := newStubSessionRepo()
	saleRepo := newStubSaleRepo()
	expenses := &stubExpenseRepo{sum: decimal.Zero}
	actor := service.Actor{UserID: uuid.New(), BranchID: uuid.New(), Role: "cashier"}

	return &sessionFixture{
		svc:      service.NewSessionService(sessions, saleRepo, expenses, nil),
		sessions: sessions,
		saleRepo: saleRepo,
		expenses: expenses,
		actor:    actor,
	}
}

func TestOpenSession(t *testing.T) {
	f := buildSessionFixture(t)

	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{
		OpeningBalance: dec("10000"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.SessionStatusOpen, resp.Status)
	assert.Equal(t, "10000", resp.OpeningBalance.String())
	assert.Equal(t, f.actor.BranchID.String(), resp.BranchID)
}

func TestOpenSessionTwiceRejected(t *testing.T) {
	f := buildSessionFixture(t)

	_, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("5000")})
	require.NoError(t, err)

	_, err = f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("5000")})
	assert.ErrorIs(t, err, service.ErrAlreadyOpen)
}

func TestCloseSessionBalanced(t *testing.T) {
	f := buildSessionFixture(t)
	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("10000")})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(resp.ID)

	// During the shift: 2000 in cash payments, 500 paid out as expenses.
	f.saleRepo.cashPayments = dec("2000")
	f.saleRepo.cashbackPaid = decimal.Zero
	f.expenses.sum = dec("500")

	summary, err := f.svc.Close(context.Background(), f.actor, sessionID, dto.CloseSessionRequest{
		ClosingBalance: dec("11500"),
	})
	require.NoError(t, err)

	assert.Equal(t, "11500", summary.ExpectedCash.String())
	assert.Equal(t, "2000", summary.CashPayments.String())
	assert.Equal(t, "500", summary.Expenses.String())
	require.NotNil(t, summary.Variance)
	assert.True(t, summary.Variance.IsZero())
	require.NotNil(t, summary.IsBalanced)
	assert.True(t, *summary.IsBalanced)
	assert.Equal(t, model.SessionStatusClosed, summary.Session.Status)
}

func TestCloseSessionWithShortage(t *testing.T) {
	f := buildSessionFixture(t)
	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("10000")})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(resp.ID)

	f.saleRepo.cashPayments = dec("2000")
	f.expenses.sum = dec("500")

	// Drawer counts 50 short.
	summary, err := f.svc.Close(context.Background(), f.actor, sessionID, dto.CloseSessionRequest{
		ClosingBalance: dec("11450"),
	})
	require.NoError(t, err)

	require.NotNil(t, summary.Variance)
	assert.Equal(t, "-50", summary.Variance.String())
	require.NotNil(t, summary.IsBalanced)
	assert.False(t, *summary.IsBalanced)
}

func TestCloseSessionSubtractsCashbackPayouts(t *testing.T) {
	f := buildSessionFixture(t)
	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("10000")})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(resp.ID)

	f.saleRepo.cashPayments = dec("3000")
	f.saleRepo.cashbackPaid = dec("1200")

	summary, err := f.svc.Close(context.Background(), f.actor, sessionID, dto.CloseSessionRequest{
		ClosingBalance: dec("11800"),
	})
	require.NoError(t, err)

	// 10000 + 3000 - 1200 = 11800
	assert.Equal(t, "11800", summary.ExpectedCash.String())
	assert.Equal(t, "1200", summary.CashbackPaid.String())
	assert.True(t, summary.Variance.IsZero())
}

func TestCloseReadsSessionUnderLock(t *testing.T) {
	f := buildSessionFixture(t)
	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("1000")})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(resp.ID)

	_, err = f.svc.Close(context.Background(), f.actor, sessionID, dto.CloseSessionRequest{ClosingBalance: dec("1000")})
	require.NoError(t, err)

	// The status guard only holds under concurrent closes if the read takes
	// the row lock.
	assert.Equal(t, 1, f.sessions.lockedReads)
}

func TestCloseSessionTwiceRejected(t *testing.T) {
	f := buildSessionFixture(t)
	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("1000")})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(resp.ID)

	_, err = f.svc.Close(context.Background(), f.actor, sessionID, dto.CloseSessionRequest{ClosingBalance: dec("1000")})
	require.NoError(t, err)

	_, err = f.svc.Close(context.Background(), f.actor, sessionID, dto.CloseSessionRequest{ClosingBalance: dec("1000")})
	assert.ErrorIs(t, err, service.ErrAlreadyClosed)
}

func TestCloseSessionForeignBranch(t *testing.T) {
	f := buildSessionFixture(t)
	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("1000")})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(resp.ID)

	foreign := service.Actor{UserID: f.actor.UserID, BranchID: uuid.New(), Role: "manager"}
	_, err = f.svc.Close(context.Background(), foreign, sessionID, dto.CloseSessionRequest{ClosingBalance: dec("1000")})
	assert.ErrorIs(t, err, service.ErrForbiddenBranch)
}

func TestReportOpenSessionHasNoVariance(t *testing.T) {
	f := buildSessionFixture(t)
	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("10000")})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(resp.ID)

	f.saleRepo.cashPayments = dec("750")

	summary, err := f.svc.Report(context.Background(), f.actor, sessionID)
	require.NoError(t, err)

	assert.Equal(t, "10750", summary.ExpectedCash.String())
	// Variance only exists once a closing balance has been declared.
	assert.Nil(t, summary.Variance)
	assert.Nil(t, summary.IsBalanced)
}

func TestReportClosedSessionKeepsVariance(t *testing.T) {
	f := buildSessionFixture(t)
	resp, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("10000")})
	require.NoError(t, err)
	sessionID, _ := uuid.Parse(resp.ID)

	f.saleRepo.cashPayments = dec("2000")
	_, err = f.svc.Close(context.Background(), f.actor, sessionID, dto.CloseSessionRequest{ClosingBalance: dec("12000")})
	require.NoError(t, err)

	summary, err := f.svc.Report(context.Background(), f.actor, sessionID)
	require.NoError(t, err)

	require.NotNil(t, summary.Variance)
	assert.True(t, summary.Variance.IsZero())
	assert.Equal(t, model.SessionStatusClosed, summary.Session.Status)
}

func TestCurrentSession(t *testing.T) {
	f := buildSessionFixture(t)

	_, err := f.svc.Current(context.Background(), f.actor)
	assert.ErrorIs(t, err, service.ErrNoOpenSession)

	opened, err := f.svc.Open(context.Background(), f.actor, dto.OpenSessionRequest{OpeningBalance: dec("500")})
	require.NoError(t, err)

	current, err := f.svc.Current(context.Background(), f.actor)
	require.NoError(t, err)
	assert.Equal(t, opened.ID, current.ID)
}
