package service

import (
	"context"
	"fmt"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// reconciliationEpsilon is one minor currency unit — variances below it count
// as balanced.
var reconciliationEpsilon = decimal.NewFromFloat(0.01)

// SessionService manages cashier shifts and drawer reconciliation.
// Reconciliation is a pure aggregation over committed sale/payment/expense
// rows scoped to the session's branch and time window — it performs no writes,
// so open/close never needs to lock in-flight sales.
type SessionService interface {
	Open(ctx context.Context, actor Actor, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, actor Actor, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionSummaryResponse, error)
	// Report computes the reconciliation on demand, for open or closed sessions.
	Report(ctx context.Context, actor Actor, sessionID uuid.UUID) (*dto.SessionSummaryResponse, error)
	// Current returns the actor's open session, if any.
	Current(ctx context.Context, actor Actor) (*dto.SessionResponse, error)
}

type sessionService struct {
	repo        repository.SessionRepository
	saleRepo    repository.SaleRepository
	expenseRepo repository.ExpenseRepository
	auditor     *Auditor
}

func NewSessionService(
	repo repository.SessionRepository,
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
	auditor *Auditor,
) SessionService {
	return &sessionService{repo: repo, saleRepo: saleRepo, expenseRepo: expenseRepo, auditor: auditor}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *sessionService) Open(ctx context.Context, actor Actor, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	// Guard: at most one open session per (branch, user).
	if existing, err := s.repo.FindOpen(ctx, actor.BranchID, actor.UserID); err == nil && existing != nil {
		return nil, ErrAlreadyOpen
	}

	session := &model.Session{
		BranchID:       actor.BranchID,
		OpenedByID:     actor.UserID,
		OpeningBalance: req.OpeningBalance,
		Status:         model.SessionStatusOpen,
		OpenedAt:       time.Now(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, actor, "session.open", "session", session.ID.String(), nil, session)
	resp := sessionToResponse(session)
	return &resp, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────
// Sets CLOSED, stores the declared balance and the computed expectation.
// OPEN → CLOSED is terminal. The row lock makes the status guard hold under
// concurrent closes — the loser sees CLOSED and gets AlreadyClosed.

func (s *sessionService) Close(ctx context.Context, actor Actor, sessionID uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionSummaryResponse, error) {
	var (
		session *model.Session
		agg     *sessionAggregate
	)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		session, err = s.repo.FindByIDForUpdate(tx, sessionID)
		if err != nil {
			return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		if session.BranchID != actor.BranchID {
			return ErrForbiddenBranch
		}
		if session.Status != model.SessionStatusOpen {
			return ErrAlreadyClosed
		}

		now := time.Now()
		agg, err = s.aggregate(ctx, session, &now)
		if err != nil {
			return err
		}

		closing := req.ClosingBalance
		variance := closing.Sub(agg.expected)

		session.Status = model.SessionStatusClosed
		session.ClosedAt = &now
		session.ClosingBalance = &closing
		session.ExpectedCash = &agg.expected
		session.Variance = &variance
		closedBy := actor.UserID
		session.ClosedByID = &closedBy
		session.Notes = req.Notes

		return s.repo.UpdateTx(tx, session)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.auditor.Record(ctx, actor, "session.close", "session", session.ID.String(), nil, session)
	return s.buildSummary(session, agg), nil
}

// ── Report ────────────────────────────────────────────────────────────────────

func (s *sessionService) Report(ctx context.Context, actor Actor, sessionID uuid.UUID) (*dto.SessionSummaryResponse, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if session.BranchID != actor.BranchID {
		return nil, ErrForbiddenBranch
	}

	// Closed sessions report over their frozen window; open ones up to now.
	to := session.ClosedAt
	agg, err := s.aggregate(ctx, session, to)
	if err != nil {
		return nil, err
	}
	return s.buildSummary(session, agg), nil
}

func (s *sessionService) Current(ctx context.Context, actor Actor) (*dto.SessionResponse, error) {
	session, err := s.repo.FindOpen(ctx, actor.BranchID, actor.UserID)
	if err != nil {
		return nil, ErrNoOpenSession
	}
	resp := sessionToResponse(session)
	return &resp, nil
}

// ── Aggregation ───────────────────────────────────────────────────────────────

type sessionAggregate struct {
	cashPayments decimal.Decimal
	cashbackPaid decimal.Decimal
	expenses     decimal.Decimal
	expected     decimal.Decimal
}

// aggregate computes expectedCash = openingBalance + cash payments
// - cashback payouts - expenses over the session's branch and window.
func (s *sessionService) aggregate(ctx context.Context, session *model.Session, to *time.Time) (*sessionAggregate, error) {
	cash, err := s.saleRepo.SumCashPayments(ctx, session.BranchID, session.OpenedAt, to)
	if err != nil {
		return nil, err
	}
	cashback, err := s.saleRepo.SumCashbackPaid(ctx, session.BranchID, session.OpenedAt, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.SumAmount(ctx, session.BranchID, session.OpenedAt, to)
	if err != nil {
		return nil, err
	}

	return &sessionAggregate{
		cashPayments: cash,
		cashbackPaid: cashback,
		expenses:     expenses,
		expected:     session.OpeningBalance.Add(cash).Sub(cashback).Sub(expenses),
	}, nil
}

func (s *sessionService) buildSummary(session *model.Session, agg *sessionAggregate) *dto.SessionSummaryResponse {
	summary := &dto.SessionSummaryResponse{
		Session:      sessionToResponse(session),
		CashPayments: agg.cashPayments,
		CashbackPaid: agg.cashbackPaid,
		Expenses:     agg.expenses,
		ExpectedCash: agg.expected,
	}
	if session.ClosingBalance != nil {
		summary.ClosingBalance = session.ClosingBalance
		variance := session.ClosingBalance.Sub(agg.expected)
		summary.Variance = &variance
		balanced := variance.Abs().LessThan(reconciliationEpsilon)
		summary.IsBalanced = &balanced
	}
	return summary
}

func sessionToResponse(session *model.Session) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:             session.ID.String(),
		BranchID:       session.BranchID.String(),
		OpenedByID:     session.OpenedByID.String(),
		OpeningBalance: session.OpeningBalance,
		Status:         session.Status,
		OpenedAt:       session.OpenedAt.Format(time.RFC3339),
	}
	if session.ClosedAt != nil {
		t := session.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
