package service_test

// In-memory repository stubs. Services run with a nil *gorm.DB, so runTx
// calls its body directly and every Tx-suffixed method receives a nil tx.

import (
	"context"
	"errors"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Product repo ──────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	variants map[uuid.UUID]*model.ProductVariant
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		variants: make(map[uuid.UUID]*model.ProductVariant),
	}
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindVariantByID(_ context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	v, ok := r.variants[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return v, nil
}

func (r *stubProductRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) FindVariantByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.ProductVariant, error) {
	return r.FindVariantByID(context.Background(), id)
}

func (r *stubProductRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.StockQuantity = &quantity
	return nil
}

func (r *stubProductRepo) SetVariantStockTx(_ *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	v, ok := r.variants[id]
	if !ok {
		return errors.New("not found")
	}
	v.StockQuantity = &quantity
	return nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context, _ uuid.UUID) ([]model.Product, []model.ProductVariant, error) {
	var products []model.Product
	for _, p := range r.products {
		if p.StockQuantity != nil && p.LowStockThreshold != nil &&
			p.StockQuantity.LessThanOrEqual(*p.LowStockThreshold) {
			products = append(products, *p)
		}
	}
	var variants []model.ProductVariant
	for _, v := range r.variants {
		if v.StockQuantity != nil && v.LowStockThreshold != nil &&
			v.StockQuantity.LessThanOrEqual(*v.LowStockThreshold) {
			variants = append(variants, *v)
		}
	}
	return products, variants, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// seedProduct registers a tracked product and returns it.
func seedProduct(r *stubProductRepo, branchID uuid.UUID, name, sku string, price float64, stock, threshold int64) *model.Product {
	qty := decimal.NewFromInt(stock)
	thr := decimal.NewFromInt(threshold)
	p := &model.Product{
		ID:                uuid.New(),
		BranchID:          branchID,
		SKU:               sku,
		Name:              name,
		CostPrice:         decimal.NewFromFloat(price / 2),
		SellingPrice:      decimal.NewFromFloat(price),
		TaxRate:           decimal.Zero,
		StockQuantity:     &qty,
		LowStockThreshold: &thr,
		Active:            true,
	}
	r.products[p.ID] = p
	return p
}

// ── Inventory log repo ────────────────────────────────────────────────────────

type stubInventoryLogRepo struct {
	logs []model.InventoryLog
}

func (r *stubInventoryLogRepo) CreateTx(_ *gorm.DB, l *model.InventoryLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	r.logs = append(r.logs, *l)
	return nil
}

func (r *stubInventoryLogRepo) List(_ context.Context, _ repository.InventoryLogFilter) ([]model.InventoryLog, int64, error) {
	return r.logs, int64(len(r.logs)), nil
}

var _ repository.InventoryLogRepository = (*stubInventoryLogRepo)(nil)

// ── Sale repo ─────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.Sale
	receiptSeq int

	cashPayments decimal.Decimal
	cashbackPaid decimal.Decimal

	// saveErr, when set, is returned by SaveTx to simulate write failures.
	saveErr error
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSaleRepo) SaveTx(_ *gorm.DB, s *model.Sale) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) CreatePaymentTx(_ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	return nil
}

func (r *stubSaleRepo) NextReceiptNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.receiptSeq++
	return r.receiptSeq, nil
}

func (r *stubSaleRepo) List(_ context.Context, branchID uuid.UUID, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.BranchID == branchID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) SumCashPayments(_ context.Context, _ uuid.UUID, _ time.Time, _ *time.Time) (decimal.Decimal, error) {
	return r.cashPayments, nil
}

func (r *stubSaleRepo) SumCashbackPaid(_ context.Context, _ uuid.UUID, _ time.Time, _ *time.Time) (decimal.Decimal, error) {
	return r.cashbackPaid, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Session repo ──────────────────────────────────────────────────────────────

type stubSessionRepo struct {
	sessions    map[uuid.UUID]*model.Session
	lockedReads int
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[uuid.UUID]*model.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *model.Session) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *stubSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSessionRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Session, error) {
	r.lockedReads++
	return r.FindByID(context.Background(), id)
}

func (r *stubSessionRepo) FindOpen(_ context.Context, branchID, userID uuid.UUID) (*model.Session, error) {
	for _, s := range r.sessions {
		if s.BranchID == branchID && s.OpenedByID == userID && s.Status == model.SessionStatusOpen {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubSessionRepo) UpdateTx(_ *gorm.DB, s *model.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *stubSessionRepo) DB() *gorm.DB { return nil }

var _ repository.SessionRepository = (*stubSessionRepo)(nil)

// ── Branch repo ───────────────────────────────────────────────────────────────

type stubBranchRepo struct {
	branches map[uuid.UUID]*model.Branch
}

func newStubBranchRepo() *stubBranchRepo {
	return &stubBranchRepo{branches: make(map[uuid.UUID]*model.Branch)}
}

func (r *stubBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return b, nil
}

func (r *stubBranchRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Branch, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubBranchRepo) SetCapitalTx(_ *gorm.DB, id uuid.UUID, balance decimal.Decimal) error {
	b, ok := r.branches[id]
	if !ok {
		return errors.New("not found")
	}
	b.CashbackCapital = balance
	return nil
}

func (r *stubBranchRepo) ListActive(_ context.Context) ([]model.Branch, error) {
	var out []model.Branch
	for _, b := range r.branches {
		if b.Active {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *stubBranchRepo) DB() *gorm.DB { return nil }

var _ repository.BranchRepository = (*stubBranchRepo)(nil)

func seedBranch(r *stubBranchRepo, capital float64) *model.Branch {
	b := &model.Branch{
		ID:              uuid.New(),
		Name:            "Test Branch",
		CashbackCapital: decimal.NewFromFloat(capital),
		Active:          true,
	}
	r.branches[b.ID] = b
	return b
}

// ── Expense repo ──────────────────────────────────────────────────────────────

type stubExpenseRepo struct {
	expenses []model.Expense
	sum      decimal.Decimal
}

func (r *stubExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *stubExpenseRepo) List(_ context.Context, _ uuid.UUID, _ string, _, _ int) ([]model.Expense, int64, error) {
	return r.expenses, int64(len(r.expenses)), nil
}

func (r *stubExpenseRepo) SumAmount(_ context.Context, _ uuid.UUID, _ time.Time, _ *time.Time) (decimal.Decimal, error) {
	return r.sum, nil
}

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)
