package repository

import (
	"context"
	"time"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	// FindByIDForUpdate locks the sale row for the settlement read-modify-write.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	SaveTx(tx *gorm.DB, s *model.Sale) error
	CreatePaymentTx(tx *gorm.DB, p *model.Payment) error
	NextReceiptNumber(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, branchID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)

	// Reconciliation aggregates — pure reads over committed rows, scoped to a
	// branch and a time window.
	SumCashPayments(ctx context.Context, branchID uuid.UUID, from time.Time, to *time.Time) (decimal.Decimal, error)
	SumCashbackPaid(ctx context.Context, branchID uuid.UUID, from time.Time, to *time.Time) (decimal.Decimal, error)

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("Payments").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	db := tx
	if db == nil {
		db = r.db
	} else {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var s model.Sale
	if err := db.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Associations load outside the lock clause — the row lock is what matters.
	if tx != nil {
		if err := tx.Model(&s).Association("Payments").Find(&s.Payments); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (r *saleRepo) SaveTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit("Items", "Payments").Save(s).Error
}

func (r *saleRepo) CreatePaymentTx(tx *gorm.DB, p *model.Payment) error {
	return tx.Create(p).Error
}

func (r *saleRepo) NextReceiptNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps receipt numbers unique and gap-tolerant under
	// concurrent checkouts.
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('sales_receipt_number_seq')").Scan(&num).Error
	return num, err
}

func (r *saleRepo) List(ctx context.Context, branchID uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("branch_id = ?", branchID)

	if filter.Kind != "" && filter.Kind != "all" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.PaymentStatus != "" && filter.PaymentStatus != "all" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CreditOnly {
		q = q.Where("is_credit_sale = true")
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").Preload("Payments").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) SumCashPayments(ctx context.Context, branchID uuid.UUID, from time.Time, to *time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Payment{}).
		Joins("JOIN sales ON sales.id = payments.sale_id").
		Where("sales.branch_id = ?", branchID).
		Where("payments.method = ?", model.PaymentMethodCash).
		Where("payments.created_at >= ?", from)
	if to != nil {
		q = q.Where("payments.created_at <= ?", *to)
	}
	var sum decimal.Decimal
	err := q.Select("COALESCE(SUM(payments.amount), 0)").Scan(&sum).Error
	return sum, err
}

func (r *saleRepo) SumCashbackPaid(ctx context.Context, branchID uuid.UUID, from time.Time, to *time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("branch_id = ? AND kind = ?", branchID, model.SaleKindCashback).
		Where("created_at >= ?", from)
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	var sum decimal.Decimal
	err := q.Select("COALESCE(SUM(amount_paid), 0)").Scan(&sum).Error
	return sum, err
}
