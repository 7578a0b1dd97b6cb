package repository

import (
	"context"

	"tillpoint/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for catalog reads and
// stock writes. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindVariantByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)

	// Locked reads — used inside transactions so the stock check and the
	// decrement share one serialization point. A nil tx falls back to the
	// unlocked connection (unit test mode).
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindVariantByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ProductVariant, error)

	// Absolute stock writes — callers compute the new quantity under lock.
	SetStockTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error
	SetVariantStockTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error

	ListLowStock(ctx context.Context, branchID uuid.UUID) ([]model.Product, []model.ProductVariant, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindVariantByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *productRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	db := tx
	if db == nil {
		db = r.db
	} else {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p model.Product
	err := db.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindVariantByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ProductVariant, error) {
	db := tx
	if db == nil {
		db = r.db
	} else {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var v model.ProductVariant
	err := db.First(&v, "id = ?", id).Error
	return &v, err
}

func (r *productRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock_quantity", quantity).Error
}

func (r *productRepo) SetVariantStockTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	return tx.Model(&model.ProductVariant{}).Where("id = ?", id).
		Update("stock_quantity", quantity).Error
}

func (r *productRepo) ListLowStock(ctx context.Context, branchID uuid.UUID) ([]model.Product, []model.ProductVariant, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND active = true AND has_variants = false", branchID).
		Where("stock_quantity IS NOT NULL AND low_stock_threshold IS NOT NULL").
		Where("stock_quantity <= low_stock_threshold").
		Find(&products).Error
	if err != nil {
		return nil, nil, err
	}

	var variants []model.ProductVariant
	err = r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("products.branch_id = ? AND product_variants.active = true", branchID).
		Where("product_variants.stock_quantity IS NOT NULL AND product_variants.low_stock_threshold IS NOT NULL").
		Where("product_variants.stock_quantity <= product_variants.low_stock_threshold").
		Find(&variants).Error
	return products, variants, err
}
