package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by a branch. A nil StockQuantity means the
// product does not track inventory; the inventory service treats adjustments
// on it as a contract violation. When HasVariants is true the product itself
// carries no sellable stock — stock lives on its variants.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU          string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"index;not null"`
	Description  *string
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	// StockQuantity supports fractional quantities for weight/volume goods.
	StockQuantity     *decimal.Decimal `gorm:"type:decimal(12,3)"`
	LowStockThreshold *decimal.Decimal `gorm:"type:decimal(12,3)"`
	HasVariants       bool             `gorm:"not null;default:false"`
	Active            bool             `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Branch   *Branch          `gorm:"foreignKey:BranchID"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
}

// TracksInventory reports whether stock is tracked for this product.
func (p *Product) TracksInventory() bool { return p.StockQuantity != nil }

// ProductVariant is one sellable variation of a parent product (size, colour,
// pack). It freezes its own prices and stock; the parent reference is a plain
// foreign key, never an in-memory back-pointer.
type ProductVariant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU          string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQuantity     *decimal.Decimal `gorm:"type:decimal(12,3)"`
	LowStockThreshold *decimal.Decimal `gorm:"type:decimal(12,3)"`
	Active            bool             `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// TracksInventory reports whether stock is tracked for this variant.
func (v *ProductVariant) TracksInventory() bool { return v.StockQuantity != nil }
