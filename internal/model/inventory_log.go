package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory change types.
const (
	StockChangeSale    = "sale"
	StockChangeManual  = "manual"
	StockChangeRestock = "restock"
)

// InventoryLog records every stock change on a product or variant.
// Rows are immutable — never updated or deleted. Each row is written in the
// same transaction as the quantity change it describes, so readers never
// observe one without the other.
type InventoryLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	VariantID  *uuid.UUID `gorm:"type:uuid;index"`
	ChangeType string     `gorm:"type:varchar(20);not null"`
	// QuantityChange is signed: positive = stock in, negative = stock out.
	QuantityChange   decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PreviousQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	NewQuantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Reason           *string
	// SaleID links to the sale that caused the change, when there is one.
	SaleID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (InventoryLog) TableName() string { return "inventory_logs" }
