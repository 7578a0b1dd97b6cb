package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale kinds.
const (
	SaleKindPurchase = "purchase"
	SaleKindCashback = "cashback"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPartial   = "partial"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

// Credit statuses. Both SETTLED and WRITTEN_OFF are terminal.
const (
	CreditStatusOpen       = "open"
	CreditStatusSettled    = "settled"
	CreditStatusWrittenOff = "written_off"
)

// Payment methods.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// Sale is one checkout transaction. Immutable once created except for the
// payment-related fields and credit status, which only the settlement flow
// touches.
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptNumber int       `gorm:"uniqueIndex;not null"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID `gorm:"type:uuid;not null"`
	Kind          string    `gorm:"type:varchar(20);not null;default:'purchase'"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	// AmountDue is derived: max(0, TotalAmount - AmountPaid).
	AmountDue   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	ChangeGiven decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	// Cashback fields — set only when Kind == "cashback".
	CashbackAmount *decimal.Decimal `gorm:"type:decimal(14,2)"`
	ServiceCharge  *decimal.Decimal `gorm:"type:decimal(14,2)"`

	PaymentStatus string `gorm:"type:varchar(20);not null"`
	IsCreditSale  bool   `gorm:"not null;default:false"`
	// CreditStatus is present only when IsCreditSale.
	CreditStatus  *string `gorm:"type:varchar(20)"`
	CustomerName  *string
	CustomerPhone *string
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items    []SaleItem `gorm:"foreignKey:SaleID"`
	Payments []Payment  `gorm:"foreignKey:SaleID"`
	User     *User      `gorm:"foreignKey:UserID"`
}

// SaleItem is a line of a Sale with a frozen snapshot of the product at sale
// time. Created once with the Sale, never mutated.
type SaleItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index"`
	VariantID *uuid.UUID `gorm:"type:uuid;index"`

	Name      string          `gorm:"not null"`
	SKU       string          `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	CreatedAt time.Time
}

// Payment is one instrument applied to a Sale. Append-only — settlements and
// split tenders add rows, nothing updates or deletes them.
type Payment struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method string          `gorm:"type:varchar(20);not null"`
	Amount decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// IsSettlement marks a later credit-settlement payment as opposed to a
	// payment taken at checkout.
	IsSettlement bool `gorm:"not null;default:false"`
	Reference    *string
	Notes        *string
	CreatedAt    time.Time
}
