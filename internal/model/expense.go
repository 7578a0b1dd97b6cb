package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a cash outflow recorded during a shift (supplies, transport,
// petty repairs). Expenses reduce the expected drawer cash at reconciliation.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Category    string          `gorm:"type:varchar(50);not null;default:'general'"`
	Description string          `gorm:"not null"`
	CreatedAt   time.Time
}
