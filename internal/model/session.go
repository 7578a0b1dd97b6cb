package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session statuses.
const (
	SessionStatusOpen   = "open"
	SessionStatusClosed = "closed"
)

// Session is one cashier shift at a branch. At most one OPEN session exists
// per (branch, user) at a time. OPEN → CLOSED is terminal; no reopening.
type Session struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpenedByID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'open'"`
	// Closing fields are written once, at close.
	ClosingBalance *decimal.Decimal `gorm:"type:decimal(14,2)"`
	ExpectedCash   *decimal.Decimal `gorm:"type:decimal(14,2)"`
	Variance       *decimal.Decimal `gorm:"type:decimal(14,2)"`
	ClosedByID     *uuid.UUID       `gorm:"type:uuid"`
	Notes          *string
	OpenedAt       time.Time
	ClosedAt       *time.Time

	OpenedBy *User `gorm:"foreignKey:OpenedByID"`
}
