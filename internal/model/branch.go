package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Branch is a physical store location. Besides identity it carries the
// cashback capital pool and the service charge rate applied to cashback
// transactions. CashbackCapital is mutated only by the cashback service
// inside a row-locked transaction — no other code path writes it.
type Branch struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"uniqueIndex;not null"`
	Address *string
	Phone   *string
	// CashbackCapital is the branch's advanceable cash pool. Never negative
	// at any committed state.
	CashbackCapital           decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CashbackServiceChargeRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0"`
	Active                    bool            `gorm:"not null;default:true"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

func (Branch) TableName() string { return "branches" }
