package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is a best-effort trail of mutating operations. Rows are written by
// the audit worker after the business transaction commits; a failed audit
// write never rolls anything back.
type AuditLog struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Action   string    `gorm:"type:varchar(50);not null"`
	Entity   string    `gorm:"type:varchar(50);not null"`
	EntityID string    `gorm:"type:varchar(60);not null;index"`
	Before   json.RawMessage `gorm:"type:jsonb"`
	After    json.RawMessage `gorm:"type:jsonb"`
	CreatedAt time.Time
}
