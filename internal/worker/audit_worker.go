package worker

// audit_worker.go
// Persists audit trail events from QueueAudit. The trail is best-effort: a
// failed write is logged and dropped, never retried against the caller.

import (
	"context"
	"encoding/json"

	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuditJobPayload is the job envelope sent to QueueAudit.
type AuditJobPayload struct {
	ActorID  string          `json:"actor_id"`
	Action   string          `json:"action"`
	Entity   string          `json:"entity"`
	EntityID string          `json:"entity_id"`
	Before   json.RawMessage `json:"before,omitempty"`
	After    json.RawMessage `json:"after,omitempty"`
}

type AuditWorker struct {
	repo repository.AuditLogRepository
}

func NewAuditWorker(repo repository.AuditLogRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

// Process writes one audit row.
func (w *AuditWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AuditJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("audit_worker: invalid payload")
		return
	}

	actorID, err := uuid.Parse(payload.ActorID)
	if err != nil {
		log.Error().Str("actor_id", payload.ActorID).Msg("audit_worker: invalid actor_id")
		return
	}

	entry := &model.AuditLog{
		ActorID:  actorID,
		Action:   payload.Action,
		Entity:   payload.Entity,
		EntityID: payload.EntityID,
		Before:   payload.Before,
		After:    payload.After,
	}
	if err := w.repo.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("action", payload.Action).
			Str("entity", payload.Entity).
			Msg("audit_worker: failed to persist audit entry")
		return
	}
	log.Debug().Str("action", payload.Action).Str("entity", payload.Entity).Msg("audit_worker: entry persisted")
}
