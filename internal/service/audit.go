package service

import (
	"context"
	"encoding/json"

	"tillpoint/internal/worker"

	"github.com/rs/zerolog/log"
)

// Auditor emits audit events for mutating operations. Events go through the
// async worker queue and are persisted by the audit worker — a failed enqueue
// or write is logged and never fails the business operation.
type Auditor struct {
	dispatcher *worker.Dispatcher
}

func NewAuditor(dispatcher *worker.Dispatcher) *Auditor {
	return &Auditor{dispatcher: dispatcher}
}

// Record enqueues one audit event. Safe to call on a nil Auditor (unit test
// mode) — it becomes a no-op.
func (a *Auditor) Record(ctx context.Context, actor Actor, action, entity, entityID string, before, after interface{}) {
	if a == nil || a.dispatcher == nil {
		return
	}

	payload := worker.AuditJobPayload{
		ActorID:  actor.UserID.String(),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}
	if before != nil {
		if raw, err := json.Marshal(before); err == nil {
			payload.Before = raw
		}
	}
	if after != nil {
		if raw, err := json.Marshal(after); err == nil {
			payload.After = raw
		}
	}

	if err := a.dispatcher.EnqueueAudit(ctx, payload); err != nil {
		log.Warn().Err(err).
			Str("action", action).
			Str("entity", entity).
			Str("entity_id", entityID).
			Msg("audit event enqueue failed")
	}
}
