// Package worker consumes record events and maintains the audit log.
package worker

import (
	"context"
	"fmt"
	"time"

	"finbook/internal/amqp"
	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// Worker persists every consumed record event as an audit entry.
type Worker struct {
	store  *storage.Repository
	logger *log.Logger
}

func New(store *storage.Repository, logger *log.Logger) *Worker {
	return &Worker{
		store:  store,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// Handler returns the function the AMQP consumer runs per event.
// Malformed events are logged and dropped; storage failures are
// returned so the delivery is requeued.
func (w *Worker) Handler(ctx context.Context) func(*amqp.RecordEvent) error {
	return func(event *amqp.RecordEvent) error {
		if event.Entity == "" || event.Action == "" {
			w.logger.WarnContext(ctx, "Dropping malformed record event",
				log.FieldEntity, event.Entity,
				log.FieldOperation, event.Action,
				log.FieldRecordID, event.ID)
			return nil
		}

		entry := core.AuditEntry{
			Entity:     event.Entity,
			Action:     event.Action,
			RecordID:   event.ID,
			UserID:     event.UserID,
			OccurredAt: event.Timestamp.UTC().Format(time.RFC3339),
		}
		if _, err := w.store.InsertAuditEntry(ctx, entry); err != nil {
			return fmt.Errorf("persist audit entry: %w", err)
		}

		w.logger.InfoContext(ctx, "Recorded audit entry",
			log.FieldEntity, event.Entity,
			log.FieldOperation, event.Action,
			log.FieldRecordID, event.ID,
			log.FieldUserID, event.UserID)
		return nil
	}
}
