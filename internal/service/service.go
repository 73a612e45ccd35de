// Package service orchestrates record operations across storage and
// messaging. Every owner-scoped operation resolves the user first, so a
// missing user is always reported as such rather than as a missing
// record.
package service

import (
	"context"
	"fmt"

	"finbook/internal/amqp"
	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// Event entity names.
const (
	EntityUser    = "user"
	EntityIncome  = "income"
	EntityExpense = "expense"
	EntityBudget  = "budget"
)

// Event action names.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// resolveOwner loads the user every owner-scoped operation is performed
// for. The lookup and the subsequent store call are separate statements;
// a concurrent user deletion in between is tolerated.
func resolveOwner(ctx context.Context, store *storage.Repository, userID int64) (core.User, error) {
	user, err := store.GetUser(ctx, userID)
	if err != nil {
		return core.User{}, fmt.Errorf("resolve owner: %w", err)
	}
	return user, nil
}

// publishEvent emits a mutation event. Failures are logged and never
// propagate: the store write already succeeded.
func publishEvent(ctx context.Context, publisher Publisher, logger *log.Logger, entity, action string, id, userID int64) {
	if publisher == nil {
		return
	}
	event := amqp.NewRecordEvent(entity, action, id, userID)
	if err := publisher.PublishRecordEvent(ctx, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish record event",
			log.FieldEntity, entity,
			log.FieldOperation, action,
			log.FieldRecordID, id,
			log.FieldUserID, userID,
			log.FieldError, err)
	}
}
