package storage

import (
	"context"
	"fmt"

	"finbook/internal/core"
)

// InsertAuditEntry appends one entry to the audit log and returns its
// generated id.
func (r *Repository) InsertAuditEntry(ctx context.Context, e core.AuditEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (entity, action, record_id, user_id, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.Entity, e.Action, e.RecordID, e.UserID, e.OccurredAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert audit entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve audit entry id: %w", err)
	}
	return id, nil
}

// AuditEntriesByUser returns the user's audit trail in insertion order.
func (r *Repository) AuditEntriesByUser(ctx context.Context, userID int64) ([]core.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity, action, record_id, user_id, occurred_at
		FROM audit_log WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	entries := []core.AuditEntry{}
	for rows.Next() {
		var e core.AuditEntry
		if err := rows.Scan(&e.ID, &e.Entity, &e.Action, &e.RecordID, &e.UserID, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
