package core

// AuditEntry is one persisted record mutation, written by the worker
// that consumes record events.
type AuditEntry struct {
	ID         int64  `json:"id"`
	Entity     string `json:"entity"`
	Action     string `json:"action"`
	RecordID   int64  `json:"record_id"`
	UserID     int64  `json:"user_id"`
	OccurredAt string `json:"occurred_at"`
}
