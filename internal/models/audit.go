package models

import "time"

// IdempotencyRecord is the persistence shape of a stored operation outcome.
type IdempotencyRecord struct {
	IdempotencyKey     string    `db:"idempotency_key"`
	TransactionGroupID string    `db:"transaction_group_id"`
	Operation          string    `db:"operation"`
	ResponseSnapshot   []byte    `db:"response_snapshot"`
	CreatedAt          time.Time `db:"created_at"`
}

// FinancialAuditLogEntry is the persistence shape of one audit record.
type FinancialAuditLogEntry struct {
	AuditID       string    `db:"audit_id"`
	ActorID       string    `db:"actor_id"`
	Action        string    `db:"action"`
	EntityType    string    `db:"entity_type"`
	EntityID      string    `db:"entity_id"`
	StateBefore   []byte    `db:"state_before"`
	StateAfter    []byte    `db:"state_after"`
	Reason        *string   `db:"reason"`
	CorrelationID string    `db:"correlation_id"`
	CreatedAt     time.Time `db:"created_at"`
}
