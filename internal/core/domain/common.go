package domain

import "time"

// DefaultCurrency is the currency every marketplace wallet is denominated in.
const DefaultCurrency = "THB"

// AuditFields holds standard audit information for domain entities.
// Ledger-side entities are append-only, so only creation metadata is tracked.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // actor user ID
}
