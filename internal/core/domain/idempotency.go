package domain

import (
	"encoding/json"
	"time"
)

// IdempotencyRecord maps a caller-supplied operation key to the transaction
// group it produced and a snapshot of the response that was returned. A key
// maps to exactly one outcome forever; replays return the stored snapshot
// instead of re-executing side effects.
type IdempotencyRecord struct {
	Key                string          `json:"key"`
	TransactionGroupID string          `json:"transactionGroupID"`
	Operation          EventType       `json:"operation"`
	ResponseSnapshot   json.RawMessage `json:"responseSnapshot"`
	CreatedAt          time.Time       `json:"createdAt"`
}
