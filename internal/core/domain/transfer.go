package domain

import "github.com/shopspring/decimal"

// TransferResult is the caller-visible outcome of a topup or withdrawal. The
// marshalled form is stored as the idempotency snapshot, so a replayed call
// returns byte-for-byte the same payload as the first.
type TransferResult struct {
	Balance            decimal.Decimal `json:"balance"`
	TransactionGroupID string          `json:"transaction_group_id"`
	FeeTHB             decimal.Decimal `json:"fee_thb,omitempty"`
	NetAmount          decimal.Decimal `json:"net_amount,omitempty"`
}
