package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the persistence shape of one ledger leg. Nullable columns
// use pointers / Null types; the mapping package converts to domain values.
type LedgerEntry struct {
	EntryID            string              `db:"entry_id"`
	IdempotencyKey     string              `db:"idempotency_key"`
	TransactionGroupID string              `db:"transaction_group_id"`
	EventType          string              `db:"event_type"`
	Direction          string              `db:"direction"`
	Amount             decimal.Decimal     `db:"amount"`
	CurrencyCode       string              `db:"currency_code"`
	WalletID           *string             `db:"wallet_id"`
	UserID             *string             `db:"user_id"`
	SystemAccount      *string             `db:"system_account"`
	BalanceAfter       decimal.NullDecimal `db:"balance_after"`
	Description        string              `db:"description"`
	Gateway            *string             `db:"gateway"`
	PaymentID          *string             `db:"payment_id"`
	TransactionNo      *string             `db:"transaction_no"`
	BillNo             *string             `db:"bill_no"`
	CreatedAt          time.Time           `db:"created_at"`
	CreatedBy          string              `db:"created_by"`
}

// Wallet is the persistence shape of a wallet balance projection.
type Wallet struct {
	WalletID     string          `db:"wallet_id"`
	UserID       string          `db:"user_id"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	LastEntryID  *string         `db:"last_entry_id"`
	UpdatedAt    time.Time       `db:"updated_at"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}
