package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection indicates whether a ledger leg debits or credits its account.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// EventType classifies the logical operation a ledger leg belongs to.
type EventType string

const (
	EventTopup                    EventType = "topup"
	EventWithdrawal               EventType = "withdrawal"
	EventReconciliationAdjustment EventType = "reconciliation_adjustment"
)

// System account codes used as counterparties for wallet-facing legs.
const (
	SystemAccountBankIn     = "BANK_IN"
	SystemAccountBankOut    = "BANK_OUT"
	SystemAccountFeeRevenue = "FEE_REVENUE"
)

// LedgerEntry is one leg of a financial movement. Entries are append-only:
// there is no update or delete path anywhere in the codebase, and the legs of
// a transaction group always sum to zero across wallet and system accounts.
type LedgerEntry struct {
	EntryID            string          `json:"entryID"`
	IdempotencyKey     string          `json:"idempotencyKey"` // unique per leg
	TransactionGroupID string          `json:"transactionGroupID"`
	EventType          EventType       `json:"eventType"`
	Direction          EntryDirection  `json:"direction"`
	Amount             decimal.Decimal `json:"amount"` // always positive
	CurrencyCode       string          `json:"currencyCode"`
	WalletID           string          `json:"walletID,omitempty"`      // empty for system-account legs
	UserID             string          `json:"userID,omitempty"`        // empty for system-account legs
	SystemAccount      string          `json:"systemAccount,omitempty"` // empty for wallet legs
	BalanceAfter       decimal.Decimal `json:"balanceAfter"`            // recorded on the wallet leg only
	Description        string          `json:"description"`
	Gateway            string          `json:"gateway,omitempty"`
	PaymentID          string          `json:"paymentID,omitempty"`
	TransactionNo      string          `json:"transactionNo,omitempty"`
	BillNo             string          `json:"billNo,omitempty"`
	AuditFields
}

// IsWalletLeg reports whether this leg affects a user wallet rather than a
// system account.
func (e LedgerEntry) IsWalletLeg() bool {
	return e.WalletID != ""
}

// SignedAmount returns the amount with its double-entry sign: credits are
// positive, debits negative. The legs of one transaction group sum to zero
// under this convention.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == Debit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Wallet is the mutable balance projection for one (user, currency) pair.
// The balance is derived state: it must always equal the sum of signed legs
// referencing the wallet, and is only ever written inside the transaction
// that inserts those legs.
type Wallet struct {
	WalletID     string          `json:"walletID"`
	UserID       string          `json:"userID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	LastEntryID  string          `json:"lastEntryID,omitempty"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	AuditFields
}
