package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/core/domain"
)

// TopupRequest defines the data needed to credit a wallet from a confirmed
// gateway payment.
type TopupRequest struct {
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Gateway        domain.Gateway  `json:"gateway" binding:"required,oneof=promptpay bank_transfer truemoney"`
	PaymentID      string          `json:"paymentID" binding:"required"`
	BillNo         string          `json:"billNo"`
	TransactionNo  string          `json:"transactionNo"`
}

// BankInfo identifies the payout destination for a withdrawal.
type BankInfo struct {
	AccountName   string `json:"accountName" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	BankCode      string `json:"bankCode"`
}

// WithdrawRequest defines the data needed to pay out from a wallet.
type WithdrawRequest struct {
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
	AmountNet      decimal.Decimal `json:"amountNet" binding:"required"`
	Channel        domain.Gateway  `json:"channel" binding:"required,oneof=promptpay bank_transfer truemoney"`
	BankInfo       BankInfo        `json:"bankInfo" binding:"required"`
}

// BalanceResponse reports a wallet's last-committed balance.
type BalanceResponse struct {
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
}

// WithdrawalQuoteResponse reports the fee and headroom for one payout channel
// at the current balance.
type WithdrawalQuoteResponse struct {
	Channel            domain.Gateway  `json:"channel"`
	MinWithdrawal      decimal.Decimal `json:"minWithdrawal"`
	MaxNetWithdrawable decimal.Decimal `json:"maxNetWithdrawable"`
}

// BalanceVerification reports whether a wallet's cached balance matches a
// replay of its ledger legs.
type BalanceVerification struct {
	WalletID        string          `json:"walletID"`
	CachedBalance   decimal.Decimal `json:"cachedBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	Consistent      bool            `json:"consistent"`
}

// LedgerEntryResponse is one leg of a user's wallet statement.
type LedgerEntryResponse struct {
	EntryID            string          `json:"entryID"`
	TransactionGroupID string          `json:"transactionGroupID"`
	EventType          string          `json:"eventType"`
	Direction          string          `json:"direction"`
	Amount             decimal.Decimal `json:"amount"`
	BalanceAfter       decimal.Decimal `json:"balanceAfter"`
	Description        string          `json:"description"`
	Gateway            string          `json:"gateway,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its statement DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:            e.EntryID,
		TransactionGroupID: e.TransactionGroupID,
		EventType:          string(e.EventType),
		Direction:          string(e.Direction),
		Amount:             e.Amount,
		BalanceAfter:       e.BalanceAfter,
		Description:        e.Description,
		Gateway:            e.Gateway,
		CreatedAt:          e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of ledger entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}
