package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/core/domain"
	"github.com/jaohire/wallet_backend/internal/models"
)

// nullableStr converts an optional domain string ("" means absent) to a
// nullable column value.
func nullableStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToModelLedgerEntry converts a domain ledger leg to its persistence shape.
func ToModelLedgerEntry(e domain.LedgerEntry) models.LedgerEntry {
	balanceAfter := decimal.NullDecimal{}
	if e.IsWalletLeg() {
		balanceAfter = decimal.NullDecimal{Decimal: e.BalanceAfter, Valid: true}
	}
	return models.LedgerEntry{
		EntryID:            e.EntryID,
		IdempotencyKey:     e.IdempotencyKey,
		TransactionGroupID: e.TransactionGroupID,
		EventType:          string(e.EventType),
		Direction:          string(e.Direction),
		Amount:             e.Amount,
		CurrencyCode:       e.CurrencyCode,
		WalletID:           nullableStr(e.WalletID),
		UserID:             nullableStr(e.UserID),
		SystemAccount:      nullableStr(e.SystemAccount),
		BalanceAfter:       balanceAfter,
		Description:        e.Description,
		Gateway:            nullableStr(e.Gateway),
		PaymentID:          nullableStr(e.PaymentID),
		TransactionNo:      nullableStr(e.TransactionNo),
		BillNo:             nullableStr(e.BillNo),
		CreatedAt:          e.CreatedAt,
		CreatedBy:          e.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a persisted ledger leg back to its domain
// shape.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	balanceAfter := decimal.Zero
	if m.BalanceAfter.Valid {
		balanceAfter = m.BalanceAfter.Decimal
	}
	return domain.LedgerEntry{
		EntryID:            m.EntryID,
		IdempotencyKey:     m.IdempotencyKey,
		TransactionGroupID: m.TransactionGroupID,
		EventType:          domain.EventType(m.EventType),
		Direction:          domain.EntryDirection(m.Direction),
		Amount:             m.Amount,
		CurrencyCode:       m.CurrencyCode,
		WalletID:           derefStr(m.WalletID),
		UserID:             derefStr(m.UserID),
		SystemAccount:      derefStr(m.SystemAccount),
		BalanceAfter:       balanceAfter,
		Description:        m.Description,
		Gateway:            derefStr(m.Gateway),
		PaymentID:          derefStr(m.PaymentID),
		TransactionNo:      derefStr(m.TransactionNo),
		BillNo:             derefStr(m.BillNo),
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		},
	}
}

// ToDomainWallet converts a persisted wallet row to its domain shape.
func ToDomainWallet(m models.Wallet) domain.Wallet {
	return domain.Wallet{
		WalletID:     m.WalletID,
		UserID:       m.UserID,
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		LastEntryID:  derefStr(m.LastEntryID),
		UpdatedAt:    m.UpdatedAt,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		},
	}
}
