package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/core/domain"
)

// TransferPersist is the full write set of one topup or withdrawal, executed
// by the repository as a single database transaction: idempotency record,
// ledger legs, wallet balance update and audit entry all commit or roll back
// together.
type TransferPersist struct {
	GroupID        string
	Operation      domain.EventType
	IdempotencyKey string
	WalletID       string
	UserID         string

	// Delta is the signed change to the wallet balance. The repository
	// applies it under a row lock and rejects the transfer if the result
	// would be negative.
	Delta decimal.Decimal

	// Legs are the double-entry legs to append. The repository stamps
	// BalanceAfter on the wallet-affecting leg once the locked balance is
	// known.
	Legs []domain.LedgerEntry

	// Result is the response prototype. The repository fills Balance with
	// the post-transfer balance, marshals the result as the idempotency
	// snapshot, and returns it.
	Result domain.TransferResult

	AuditAction domain.AuditAction
	ActorID     string
	Reason      string
	Now         time.Time
}

// LedgerReader defines read operations over ledger entries.
type LedgerReader interface {
	// FindEntriesByGroupID retrieves every leg of one transaction group.
	FindEntriesByGroupID(ctx context.Context, groupID string) ([]domain.LedgerEntry, error)

	// ListEntriesByWallet retrieves a page of a wallet's legs, newest first.
	ListEntriesByWallet(ctx context.Context, walletID string, limit, offset int) ([]domain.LedgerEntry, error)

	// FindGatewayTopupEntries retrieves the wallet-credit topup legs for a
	// gateway created within [from, to), ordered by creation time. This is
	// the internal side of a reconciliation run.
	FindGatewayTopupEntries(ctx context.Context, gateway domain.Gateway, from, to time.Time) ([]domain.LedgerEntry, error)

	// SumWalletLegs replays a wallet's legs and returns the signed sum,
	// i.e. the balance the cached projection must equal.
	SumWalletLegs(ctx context.Context, walletID string) (decimal.Decimal, error)
}

// LedgerWriter defines the only write path into the ledger. The ledger has
// no update or delete operations.
type LedgerWriter interface {
	// SaveTransfer atomically persists a transfer's write set. If the
	// idempotency key already has an outcome, the stored snapshot is
	// returned with replayed=true and nothing is written.
	SaveTransfer(ctx context.Context, transfer TransferPersist) (result *domain.TransferResult, replayed bool, err error)
}

// LedgerRepositoryFacade combines ledger read and write operations.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
