package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
	"github.com/jaohire/wallet_backend/internal/models"
	"github.com/jaohire/wallet_backend/internal/utils/mapping"
)

type PgxLedgerRepository struct {
	BaseRepository
	auditRepo portsrepo.AuditLogWriter
}

// newPgxLedgerRepository creates the repository for ledger legs and the
// atomic transfer write path.
func newPgxLedgerRepository(pool *pgxpool.Pool, auditRepo portsrepo.AuditLogWriter) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		auditRepo:      auditRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const ledgerEntryColumns = `entry_id, idempotency_key, transaction_group_id, event_type, direction, amount, currency_code, wallet_id, user_id, system_account, balance_after, description, gateway, payment_id, transaction_no, bill_no, created_at, created_by`

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
`

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var m models.LedgerEntry
		err := rows.Scan(
			&m.EntryID,
			&m.IdempotencyKey,
			&m.TransactionGroupID,
			&m.EventType,
			&m.Direction,
			&m.Amount,
			&m.CurrencyCode,
			&m.WalletID,
			&m.UserID,
			&m.SystemAccount,
			&m.BalanceAfter,
			&m.Description,
			&m.Gateway,
			&m.PaymentID,
			&m.TransactionNo,
			&m.BillNo,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, storeErr("failed to scan ledger entry row", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to read ledger entry rows", err)
	}
	return entries, nil
}

// SaveTransfer persists one transfer's full write set in a single database
// transaction: wallet row lock, authoritative balance check, ledger legs,
// wallet projection update, idempotency snapshot and audit entry. A unique
// violation on the idempotency key (or a leg key) means another caller
// already committed this operation, so the stored snapshot is returned
// instead.
func (r *PgxLedgerRepository) SaveTransfer(ctx context.Context, t portsrepo.TransferPersist) (*domain.TransferResult, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer r.Rollback(ctx, tx)

	// 1. Lock the wallet row; its balance is authoritative only under lock.
	var balanceBefore decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM wallets WHERE wallet_id = $1 FOR UPDATE;`, t.WalletID).Scan(&balanceBefore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, t.WalletID)
		}
		return nil, false, storeErr("failed to lock wallet "+t.WalletID, err)
	}

	balanceAfter := balanceBefore.Add(t.Delta).Round(2)
	if balanceAfter.IsNegative() {
		return nil, false, fmt.Errorf("%w: balance %s cannot absorb a %s change",
			apperrors.ErrInsufficientFunds, balanceBefore.String(), t.Delta.String())
	}

	// 2. Insert the idempotency record. There is no separate reservation
	// step: this insert, atomic with the rest of the write set, is what
	// makes the operation at-most-once. The loser of a concurrent race
	// gets a unique violation and replays the winner's snapshot.
	result := t.Result
	result.Balance = balanceAfter
	snapshot, err := json.Marshal(result)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal idempotency snapshot: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO idempotency_records (idempotency_key, transaction_group_id, operation, response_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`, t.IdempotencyKey, t.GroupID, string(t.Operation), snapshot, t.Now)
	if err != nil {
		if isUniqueViolation(err) {
			_ = r.Rollback(ctx, tx)
			return r.replaySnapshot(ctx, t.IdempotencyKey)
		}
		return nil, false, storeErr("failed to insert idempotency record for key "+t.IdempotencyKey, err)
	}

	// 3. Append the legs, stamping balance-after on the wallet leg.
	lastEntryID := ""
	batch := &pgx.Batch{}
	for i := range t.Legs {
		if t.Legs[i].IsWalletLeg() {
			t.Legs[i].BalanceAfter = balanceAfter
			lastEntryID = t.Legs[i].EntryID
		}
		m := mapping.ToModelLedgerEntry(t.Legs[i])
		batch.Queue(insertLedgerEntryQuery,
			m.EntryID,
			m.IdempotencyKey,
			m.TransactionGroupID,
			m.EventType,
			m.Direction,
			m.Amount,
			m.CurrencyCode,
			m.WalletID,
			m.UserID,
			m.SystemAccount,
			m.BalanceAfter,
			m.Description,
			m.Gateway,
			m.PaymentID,
			m.TransactionNo,
			m.BillNo,
			m.CreatedAt,
			m.CreatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isUniqueViolation(err) {
			_ = r.Rollback(ctx, tx)
			return r.replaySnapshot(ctx, t.IdempotencyKey)
		}
		return nil, false, storeErr("failed to insert ledger legs for group "+t.GroupID, err)
	}

	// 4. Move the wallet projection forward.
	_, err = tx.Exec(ctx, `
		UPDATE wallets SET balance = $1, last_entry_id = $2, updated_at = $3 WHERE wallet_id = $4;
	`, balanceAfter, lastEntryID, t.Now, t.WalletID)
	if err != nil {
		return nil, false, storeErr("failed to update wallet balance for "+t.WalletID, err)
	}

	// 5. Audit the decision in the same transaction.
	stateBefore, err := json.Marshal(map[string]string{"balance": balanceBefore.String()})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal audit state: %w", err)
	}
	stateAfter, err := json.Marshal(map[string]string{"balance": balanceAfter.String()})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal audit state: %w", err)
	}
	err = r.auditRepo.AppendAuditEntryInTx(ctx, tx, domain.FinancialAuditLogEntry{
		AuditID:       uuid.NewString(),
		ActorID:       t.ActorID,
		Action:        t.AuditAction,
		EntityType:    "wallet",
		EntityID:      t.WalletID,
		StateBefore:   stateBefore,
		StateAfter:    stateAfter,
		Reason:        t.Reason,
		CorrelationID: t.GroupID,
		CreatedAt:     t.Now,
	})
	if err != nil {
		return nil, false, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, err
	}
	return &result, false, nil
}

// replaySnapshot returns the committed outcome of the idempotency key's
// winning transaction. Called after a unique violation, at which point the
// winner has committed and its row is visible.
func (r *PgxLedgerRepository) replaySnapshot(ctx context.Context, key string) (*domain.TransferResult, bool, error) {
	var snapshot []byte
	err := r.Pool.QueryRow(ctx, `SELECT response_snapshot FROM idempotency_records WHERE idempotency_key = $1;`, key).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("%w: conflicting write for key %s has no stored outcome", apperrors.ErrDuplicate, key)
		}
		return nil, false, storeErr("failed to read idempotency snapshot for key "+key, err)
	}
	var result domain.TransferResult
	if err := json.Unmarshal(snapshot, &result); err != nil {
		return nil, false, fmt.Errorf("corrupt idempotency snapshot for key %s: %w", key, err)
	}
	return &result, true, nil
}

// FindEntriesByGroupID retrieves every leg of one transaction group.
func (r *PgxLedgerRepository) FindEntriesByGroupID(ctx context.Context, groupID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE transaction_group_id = $1 ORDER BY idempotency_key;`
	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, storeErr("failed to query ledger entries for group "+groupID, err)
	}
	return scanLedgerEntries(rows)
}

// ListEntriesByWallet retrieves a page of a wallet's legs, newest first.
func (r *PgxLedgerRepository) ListEntriesByWallet(ctx context.Context, walletID string, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE wallet_id = $1
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, storeErr("failed to query ledger entries for wallet "+walletID, err)
	}
	return scanLedgerEntries(rows)
}

// FindGatewayTopupEntries retrieves the wallet-credit topup legs for a
// gateway created within [from, to), in creation order. This is the internal
// side of a reconciliation run.
func (r *PgxLedgerRepository) FindGatewayTopupEntries(ctx context.Context, gateway domain.Gateway, from, to time.Time) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE gateway = $1
		  AND event_type = $2
		  AND direction = $3
		  AND wallet_id IS NOT NULL
		  AND created_at >= $4
		  AND created_at < $5
		ORDER BY created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, string(gateway), string(domain.EventTopup), string(domain.Credit), from, to)
	if err != nil {
		return nil, storeErr("failed to query topup entries for gateway "+string(gateway), err)
	}
	return scanLedgerEntries(rows)
}

// SumWalletLegs replays a wallet's legs into the balance the cached
// projection must equal.
func (r *PgxLedgerRepository) SumWalletLegs(ctx context.Context, walletID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = $1 THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE wallet_id = $2;
	`
	var sum decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, string(domain.Credit), walletID).Scan(&sum)
	if err != nil {
		return decimal.Zero, storeErr("failed to sum ledger legs for wallet "+walletID, err)
	}
	return sum, nil
}
