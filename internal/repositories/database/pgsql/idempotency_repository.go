package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
)

type PgxIdempotencyRepository struct {
	BaseRepository
}

// newPgxIdempotencyRepository creates the read-side repository for
// idempotency records. Writes happen inside SaveTransfer's transaction.
func newPgxIdempotencyRepository(pool *pgxpool.Pool) portsrepo.IdempotencyRepositoryFacade {
	return &PgxIdempotencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.IdempotencyRepositoryFacade = (*PgxIdempotencyRepository)(nil)

// FindIdempotencyRecord retrieves the stored outcome for a key, or
// apperrors.ErrNotFound when the key has never been used.
func (r *PgxIdempotencyRepository) FindIdempotencyRecord(ctx context.Context, key string) (*domain.IdempotencyRecord, error) {
	query := `
		SELECT idempotency_key, transaction_group_id, operation, response_snapshot, created_at
		FROM idempotency_records
		WHERE idempotency_key = $1;
	`
	var rec domain.IdempotencyRecord
	var operation string
	err := r.Pool.QueryRow(ctx, query, key).Scan(
		&rec.Key,
		&rec.TransactionGroupID,
		&operation,
		&rec.ResponseSnapshot,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: idempotency key %s", apperrors.ErrNotFound, key)
		}
		return nil, storeErr("failed to query idempotency record for key "+key, err)
	}
	rec.Operation = domain.EventType(operation)
	return &rec, nil
}
