package repositories

import (
	"context"

	"github.com/jaohire/wallet_backend/internal/core/domain"
)

// IdempotencyReader looks up prior outcomes by operation key. There is no
// standalone writer: the idempotency row is inserted by SaveTransfer inside
// the same transaction as the work it guards, so a reservation without work
// can never exist.
type IdempotencyReader interface {
	// FindIdempotencyRecord retrieves the stored outcome for a key.
	// Returns apperrors.ErrNotFound for a key that has never completed.
	FindIdempotencyRecord(ctx context.Context, key string) (*domain.IdempotencyRecord, error)
}

// IdempotencyRepositoryFacade exposes idempotency lookups.
type IdempotencyRepositoryFacade interface {
	IdempotencyReader
}
