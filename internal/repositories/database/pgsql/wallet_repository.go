package pgsql

import (
	"context"
	"errors"
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

type PgxWalletRepository struct {
	BaseRepository
}

// newPgxWalletRepository creates a new repository for wallet projections.
func newPgxWalletRepository(pool *pgxpool.Pool) portsrepo.WalletRepositoryFacade {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WalletRepositoryFacade = (*PgxWalletRepository)(nil)

const walletColumns = `wallet_id, user_id, currency_code, balance, last_entry_id, updated_at, created_at, created_by`

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var m models.Wallet
	err := row.Scan(
		&m.WalletID,
		&m.UserID,
		&m.CurrencyCode,
		&m.Balance,
		&m.LastEntryID,
		&m.UpdatedAt,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storeErr("failed to scan wallet row", err)
	}
	wallet := mapping.ToDomainWallet(m)
	return &wallet, nil
}

// FindWalletByUserID retrieves a user's wallet for a currency.
func (r *PgxWalletRepository) FindWalletByUserID(ctx context.Context, userID, currencyCode string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 AND currency_code = $2;`
	return scanWallet(r.Pool.QueryRow(ctx, query, userID, currencyCode))
}

// FindWalletByID retrieves a wallet by its identifier.
func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1;`
	return scanWallet(r.Pool.QueryRow(ctx, query, walletID))
}

// GetOrCreateWallet returns the user's wallet, creating a zero-balance one on
// first access. A concurrent creator losing the insert race on the
// (user, currency) unique constraint just fetches the winner's row.
func (r *PgxWalletRepository) GetOrCreateWallet(ctx context.Context, userID, currencyCode, actorID string) (*domain.Wallet, error) {
	wallet, err := r.FindWalletByUserID(ctx, userID, currencyCode)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	insert := `
		INSERT INTO wallets (wallet_id, user_id, currency_code, balance, updated_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = r.Pool.Exec(ctx, insert, uuid.NewString(), userID, currencyCode, decimal.Zero, now, now, actorID)
	if err != nil && !isUniqueViolation(err) {
		return nil, storeErr("failed to create wallet for user "+userID, err)
	}
	return r.FindWalletByUserID(ctx, userID, currencyCode)
}
