package repositories

import (
	"context"

	"github.com/jaohire/wallet_backend/internal/core/domain"
)

// WalletReader defines read operations for wallet projections. Balances read
// here are last-committed snapshots with no further consistency guarantee.
type WalletReader interface {
	// FindWalletByUserID retrieves a user's wallet for a currency.
	// Returns apperrors.ErrNotFound if the user has never held a wallet.
	FindWalletByUserID(ctx context.Context, userID, currencyCode string) (*domain.Wallet, error)

	// FindWalletByID retrieves a wallet by its identifier.
	FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error)
}

// WalletWriter defines wallet creation. Balance mutation has no standalone
// API: it happens only inside SaveTransfer's transaction.
type WalletWriter interface {
	// GetOrCreateWallet returns the user's wallet, creating a zero-balance
	// one on first access. Concurrent creators are resolved by the unique
	// constraint on (user, currency): the loser fetches the winner's row.
	GetOrCreateWallet(ctx context.Context, userID, currencyCode, actorID string) (*domain.Wallet, error)
}

// WalletRepositoryFacade combines wallet read and write operations.
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
}
