package services

import (
	"context"

	"github.com/jaohire/wallet_backend/internal/core/domain"
	"github.com/jaohire/wallet_backend/internal/dto"
)

// WalletSvcFacade exposes the transfer engine: balance-affecting operations
// plus read models over wallets and their ledger legs.
type WalletSvcFacade interface {
	// Topup credits a user's wallet from a confirmed gateway payment.
	// Calls with a previously used idempotency key replay the stored
	// result without re-executing.
	Topup(ctx context.Context, userID string, req dto.TopupRequest) (*domain.TransferResult, error)

	// Withdraw debits a user's wallet, paying out the net amount and
	// collecting a channel fee. Idempotent under the same key.
	Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*domain.TransferResult, error)

	// GetBalance returns the user's last-committed balance. Users without
	// a wallet read as zero.
	GetBalance(ctx context.Context, userID string) (*dto.BalanceResponse, error)

	// GetWithdrawalQuote reports the fee schedule headroom for a channel
	// at the user's current balance.
	GetWithdrawalQuote(ctx context.Context, userID string, channel domain.Gateway) (*dto.WithdrawalQuoteResponse, error)

	// ListWalletEntries returns a page of the user's ledger legs, newest
	// first.
	ListWalletEntries(ctx context.Context, userID string, limit, offset int) ([]dto.LedgerEntryResponse, error)

	// VerifyWalletBalance replays a wallet's legs and compares the result
	// with the cached balance projection.
	VerifyWalletBalance(ctx context.Context, walletID string) (*dto.BalanceVerification, error)
}
