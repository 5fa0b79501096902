package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/jaohire/wallet_backend/internal/core/ports/services"
	"github.com/jaohire/wallet_backend/internal/dto"
	"github.com/jaohire/wallet_backend/internal/middleware"
	"github.com/jaohire/wallet_backend/internal/utils/fees"
	"github.com/jaohire/wallet_backend/internal/utils/money"
)

var (
	ErrUnbalancedLegs = errors.New("transfer legs do not balance to zero")
	ErrTooFewLegs     = errors.New("transfer must post at least two legs")
)

// transferService orchestrates multi-leg double-entry transfers: top-ups from
// gateway payments and withdrawals with channel fees.
type transferService struct {
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	walletRepo      portsrepo.WalletRepositoryFacade
	idempotencyRepo portsrepo.IdempotencyRepositoryFacade
}

// NewTransferService creates the wallet transfer engine.
func NewTransferService(ledgerRepo portsrepo.LedgerRepositoryFacade, walletRepo portsrepo.WalletRepositoryFacade, idempotencyRepo portsrepo.IdempotencyRepositoryFacade) portssvc.WalletSvcFacade {
	return &transferService{
		ledgerRepo:      ledgerRepo,
		walletRepo:      walletRepo,
		idempotencyRepo: idempotencyRepo,
	}
}

var _ portssvc.WalletSvcFacade = (*transferService)(nil)

// validateLegs enforces the double-entry invariant before anything is written:
// every leg positive, at least two legs, signed amounts summing to zero.
func validateLegs(legs []domain.LedgerEntry) error {
	if len(legs) < 2 {
		return ErrTooFewLegs
	}
	sum := decimal.Zero
	for _, leg := range legs {
		if leg.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: leg amount must be positive for %s", apperrors.ErrValidation, leg.IdempotencyKey)
		}
		sum = sum.Add(leg.SignedAmount())
	}
	if !sum.IsZero() {
		return fmt.Errorf("%w: legs sum to %s", ErrUnbalancedLegs, sum.String())
	}
	return nil
}

// replayIfSeen returns the stored outcome for key if one exists.
func (s *transferService) replayIfSeen(ctx context.Context, key string) (*domain.TransferResult, error) {
	record, err := s.idempotencyRepo.FindIdempotencyRecord(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var result domain.TransferResult
	if err := json.Unmarshal(record.ResponseSnapshot, &result); err != nil {
		return nil, fmt.Errorf("corrupt idempotency snapshot for key %s: %w", key, err)
	}
	return &result, nil
}

// Topup credits a user's wallet from a confirmed gateway payment.
func (s *transferService) Topup(ctx context.Context, userID string, req dto.TopupRequest) (*domain.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if prior, err := s.replayIfSeen(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if prior != nil {
		logger.Info("Topup replayed from idempotency snapshot", slog.String("idempotency_key", req.IdempotencyKey))
		return prior, nil
	}

	amount := money.Round2(req.Amount)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: topup amount must be positive", apperrors.ErrValidation)
	}
	if !domain.IsKnownGateway(req.Gateway) {
		return nil, fmt.Errorf("%w: unknown gateway %q", apperrors.ErrValidation, req.Gateway)
	}

	wallet, err := s.walletRepo.GetOrCreateWallet(ctx, userID, domain.DefaultCurrency, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create wallet: %w", err)
	}

	now := time.Now().UTC()
	groupID := uuid.NewString()
	description := fmt.Sprintf("topup via %s payment %s", req.Gateway, req.PaymentID)

	legs := []domain.LedgerEntry{
		{
			EntryID:            uuid.NewString(),
			IdempotencyKey:     req.IdempotencyKey + ":1",
			TransactionGroupID: groupID,
			EventType:          domain.EventTopup,
			Direction:          domain.Debit,
			Amount:             amount,
			CurrencyCode:       wallet.CurrencyCode,
			SystemAccount:      domain.SystemAccountBankIn,
			Description:        description,
			Gateway:            string(req.Gateway),
			PaymentID:          req.PaymentID,
			TransactionNo:      req.TransactionNo,
			BillNo:             req.BillNo,
			AuditFields:        domain.AuditFields{CreatedAt: now, CreatedBy: userID},
		},
		{
			EntryID:            uuid.NewString(),
			IdempotencyKey:     req.IdempotencyKey + ":2",
			TransactionGroupID: groupID,
			EventType:          domain.EventTopup,
			Direction:          domain.Credit,
			Amount:             amount,
			CurrencyCode:       wallet.CurrencyCode,
			WalletID:           wallet.WalletID,
			UserID:             userID,
			Description:        description,
			Gateway:            string(req.Gateway),
			PaymentID:          req.PaymentID,
			TransactionNo:      req.TransactionNo,
			BillNo:             req.BillNo,
			AuditFields:        domain.AuditFields{CreatedAt: now, CreatedBy: userID},
		},
	}
	if err := validateLegs(legs); err != nil {
		return nil, err
	}

	result, replayed, err := s.ledgerRepo.SaveTransfer(ctx, portsrepo.TransferPersist{
		GroupID:        groupID,
		Operation:      domain.EventTopup,
		IdempotencyKey: req.IdempotencyKey,
		WalletID:       wallet.WalletID,
		UserID:         userID,
		Delta:          amount,
		Legs:           legs,
		Result:         domain.TransferResult{TransactionGroupID: groupID},
		AuditAction:    domain.AuditWalletTopup,
		ActorID:        userID,
		Reason:         description,
		Now:            now,
	})
	if err != nil {
		logger.Error("Topup failed", slog.String("idempotency_key", req.IdempotencyKey), slog.String("error", err.Error()))
		return nil, err
	}
	if replayed {
		logger.Info("Topup lost idempotency race, replaying winner's result", slog.String("idempotency_key", req.IdempotencyKey))
		return result, nil
	}

	logger.Info("Topup completed",
		slog.String("transaction_group_id", groupID),
		slog.String("gateway", string(req.Gateway)),
		slog.String("amount", amount.String()),
	)
	return result, nil
}

// Withdraw debits a user's wallet: the net amount goes out through the payout
// channel and the channel fee is collected as revenue, three legs in one
// group.
func (s *transferService) Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*domain.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if prior, err := s.replayIfSeen(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if prior != nil {
		logger.Info("Withdrawal replayed from idempotency snapshot", slog.String("idempotency_key", req.IdempotencyKey))
		return prior, nil
	}

	net := money.Round2(req.AmountNet)
	if net.LessThan(fees.MinWithdrawal) {
		return nil, fmt.Errorf("%w: net %s is under the %s THB minimum", apperrors.ErrBelowMinimum, net.String(), fees.MinWithdrawal.String())
	}

	sched, err := fees.ForChannel(req.Channel)
	if err != nil {
		return nil, err
	}
	if net.GreaterThan(sched.MaxNet) {
		return nil, fmt.Errorf("%w: net %s exceeds the %s cap for %s", apperrors.ErrExceedsChannelMax, net.String(), sched.MaxNet.String(), req.Channel)
	}

	fee := sched.Fee(net)
	total := money.Round2(net.Add(fee))

	wallet, err := s.walletRepo.GetOrCreateWallet(ctx, userID, domain.DefaultCurrency, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create wallet: %w", err)
	}
	// Early rejection on the snapshot balance. The repository re-checks under
	// the row lock, which is the authoritative test.
	if wallet.Balance.LessThan(total) {
		return nil, fmt.Errorf("%w: balance %s is less than %s (net %s + fee %s)",
			apperrors.ErrInsufficientFunds, wallet.Balance.String(), total.String(), net.String(), fee.String())
	}

	now := time.Now().UTC()
	groupID := uuid.NewString()
	description := fmt.Sprintf("withdrawal via %s to %s (%s)", req.Channel, req.BankInfo.AccountNumber, req.BankInfo.AccountName)

	legs := []domain.LedgerEntry{
		{
			EntryID:            uuid.NewString(),
			IdempotencyKey:     req.IdempotencyKey + ":1",
			TransactionGroupID: groupID,
			EventType:          domain.EventWithdrawal,
			Direction:          domain.Debit,
			Amount:             total,
			CurrencyCode:       wallet.CurrencyCode,
			WalletID:           wallet.WalletID,
			UserID:             userID,
			Description:        description,
			Gateway:            string(req.Channel),
			AuditFields:        domain.AuditFields{CreatedAt: now, CreatedBy: userID},
		},
		{
			EntryID:            uuid.NewString(),
			IdempotencyKey:     req.IdempotencyKey + ":2",
			TransactionGroupID: groupID,
			EventType:          domain.EventWithdrawal,
			Direction:          domain.Credit,
			Amount:             net,
			CurrencyCode:       wallet.CurrencyCode,
			SystemAccount:      domain.SystemAccountBankOut,
			Description:        description,
			Gateway:            string(req.Channel),
			AuditFields:        domain.AuditFields{CreatedAt: now, CreatedBy: userID},
		},
		{
			EntryID:            uuid.NewString(),
			IdempotencyKey:     req.IdempotencyKey + ":3",
			TransactionGroupID: groupID,
			EventType:          domain.EventWithdrawal,
			Direction:          domain.Credit,
			Amount:             fee,
			CurrencyCode:       wallet.CurrencyCode,
			SystemAccount:      domain.SystemAccountFeeRevenue,
			Description:        fmt.Sprintf("withdrawal fee (%s)", req.Channel),
			Gateway:            string(req.Channel),
			AuditFields:        domain.AuditFields{CreatedAt: now, CreatedBy: userID},
		},
	}
	if err := validateLegs(legs); err != nil {
		return nil, err
	}

	result, replayed, err := s.ledgerRepo.SaveTransfer(ctx, portsrepo.TransferPersist{
		GroupID:        groupID,
		Operation:      domain.EventWithdrawal,
		IdempotencyKey: req.IdempotencyKey,
		WalletID:       wallet.WalletID,
		UserID:         userID,
		Delta:          total.Neg(),
		Legs:           legs,
		Result:         domain.TransferResult{TransactionGroupID: groupID, FeeTHB: fee, NetAmount: net},
		AuditAction:    domain.AuditWalletWithdraw,
		ActorID:        userID,
		Reason:         description,
		Now:            now,
	})
	if err != nil {
		logger.Error("Withdrawal failed", slog.String("idempotency_key", req.IdempotencyKey), slog.String("error", err.Error()))
		return nil, err
	}
	if replayed {
		logger.Info("Withdrawal lost idempotency race, replaying winner's result", slog.String("idempotency_key", req.IdempotencyKey))
		return result, nil
	}

	logger.Info("Withdrawal completed",
		slog.String("transaction_group_id", groupID),
		slog.String("channel", string(req.Channel)),
		slog.String("net", net.String()),
		slog.String("fee", fee.String()),
	)
	return result, nil
}

// GetBalance returns the last-committed balance. Users who have never topped
// up read as zero without creating a wallet.
func (s *transferService) GetBalance(ctx context.Context, userID string) (*dto.BalanceResponse, error) {
	wallet, err := s.walletRepo.FindWalletByUserID(ctx, userID, domain.DefaultCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &dto.BalanceResponse{Balance: decimal.Zero, CurrencyCode: domain.DefaultCurrency}, nil
		}
		return nil, err
	}
	return &dto.BalanceResponse{Balance: wallet.Balance, CurrencyCode: wallet.CurrencyCode}, nil
}

// GetWithdrawalQuote reports the channel fee schedule headroom at the user's
// current balance.
func (s *transferService) GetWithdrawalQuote(ctx context.Context, userID string, channel domain.Gateway) (*dto.WithdrawalQuoteResponse, error) {
	sched, err := fees.ForChannel(channel)
	if err != nil {
		return nil, err
	}
	balance := decimal.Zero
	wallet, err := s.walletRepo.FindWalletByUserID(ctx, userID, domain.DefaultCurrency)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if wallet != nil {
		balance = wallet.Balance
	}
	return &dto.WithdrawalQuoteResponse{
		Channel:            channel,
		MinWithdrawal:      fees.MinWithdrawal,
		MaxNetWithdrawable: sched.MaxNetWithdrawable(balance),
	}, nil
}

// ListWalletEntries returns a page of the user's statement, newest first.
func (s *transferService) ListWalletEntries(ctx context.Context, userID string, limit, offset int) ([]dto.LedgerEntryResponse, error) {
	wallet, err := s.walletRepo.FindWalletByUserID(ctx, userID, domain.DefaultCurrency)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []dto.LedgerEntryResponse{}, nil
		}
		return nil, err
	}
	entries, err := s.ledgerRepo.ListEntriesByWallet(ctx, wallet.WalletID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.ToLedgerEntryResponses(entries), nil
}

// VerifyWalletBalance replays the wallet's legs and compares the signed sum
// with the cached balance projection.
func (s *transferService) VerifyWalletBalance(ctx context.Context, walletID string) (*dto.BalanceVerification, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	replayed, err := s.ledgerRepo.SumWalletLegs(ctx, walletID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceVerification{
		WalletID:        walletID,
		CachedBalance:   wallet.Balance,
		ReplayedBalance: replayed,
		Consistent:      wallet.Balance.Equal(replayed),
	}, nil
}
