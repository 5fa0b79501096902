package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	portssvc "github.com/jaohire/wallet_backend/internal/core/ports/services"
	"github.com/jaohire/wallet_backend/internal/dto"
	"github.com/jaohire/wallet_backend/internal/middleware"
)

// walletHandler handles HTTP requests related to wallet balances and
// transfers.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

// newWalletHandler creates a new walletHandler.
func newWalletHandler(walletService portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{
		walletService: walletService,
	}
}

// RegisterWalletRoutes registers wallet routes under the given router group.
func RegisterWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := newWalletHandler(walletService)

	wallets := rg.Group("/wallets")
	{
		wallets.POST("/topup", h.topup)
		wallets.POST("/withdraw", h.withdraw)
		wallets.GET("/balance", h.getBalance)
		wallets.GET("/quote", h.getWithdrawalQuote)
		wallets.GET("/entries", h.listEntries)
	}
}

// registerWalletAdminRoutes registers the operator-only wallet routes.
func registerWalletAdminRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := newWalletHandler(walletService)
	rg.GET("/wallets/:walletID/verify", h.verifyBalance)
}

// topup godoc
// @Summary Credit a wallet from a confirmed gateway payment
// @Description Appends a balanced topup to the ledger and returns the new balance. Replays of a used idempotency key return the original result.
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   topup body dto.TopupRequest true "Topup details"
// @Success 200 {object} domain.TransferResult "New balance and transaction group"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to process topup"
// @Router /wallets/topup [post]
func (h *walletHandler) topup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.TopupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for Topup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("idempotency_key", req.IdempotencyKey))

	result, err := h.walletService.Topup(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error processing topup", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Conflicting topup for idempotency key", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to process topup in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process topup"})
		}
		return
	}

	logger.Info("Topup processed successfully", slog.String("transaction_group_id", result.TransactionGroupID))
	c.JSON(http.StatusOK, result)
}

// withdraw godoc
// @Summary Pay out from a wallet
// @Description Debits net amount plus channel fee, crediting the payout and fee revenue accounts. Replays of a used idempotency key return the original result.
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   withdraw body dto.WithdrawRequest true "Withdrawal details"
// @Success 200 {object} domain.TransferResult "New balance, fee and net amount"
// @Failure 400 {object} map[string]string "Invalid request or business rule rejection"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to process withdrawal"
// @Router /wallets/withdraw [post]
func (h *walletHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.WithdrawRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("idempotency_key", req.IdempotencyKey))

	result, err := h.walletService.Withdraw(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, apperrors.ErrBelowMinimum),
			errors.Is(err, apperrors.ErrExceedsChannelMax):
			logger.Warn("Withdrawal rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			logger.Warn("Withdrawal rejected for insufficient funds", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Conflicting withdrawal for idempotency key", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to process withdrawal in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process withdrawal"})
		}
		return
	}

	logger.Info("Withdrawal processed successfully",
		slog.String("transaction_group_id", result.TransactionGroupID),
		slog.String("fee_thb", result.FeeTHB.String()))
	c.JSON(http.StatusOK, result)
}

// getBalance godoc
// @Summary Get the caller's wallet balance
// @Description Returns the last-committed balance. Users without a wallet read as zero.
// @Tags wallets
// @Produce  json
// @Success 200 {object} dto.BalanceResponse "Current balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Router /wallets/balance [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.walletService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to get balance from service", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// getWithdrawalQuote godoc
// @Summary Quote withdrawal limits for a payout channel
// @Description Returns the channel's minimum and the maximum net amount withdrawable at the caller's current balance.
// @Tags wallets
// @Produce  json
// @Param   channel query string true "Payout channel" Enums(promptpay, bank_transfer, truemoney)
// @Success 200 {object} dto.WithdrawalQuoteResponse "Quote for the channel"
// @Failure 400 {object} map[string]string "Unknown channel"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute quote"
// @Router /wallets/quote [get]
func (h *walletHandler) getWithdrawalQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	channel := domain.Gateway(c.Query("channel"))
	quote, err := h.walletService.GetWithdrawalQuote(c.Request.Context(), userID, channel)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid channel for withdrawal quote", slog.String("channel", string(channel)))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to compute withdrawal quote", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute quote"})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// listEntries godoc
// @Summary List the caller's ledger entries
// @Description Returns a page of the caller's wallet legs, newest first.
// @Tags wallets
// @Produce  json
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   offset query int false "Page offset"
// @Success 200 {array} dto.LedgerEntryResponse "Ledger entries"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Router /wallets/entries [get]
func (h *walletHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, offset := parsePagination(c)
	entries, err := h.walletService.ListWalletEntries(c.Request.Context(), userID, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusOK, []dto.LedgerEntryResponse{})
			return
		}
		logger.Error("Failed to list wallet entries", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// verifyBalance godoc
// @Summary Verify a wallet's cached balance against its ledger legs
// @Description Replays the wallet's legs and compares the sum with the cached projection. Operator use only.
// @Tags wallets
// @Produce  json
// @Param   walletID path string true "Wallet ID"
// @Success 200 {object} dto.BalanceVerification "Verification result"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 500 {object} map[string]string "Failed to verify balance"
// @Router /wallets/{walletID}/verify [get]
func (h *walletHandler) verifyBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("walletID")

	verification, err := h.walletService.VerifyWalletBalance(c.Request.Context(), walletID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Wallet not found for verification", slog.String("wallet_id", walletID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		logger.Error("Failed to verify wallet balance", slog.String("error", err.Error()), slog.String("wallet_id", walletID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify balance"})
		return
	}

	if !verification.Consistent {
		logger.Error("Wallet balance drift detected",
			slog.String("wallet_id", walletID),
			slog.String("cached", verification.CachedBalance.String()),
			slog.String("replayed", verification.ReplayedBalance.String()))
	}
	c.JSON(http.StatusOK, verification)
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
