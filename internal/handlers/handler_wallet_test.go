package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	portssvc "github.com/jaohire/wallet_backend/internal/core/ports/services"
	"github.com/jaohire/wallet_backend/internal/dto"
	"github.com/jaohire/wallet_backend/internal/handlers"
	"github.com/jaohire/wallet_backend/internal/middleware"
)

// --- Mock WalletService ---
type MockWalletService struct {
	mock.Mock
}

var _ portssvc.WalletSvcFacade = (*MockWalletService)(nil)

func (m *MockWalletService) Topup(ctx context.Context, userID string, req dto.TopupRequest) (*domain.TransferResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockWalletService) Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*domain.TransferResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferResult), args.Error(1)
}

func (m *MockWalletService) GetBalance(ctx context.Context, userID string) (*dto.BalanceResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceResponse), args.Error(1)
}

func (m *MockWalletService) GetWithdrawalQuote(ctx context.Context, userID string, channel domain.Gateway) (*dto.WithdrawalQuoteResponse, error) {
	args := m.Called(ctx, userID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WithdrawalQuoteResponse), args.Error(1)
}

func (m *MockWalletService) ListWalletEntries(ctx context.Context, userID string, limit, offset int) ([]dto.LedgerEntryResponse, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.LedgerEntryResponse), args.Error(1)
}

func (m *MockWalletService) VerifyWalletBalance(ctx context.Context, walletID string) (*dto.BalanceVerification, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceVerification), args.Error(1)
}

// --- Test Suite Setup ---
type WalletHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockWalletService *MockWalletService
	jwtSecret         string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *WalletHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "wallet-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *WalletHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockWalletService = new(MockWalletService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterWalletRoutes(v1, suite.mockWalletService)
}

func (suite *WalletHandlerTestSuite) doJSON(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *WalletHandlerTestSuite) TestTopup_Success() {
	userID := uuid.NewString()
	req := dto.TopupRequest{
		IdempotencyKey: uuid.NewString(),
		Amount:         decimal.NewFromInt(500),
		Gateway:        domain.GatewayPromptPay,
		PaymentID:      "pay-001",
	}
	expected := &domain.TransferResult{
		Balance:            decimal.NewFromInt(500),
		TransactionGroupID: uuid.NewString(),
	}

	suite.mockWalletService.On("Topup",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		mock.MatchedBy(func(r dto.TopupRequest) bool {
			return r.IdempotencyKey == req.IdempotencyKey && r.Amount.Equal(req.Amount)
		}),
	).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/wallets/topup", suite.generateTestToken(userID), req)

	suite.Equal(http.StatusOK, w.Code)
	var result domain.TransferResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.Equal(expected.TransactionGroupID, result.TransactionGroupID)
	suite.True(result.Balance.Equal(expected.Balance))
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestTopup_MissingToken() {
	w := suite.doJSON(http.MethodPost, "/api/v1/wallets/topup", "", dto.TopupRequest{})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "Topup", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestTopup_MissingIdempotencyKey() {
	userID := uuid.NewString()
	// binding:"required" rejects the request before the service is reached
	w := suite.doJSON(http.MethodPost, "/api/v1/wallets/topup", suite.generateTestToken(userID), map[string]any{
		"amount":    "500",
		"gateway":   "promptpay",
		"paymentID": "pay-001",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWalletService.AssertNotCalled(suite.T(), "Topup", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletHandlerTestSuite) TestWithdraw_InsufficientFunds() {
	userID := uuid.NewString()
	req := dto.WithdrawRequest{
		IdempotencyKey: uuid.NewString(),
		AmountNet:      decimal.NewFromInt(1000),
		Channel:        domain.GatewayPromptPay,
		BankInfo:       dto.BankInfo{AccountName: "Somchai J", AccountNumber: "1234567890"},
	}

	suite.mockWalletService.On("Withdraw",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		mock.AnythingOfType("dto.WithdrawRequest"),
	).Return(nil, apperrors.ErrInsufficientFunds).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/wallets/withdraw", suite.generateTestToken(userID), req)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func (suite *WalletHandlerTestSuite) TestGetBalance_Success() {
	userID := uuid.NewString()
	suite.mockWalletService.On("GetBalance",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
	).Return(&dto.BalanceResponse{
		Balance:      decimal.RequireFromString("123.45"),
		CurrencyCode: domain.DefaultCurrency,
	}, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/wallets/balance", suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(decimal.RequireFromString("123.45")))
	suite.Equal(domain.DefaultCurrency, resp.CurrencyCode)
}

func (suite *WalletHandlerTestSuite) TestGetWithdrawalQuote_UnknownChannel() {
	userID := uuid.NewString()
	suite.mockWalletService.On("GetWithdrawalQuote",
		mock.AnythingOfType("*context.valueCtx"),
		userID,
		domain.Gateway("paypal"),
	).Return(nil, apperrors.ErrValidation).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/wallets/quote?channel=paypal", suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *WalletHandlerTestSuite) TestListEntries_PassesPagination() {
	userID := uuid.NewString()
	suite.mockWalletService.On("ListWalletEntries",
		mock.AnythingOfType("*context.valueCtx"),
		userID, 50, 10,
	).Return([]dto.LedgerEntryResponse{}, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/wallets/entries?limit=50&offset=10", suite.generateTestToken(userID), nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockWalletService.AssertExpectations(suite.T())
}

func TestWalletHandler(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}
