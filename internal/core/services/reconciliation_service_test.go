package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/jaohire/wallet_backend/internal/core/ports/services"
	"github.com/jaohire/wallet_backend/internal/core/services"
	"github.com/jaohire/wallet_backend/internal/dto"
	"github.com/jaohire/wallet_backend/internal/utils/settlement"
)

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) SaveRun(ctx context.Context, run domain.ReconciliationRun, lines []domain.ReconciliationLine, upload *domain.ReconciliationUpload, audits []domain.FinancialAuditLogEntry) error {
	args := m.Called(ctx, run, lines, upload, audits)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindRunByID(ctx context.Context, runID string) (*domain.ReconciliationRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationRun), args.Error(1)
}

func (m *MockReconciliationRepository) FindLinesByRunID(ctx context.Context, runID string) ([]domain.ReconciliationLine, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationLine), args.Error(1)
}

func (m *MockReconciliationRepository) ListRuns(ctx context.Context, gateway *domain.Gateway, limit, offset int) ([]domain.ReconciliationRun, error) {
	args := m.Called(ctx, gateway, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationRun), args.Error(1)
}

// --- Test Suite Setup ---
type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockReconRepo  *MockReconciliationRepository
	service        portssvc.ReconciliationSvcFacade
	location       *time.Location
	actorID        string

	savedRun    domain.ReconciliationRun
	savedLines  []domain.ReconciliationLine
	savedUpload *domain.ReconciliationUpload
	savedAudits []domain.FinancialAuditLogEntry
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	var err error
	suite.location, err = time.LoadLocation("Asia/Bangkok")
	suite.Require().NoError(err)

	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.service = services.NewReconciliationService(suite.mockLedgerRepo, suite.mockReconRepo, suite.location)
	suite.actorID = uuid.NewString()

	suite.savedRun = domain.ReconciliationRun{}
	suite.savedLines = nil
	suite.savedUpload = nil
	suite.savedAudits = nil
}

// expectSaveRun accepts any SaveRun call and captures its arguments for
// assertions.
func (suite *ReconciliationServiceTestSuite) expectSaveRun() {
	suite.mockReconRepo.On("SaveRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			suite.savedRun = args.Get(1).(domain.ReconciliationRun)
			suite.savedLines = args.Get(2).([]domain.ReconciliationLine)
			if args.Get(3) != nil {
				suite.savedUpload = args.Get(3).(*domain.ReconciliationUpload)
			}
			suite.savedAudits = args.Get(4).([]domain.FinancialAuditLogEntry)
		}).
		Return(nil).Once()
}

func topupEntry(transactionNo string, amount string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		EventType:     domain.EventTopup,
		Direction:     domain.Credit,
		Amount:        decimal.RequireFromString(amount),
		CurrencyCode:  domain.DefaultCurrency,
		WalletID:      uuid.NewString(),
		Gateway:       string(domain.GatewayPromptPay),
		TransactionNo: transactionNo,
	}
}

func (suite *ReconciliationServiceTestSuite) TestRun_AllMatched() {
	ctx := context.Background()
	entries := []domain.LedgerEntry{
		topupEntry("TXN-1", "100"),
		topupEntry("TXN-2", "200.50"),
	}
	suite.mockLedgerRepo.On("FindGatewayTopupEntries", ctx, domain.GatewayPromptPay, mock.Anything, mock.Anything).Return(entries, nil).Once()
	suite.expectSaveRun()

	resp, err := suite.service.Run(ctx, suite.actorID, dto.RunReconciliationRequest{
		RunDate: "2025-03-01",
		Gateway: domain.GatewayPromptPay,
		ExternalRows: []dto.ExternalRowRequest{
			{Reference: "TXN-1", Amount: decimal.RequireFromString("100")},
			{Reference: "TXN-2", Amount: decimal.RequireFromString("200.50")},
		},
	})

	suite.Require().NoError(err)
	suite.Equal(string(domain.ReconRunMatched), resp.Status)
	suite.Equal(2, resp.MatchedCount)
	suite.Equal(0, resp.MissingInternalCount)
	suite.Equal(0, resp.MissingExternalCount)
	suite.True(resp.InternalTotal.Equal(decimal.RequireFromString("300.50")))
	suite.True(resp.ExternalTotal.Equal(decimal.RequireFromString("300.50")))

	suite.Len(suite.savedLines, 2)
	for _, line := range suite.savedLines {
		suite.Equal(domain.ReconLineMatched, line.Status)
		suite.NotEmpty(line.LedgerEntryID)
		suite.NotEmpty(line.ExternalReference)
	}
	suite.Require().Len(suite.savedAudits, 1)
	suite.Equal(domain.AuditReconciliationRun, suite.savedAudits[0].Action)
	suite.Equal(suite.savedRun.RunID, suite.savedAudits[0].CorrelationID)
}

func (suite *ReconciliationServiceTestSuite) TestRun_InternalEntryWithoutSettlementRow() {
	ctx := context.Background()
	entries := []domain.LedgerEntry{topupEntry("TXN-1", "100")}
	suite.mockLedgerRepo.On("FindGatewayTopupEntries", ctx, domain.GatewayPromptPay, mock.Anything, mock.Anything).Return(entries, nil).Once()
	suite.expectSaveRun()

	resp, err := suite.service.Run(ctx, suite.actorID, dto.RunReconciliationRequest{
		RunDate: "2025-03-01",
		Gateway: domain.GatewayPromptPay,
	})

	suite.Require().NoError(err)
	suite.Equal(string(domain.ReconRunMismatchFound), resp.Status)
	suite.Equal(1, resp.MissingExternalCount)
	suite.Require().Len(suite.savedLines, 1)
	suite.Equal(domain.ReconLineMissingExternal, suite.savedLines[0].Status)
	suite.Equal(entries[0].EntryID, suite.savedLines[0].LedgerEntryID)
}

func (suite *ReconciliationServiceTestSuite) TestRun_SettlementRowWithoutInternalEntry() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindGatewayTopupEntries", ctx, domain.GatewayPromptPay, mock.Anything, mock.Anything).Return([]domain.LedgerEntry{}, nil).Once()
	suite.expectSaveRun()

	resp, err := suite.service.Run(ctx, suite.actorID, dto.RunReconciliationRequest{
		RunDate: "2025-03-01",
		Gateway: domain.GatewayPromptPay,
		ExternalRows: []dto.ExternalRowRequest{
			{Reference: "TXN-GHOST", Amount: decimal.RequireFromString("75")},
		},
	})

	suite.Require().NoError(err)
	suite.Equal(string(domain.ReconRunMismatchFound), resp.Status)
	suite.Equal(1, resp.MissingInternalCount)
	suite.Require().Len(suite.savedLines, 1)
	suite.Equal(domain.ReconLineMissingInternal, suite.savedLines[0].Status)
	suite.Equal("TXN-GHOST", suite.savedLines[0].ExternalReference)
}

func (suite *ReconciliationServiceTestSuite) TestRun_AmountDifferenceIsNotAMatch() {
	ctx := context.Background()
	entries := []domain.LedgerEntry{topupEntry("TXN-1", "100")}
	suite.mockLedgerRepo.On("FindGatewayTopupEntries", ctx, domain.GatewayPromptPay, mock.Anything, mock.Anything).Return(entries, nil).Once()
	suite.expectSaveRun()

	resp, err := suite.service.Run(ctx, suite.actorID, dto.RunReconciliationRequest{
		RunDate: "2025-03-01",
		Gateway: domain.GatewayPromptPay,
		ExternalRows: []dto.ExternalRowRequest{
			{Reference: "TXN-1", Amount: decimal.RequireFromString("99.99")},
		},
	})

	// Same reference, different amount: both sides report a gap.
	suite.Require().NoError(err)
	suite.Equal(string(domain.ReconRunMismatchFound), resp.Status)
	suite.Equal(0, resp.MatchedCount)
	suite.Equal(1, resp.MissingExternalCount)
	suite.Equal(1, resp.MissingInternalCount)
	suite.Len(suite.savedLines, 2)
}

func (suite *ReconciliationServiceTestSuite) TestRun_QueriesBangkokDayWindow() {
	ctx := context.Background()
	// Midnight 2025-03-01 in Bangkok is 17:00 UTC the previous day.
	wantFrom := time.Date(2025, 2, 28, 17, 0, 0, 0, time.UTC)
	wantTo := wantFrom.Add(24 * time.Hour)

	suite.mockLedgerRepo.On("FindGatewayTopupEntries", ctx, domain.GatewayPromptPay,
		mock.MatchedBy(func(from time.Time) bool { return from.Equal(wantFrom) }),
		mock.MatchedBy(func(to time.Time) bool { return to.Equal(wantTo) }),
	).Return([]domain.LedgerEntry{}, nil).Once()
	suite.expectSaveRun()

	_, err := suite.service.Run(ctx, suite.actorID, dto.RunReconciliationRequest{
		RunDate: "2025-03-01",
		Gateway: domain.GatewayPromptPay,
	})

	suite.Require().NoError(err)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestRun_RejectsBadDate() {
	ctx := context.Background()

	_, err := suite.service.Run(ctx, suite.actorID, dto.RunReconciliationRequest{
		RunDate: "01-03-2025",
		Gateway: domain.GatewayPromptPay,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestRun_PropagatesDuplicateRun() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("FindGatewayTopupEntries", ctx, domain.GatewayPromptPay, mock.Anything, mock.Anything).Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockReconRepo.On("SaveRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.Run(ctx, suite.actorID, dto.RunReconciliationRequest{
		RunDate: "2025-03-01",
		Gateway: domain.GatewayPromptPay,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ReconciliationServiceTestSuite) TestUploadAndReconcile_ParsesAndRecordsUpload() {
	ctx := context.Background()
	payload := "ref,amount\nTXN-1,100\nTXN-2,200.50\n"
	entries := []domain.LedgerEntry{
		topupEntry("TXN-1", "100"),
		topupEntry("TXN-2", "200.50"),
	}
	suite.mockLedgerRepo.On("FindGatewayTopupEntries", ctx, domain.GatewayPromptPay, mock.Anything, mock.Anything).Return(entries, nil).Once()
	suite.expectSaveRun()

	resp, err := suite.service.UploadAndReconcile(ctx, suite.actorID, dto.UploadReconciliationRequest{
		SettlementDate: "2025-03-01",
		Gateway:        domain.GatewayPromptPay,
		Filename:       "promptpay-2025-03-01.csv",
		RawPayload:     payload,
	})

	suite.Require().NoError(err)
	suite.Equal(string(domain.ReconRunMatched), resp.Status)
	suite.Equal(2, resp.RowCount)
	suite.Equal(settlement.Checksum([]byte(payload)), resp.Checksum)

	suite.Require().NotNil(suite.savedUpload)
	suite.Equal(resp.UploadID, suite.savedUpload.UploadID)
	suite.Equal(suite.savedRun.RunID, suite.savedUpload.RunID)
	suite.Equal("promptpay-2025-03-01.csv", suite.savedUpload.Filename)
	suite.Equal(suite.actorID, suite.savedUpload.UploadedBy)

	// A run audit entry plus an upload audit entry, both tied to the run.
	suite.Require().Len(suite.savedAudits, 2)
	suite.Equal(domain.AuditReconciliationRun, suite.savedAudits[0].Action)
	suite.Equal(domain.AuditReconciliationUpload, suite.savedAudits[1].Action)
	suite.Equal(suite.savedRun.RunID, suite.savedAudits[1].CorrelationID)
}

func (suite *ReconciliationServiceTestSuite) TestUploadAndReconcile_RejectsMalformedPayload() {
	ctx := context.Background()

	_, err := suite.service.UploadAndReconcile(ctx, suite.actorID, dto.UploadReconciliationRequest{
		SettlementDate: "2025-03-01",
		Gateway:        domain.GatewayPromptPay,
		Filename:       "broken.csv",
		RawPayload:     "ref,amount\nTXN-1,not-a-number\n",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestGetRunDetail() {
	ctx := context.Background()
	runID := uuid.NewString()
	run := &domain.ReconciliationRun{
		RunID:   runID,
		Gateway: domain.GatewayTrueMoney,
		Status:  domain.ReconRunMatched,
	}
	lines := []domain.ReconciliationLine{{
		LineID: uuid.NewString(),
		RunID:  runID,
		Status: domain.ReconLineMatched,
	}}
	suite.mockReconRepo.On("FindRunByID", ctx, runID).Return(run, nil).Once()
	suite.mockReconRepo.On("FindLinesByRunID", ctx, runID).Return(lines, nil).Once()

	detail, err := suite.service.GetRunDetail(ctx, runID)

	suite.Require().NoError(err)
	suite.Equal(runID, detail.Run.RunID)
	suite.Require().Len(detail.Lines, 1)
	suite.Equal(string(domain.ReconLineMatched), detail.Lines[0].Status)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
