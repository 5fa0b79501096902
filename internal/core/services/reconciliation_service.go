package services

import (
	"context"
	"encoding/json"
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
	"github.com/jaohire/wallet_backend/internal/utils/money"
	"github.com/jaohire/wallet_backend/internal/utils/settlement"
)

const runDateLayout = "2006-01-02"

// reconciliationService matches internal topup legs against externally
// supplied settlement rows for a (gateway, date) pair. Runs only report
// discrepancies; a mismatch is a normal outcome, never an error, and ledger
// entries are never touched.
type reconciliationService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	reconRepo  portsrepo.ReconciliationRepositoryFacade
	location   *time.Location
}

// NewReconciliationService creates the reconciliation engine. location fixes
// the timezone in which a run's calendar date is interpreted.
func NewReconciliationService(ledgerRepo portsrepo.LedgerRepositoryFacade, reconRepo portsrepo.ReconciliationRepositoryFacade, location *time.Location) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		ledgerRepo: ledgerRepo,
		reconRepo:  reconRepo,
		location:   location,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// matchOutcome is the in-memory result of matching internal entries against
// external rows, before anything is persisted.
type matchOutcome struct {
	lines                []domain.ReconciliationLine
	internalTotal        decimal.Decimal
	externalTotal        decimal.Decimal
	matchedCount         int
	missingInternalCount int
	missingExternalCount int
}

func (m matchOutcome) status() domain.ReconRunStatus {
	if m.missingInternalCount == 0 && m.missingExternalCount == 0 {
		return domain.ReconRunMatched
	}
	return domain.ReconRunMismatchFound
}

// matchSettlement pairs internal entries with external rows. A row matches an
// entry when the amounts are exactly equal and the row reference equals the
// entry's transaction number or entry id; the first unused row in file order
// wins. Internal entries without a counterpart become missing_external lines,
// leftover external rows become missing_internal lines.
func matchSettlement(runID string, entries []domain.LedgerEntry, rows []domain.ExternalSettlementRow) matchOutcome {
	outcome := matchOutcome{
		lines:         make([]domain.ReconciliationLine, 0, len(entries)+len(rows)),
		internalTotal: decimal.Zero,
		externalTotal: decimal.Zero,
	}
	used := make([]bool, len(rows))

	for _, row := range rows {
		outcome.externalTotal = money.Sum(outcome.externalTotal, row.Amount)
	}

	for _, entry := range entries {
		outcome.internalTotal = money.Sum(outcome.internalTotal, entry.Amount)

		matchedIdx := -1
		for i, row := range rows {
			if used[i] {
				continue
			}
			if !row.Amount.Equal(entry.Amount) {
				continue
			}
			if row.Reference == entry.TransactionNo || row.Reference == entry.EntryID {
				matchedIdx = i
				break
			}
		}

		if matchedIdx >= 0 {
			used[matchedIdx] = true
			outcome.matchedCount++
			outcome.lines = append(outcome.lines, domain.ReconciliationLine{
				LineID:            uuid.NewString(),
				RunID:             runID,
				Status:            domain.ReconLineMatched,
				LedgerEntryID:     entry.EntryID,
				ExternalReference: rows[matchedIdx].Reference,
				InternalAmount:    entry.Amount,
				ExternalAmount:    rows[matchedIdx].Amount,
			})
			continue
		}

		outcome.missingExternalCount++
		outcome.lines = append(outcome.lines, domain.ReconciliationLine{
			LineID:         uuid.NewString(),
			RunID:          runID,
			Status:         domain.ReconLineMissingExternal,
			LedgerEntryID:  entry.EntryID,
			InternalAmount: entry.Amount,
			MismatchReason: "no settlement row matches this ledger entry's amount and reference",
		})
	}

	for i, row := range rows {
		if used[i] {
			continue
		}
		outcome.missingInternalCount++
		outcome.lines = append(outcome.lines, domain.ReconciliationLine{
			LineID:            uuid.NewString(),
			RunID:             runID,
			Status:            domain.ReconLineMissingInternal,
			ExternalReference: row.Reference,
			ExternalAmount:    row.Amount,
			MismatchReason:    "gateway reports a settlement with no internal ledger entry",
		})
	}

	return outcome
}

// execute runs reconciliation for one (gateway, date) against rows and
// persists the run, its lines, the optional upload record and the audit
// entries as one transaction.
func (s *reconciliationService) execute(ctx context.Context, actorID string, gateway domain.Gateway, runDate time.Time, rows []domain.ExternalSettlementRow, upload *domain.ReconciliationUpload) (*domain.ReconciliationRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	dayStart := time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, s.location)
	dayEnd := dayStart.Add(24 * time.Hour)

	entries, err := s.ledgerRepo.FindGatewayTopupEntries(ctx, gateway, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to load internal entries for reconciliation: %w", err)
	}

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	outcome := matchSettlement(runID, entries, rows)
	completedAt := time.Now().UTC()

	run := domain.ReconciliationRun{
		RunID:                runID,
		RunDate:              dayStart,
		Gateway:              gateway,
		Status:               outcome.status(),
		InternalTotal:        outcome.internalTotal,
		ExternalTotal:        outcome.externalTotal,
		MatchedCount:         outcome.matchedCount,
		MissingInternalCount: outcome.missingInternalCount,
		MissingExternalCount: outcome.missingExternalCount,
		StartedAt:            startedAt,
		CompletedAt:          completedAt,
		AuditFields:          domain.AuditFields{CreatedAt: startedAt, CreatedBy: actorID},
	}

	summary, err := json.Marshal(dto.ToReconRunResponse(&run))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run summary: %w", err)
	}

	audits := []domain.FinancialAuditLogEntry{{
		AuditID:       uuid.NewString(),
		ActorID:       actorID,
		Action:        domain.AuditReconciliationRun,
		EntityType:    "reconciliation_run",
		EntityID:      runID,
		StateAfter:    summary,
		Reason:        fmt.Sprintf("reconciliation of %s for %s", gateway, runDate.Format(runDateLayout)),
		CorrelationID: runID,
		CreatedAt:     completedAt,
	}}
	if upload != nil {
		upload.RunID = runID
		uploadState, err := json.Marshal(upload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal upload record: %w", err)
		}
		audits = append(audits, domain.FinancialAuditLogEntry{
			AuditID:       uuid.NewString(),
			ActorID:       actorID,
			Action:        domain.AuditReconciliationUpload,
			EntityType:    "reconciliation_upload",
			EntityID:      upload.UploadID,
			StateAfter:    uploadState,
			Reason:        fmt.Sprintf("settlement upload %s", upload.Filename),
			CorrelationID: runID,
			CreatedAt:     completedAt,
		})
	}

	if err := s.reconRepo.SaveRun(ctx, run, outcome.lines, upload, audits); err != nil {
		logger.Error("Failed to persist reconciliation run", slog.String("run_id", runID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Reconciliation run completed",
		slog.String("run_id", runID),
		slog.String("gateway", string(gateway)),
		slog.String("status", string(run.Status)),
		slog.Int("matched", run.MatchedCount),
		slog.Int("missing_internal", run.MissingInternalCount),
		slog.Int("missing_external", run.MissingExternalCount),
	)
	return &run, nil
}

func (s *reconciliationService) parseRunDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(runDateLayout, raw, s.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: run date must be YYYY-MM-DD, got %q", apperrors.ErrValidation, raw)
	}
	return date, nil
}

// Run reconciles caller-supplied settlement rows against the ledger.
func (s *reconciliationService) Run(ctx context.Context, actorID string, req dto.RunReconciliationRequest) (*dto.ReconRunResponse, error) {
	runDate, err := s.parseRunDate(req.RunDate)
	if err != nil {
		return nil, err
	}
	if !domain.IsKnownGateway(req.Gateway) {
		return nil, fmt.Errorf("%w: unknown gateway %q", apperrors.ErrValidation, req.Gateway)
	}

	rows := make([]domain.ExternalSettlementRow, len(req.ExternalRows))
	for i, row := range req.ExternalRows {
		date := runDate
		if row.Date != nil {
			date = *row.Date
		}
		rows[i] = domain.ExternalSettlementRow{
			Reference: row.Reference,
			Amount:    money.Round2(row.Amount),
			Date:      date,
		}
	}

	run, err := s.execute(ctx, actorID, req.Gateway, runDate, rows, nil)
	if err != nil {
		return nil, err
	}
	resp := dto.ToReconRunResponse(run)
	return &resp, nil
}

// UploadAndReconcile parses a raw settlement payload, records the upload with
// its checksum, and reconciles the parsed rows, giving a durable chain from
// raw file to run to audit trail.
func (s *reconciliationService) UploadAndReconcile(ctx context.Context, actorID string, req dto.UploadReconciliationRequest) (*dto.UploadReconResponse, error) {
	runDate, err := s.parseRunDate(req.SettlementDate)
	if err != nil {
		return nil, err
	}
	if !domain.IsKnownGateway(req.Gateway) {
		return nil, fmt.Errorf("%w: unknown gateway %q", apperrors.ErrValidation, req.Gateway)
	}

	raw := []byte(req.RawPayload)
	rows, err := settlement.Parse(raw, runDate)
	if err != nil {
		return nil, err
	}

	upload := &domain.ReconciliationUpload{
		UploadID:   uuid.NewString(),
		Filename:   req.Filename,
		Checksum:   settlement.Checksum(raw),
		RowCount:   len(rows),
		UploadedBy: actorID,
		UploadedAt: time.Now().UTC(),
	}

	run, err := s.execute(ctx, actorID, req.Gateway, runDate, rows, upload)
	if err != nil {
		return nil, err
	}
	return &dto.UploadReconResponse{
		ReconRunResponse: dto.ToReconRunResponse(run),
		UploadID:         upload.UploadID,
		Checksum:         upload.Checksum,
		RowCount:         upload.RowCount,
	}, nil
}

// GetRunDetail returns one run with its lines.
func (s *reconciliationService) GetRunDetail(ctx context.Context, runID string) (*dto.ReconRunDetailResponse, error) {
	run, err := s.reconRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	lines, err := s.reconRepo.FindLinesByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &dto.ReconRunDetailResponse{
		Run:   dto.ToReconRunResponse(run),
		Lines: dto.ToReconLineResponses(lines),
	}, nil
}

// ListRuns returns a page of runs, newest first.
func (s *reconciliationService) ListRuns(ctx context.Context, gateway *domain.Gateway, limit, offset int) ([]dto.ReconRunResponse, error) {
	runs, err := s.reconRepo.ListRuns(ctx, gateway, limit, offset)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ReconRunResponse, len(runs))
	for i := range runs {
		responses[i] = dto.ToReconRunResponse(&runs[i])
	}
	return responses, nil
}
