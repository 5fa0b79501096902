package services

import (
	"context"

	"github.com/jaohire/wallet_backend/internal/core/domain"
	"github.com/jaohire/wallet_backend/internal/dto"
)

// ReconciliationSvcFacade exposes the reconciliation engine. Runs report
// discrepancies; they never mutate ledger entries.
type ReconciliationSvcFacade interface {
	// Run reconciles one (gateway, date) pair against caller-supplied
	// settlement rows and persists an immutable run record.
	Run(ctx context.Context, actorID string, req dto.RunReconciliationRequest) (*dto.ReconRunResponse, error)

	// UploadAndReconcile parses a raw settlement payload, records the
	// upload with its checksum, and runs reconciliation over the parsed
	// rows.
	UploadAndReconcile(ctx context.Context, actorID string, req dto.UploadReconciliationRequest) (*dto.UploadReconResponse, error)

	// GetRunDetail returns a run summary with its lines.
	GetRunDetail(ctx context.Context, runID string) (*dto.ReconRunDetailResponse, error)

	// ListRuns returns a page of runs, newest first.
	ListRuns(ctx context.Context, gateway *domain.Gateway, limit, offset int) ([]dto.ReconRunResponse, error)
}
