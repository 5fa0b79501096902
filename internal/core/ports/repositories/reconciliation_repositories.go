package repositories

import (
	"context"

	"github.com/jaohire/wallet_backend/internal/core/domain"
)

// ReconciliationReader defines read operations over completed runs.
type ReconciliationReader interface {
	// FindRunByID retrieves one reconciliation run.
	FindRunByID(ctx context.Context, runID string) (*domain.ReconciliationRun, error)

	// FindLinesByRunID retrieves the lines belonging to a run.
	FindLinesByRunID(ctx context.Context, runID string) ([]domain.ReconciliationLine, error)

	// ListRuns retrieves a page of runs, newest first, optionally filtered
	// by gateway.
	ListRuns(ctx context.Context, gateway *domain.Gateway, limit, offset int) ([]domain.ReconciliationRun, error)
}

// ReconciliationWriter persists completed runs. A run, its lines, the
// optional upload record and the audit entries commit as one transaction, so
// no partially written run is ever visible.
type ReconciliationWriter interface {
	SaveRun(ctx context.Context, run domain.ReconciliationRun, lines []domain.ReconciliationLine, upload *domain.ReconciliationUpload, audits []domain.FinancialAuditLogEntry) error
}

// ReconciliationRepositoryFacade combines run read and write operations.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
