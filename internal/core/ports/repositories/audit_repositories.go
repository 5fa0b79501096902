package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jaohire/wallet_backend/internal/core/domain"
)

// AuditLogWriter appends audit entries. The InTx variant is used by other
// repositories so the audit row commits with the operation it documents.
type AuditLogWriter interface {
	AppendAuditEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.FinancialAuditLogEntry) error
}

// AuditLogReader queries the audit trail.
type AuditLogReader interface {
	// ListAuditEntriesByCorrelation retrieves every audit entry tied to a
	// transaction group or reconciliation run.
	ListAuditEntriesByCorrelation(ctx context.Context, correlationID string) ([]domain.FinancialAuditLogEntry, error)
}

// AuditLogRepositoryFacade combines audit read and write operations.
type AuditLogRepositoryFacade interface {
	AuditLogWriter
	AuditLogReader
}
