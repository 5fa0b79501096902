package services

import (
	"context"

	"github.com/jaohire/wallet_backend/internal/core/domain"
)

// AuditSvcFacade exposes read access to the financial audit trail.
type AuditSvcFacade interface {
	// ListAuditTrail returns every audit entry tied to a correlation id,
	// which is either a transaction group id or a reconciliation run id.
	ListAuditTrail(ctx context.Context, correlationID string) ([]domain.FinancialAuditLogEntry, error)
}
