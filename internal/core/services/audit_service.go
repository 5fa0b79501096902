package services

import (
	"context"

	"github.com/jaohire/wallet_backend/internal/core/domain"
	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/jaohire/wallet_backend/internal/core/ports/services"
)

// auditService serves read access to the audit trail. Writes happen inside
// the repositories, in the same transaction as the operation they document.
type auditService struct {
	auditRepo portsrepo.AuditLogReader
}

// NewAuditService creates the audit read service.
func NewAuditService(auditRepo portsrepo.AuditLogReader) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) ListAuditTrail(ctx context.Context, correlationID string) ([]domain.FinancialAuditLogEntry, error) {
	return s.auditRepo.ListAuditEntriesByCorrelation(ctx, correlationID)
}
