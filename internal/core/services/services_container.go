package services

import (
	"time"

	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
	portssvc "github.com/jaohire/wallet_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, reconLocation *time.Location) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Wallet = NewTransferService(repos.LedgerRepo, repos.WalletRepo, repos.IdempotencyRepo)
	container.Reconciliation = NewReconciliationService(repos.LedgerRepo, repos.ReconciliationRepo, reconLocation)
	container.Audit = NewAuditService(repos.AuditRepo)

	return container
}
