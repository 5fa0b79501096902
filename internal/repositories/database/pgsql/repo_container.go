package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires up all pgx-backed repositories over one
// connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	auditRepo := newPgxAuditLogRepository(dbPool)
	return portsrepo.RepositoryProvider{
		LedgerRepo:         newPgxLedgerRepository(dbPool, auditRepo),
		WalletRepo:         newPgxWalletRepository(dbPool),
		IdempotencyRepo:    newPgxIdempotencyRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool, auditRepo),
		AuditRepo:          auditRepo,
	}
}
