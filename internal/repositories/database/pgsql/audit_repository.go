package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaohire/wallet_backend/internal/core/domain"
	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
)

type PgxAuditLogRepository struct {
	BaseRepository
}

// newPgxAuditLogRepository creates the repository for the financial audit
// trail.
func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

const auditColumns = `audit_id, actor_id, action, entity_type, entity_id, state_before, state_after, reason, correlation_id, created_at`

// AppendAuditEntryInTx inserts an audit entry within the caller's
// transaction, so the entry commits or rolls back with the operation it
// documents.
func (r *PgxAuditLogRepository) AppendAuditEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.FinancialAuditLogEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO financial_audit_log (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`,
		entry.AuditID,
		entry.ActorID,
		string(entry.Action),
		entry.EntityType,
		entry.EntityID,
		[]byte(entry.StateBefore),
		[]byte(entry.StateAfter),
		entry.Reason,
		entry.CorrelationID,
		entry.CreatedAt,
	)
	if err != nil {
		return storeErr("failed to insert audit entry "+entry.AuditID, err)
	}
	return nil
}

// ListAuditEntriesByCorrelation retrieves every audit entry tied to a
// transaction group or reconciliation run, oldest first.
func (r *PgxAuditLogRepository) ListAuditEntriesByCorrelation(ctx context.Context, correlationID string) ([]domain.FinancialAuditLogEntry, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM financial_audit_log
		WHERE correlation_id = $1
		ORDER BY created_at, audit_id;
	`
	rows, err := r.Pool.Query(ctx, query, correlationID)
	if err != nil {
		return nil, storeErr("failed to query audit entries for correlation "+correlationID, err)
	}
	defer rows.Close()

	entries := []domain.FinancialAuditLogEntry{}
	for rows.Next() {
		var entry domain.FinancialAuditLogEntry
		var action string
		var stateBefore, stateAfter []byte
		err := rows.Scan(
			&entry.AuditID,
			&entry.ActorID,
			&action,
			&entry.EntityType,
			&entry.EntityID,
			&stateBefore,
			&stateAfter,
			&entry.Reason,
			&entry.CorrelationID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, storeErr("failed to scan audit entry row", err)
		}
		entry.Action = domain.AuditAction(action)
		entry.StateBefore = stateBefore
		entry.StateAfter = stateAfter
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to read audit entry rows", err)
	}
	return entries, nil
}
