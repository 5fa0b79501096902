package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaohire/wallet_backend/internal/apperrors"
	"github.com/jaohire/wallet_backend/internal/core/domain"
	portsrepo "github.com/jaohire/wallet_backend/internal/core/ports/repositories"
	"github.com/jaohire/wallet_backend/internal/models"
	"github.com/jaohire/wallet_backend/internal/utils/mapping"
)

type PgxReconciliationRepository struct {
	BaseRepository
	auditRepo portsrepo.AuditLogWriter
}

// newPgxReconciliationRepository creates the repository for reconciliation
// runs, lines and upload records.
func newPgxReconciliationRepository(pool *pgxpool.Pool, auditRepo portsrepo.AuditLogWriter) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{
		BaseRepository: BaseRepository{Pool: pool},
		auditRepo:      auditRepo,
	}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconRunColumns = `run_id, run_date, gateway, status, internal_total, external_total, matched_count, missing_internal_count, missing_external_count, started_at, completed_at, created_at, created_by`

const reconLineColumns = `line_id, run_id, status, ledger_entry_id, external_reference, internal_amount, external_amount, mismatch_reason`

// SaveRun persists a completed run in one transaction: the run row is
// inserted pending and promoted to its terminal status before commit, so a
// pending run is never observable. The unique (gateway, run_date) index
// rejects a second run for the same day with apperrors.ErrDuplicate.
func (r *PgxReconciliationRepository) SaveRun(ctx context.Context, run domain.ReconciliationRun, lines []domain.ReconciliationLine, upload *domain.ReconciliationUpload, audits []domain.FinancialAuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReconciliationRun(run)
	_, err = tx.Exec(ctx, `
		INSERT INTO reconciliation_runs (`+reconRunColumns+`)
		VALUES ($1, $2, $3, $4, 0, 0, 0, 0, 0, $5, NULL, $6, $7);
	`, m.RunID, m.RunDate, m.Gateway, string(domain.ReconRunPending), m.StartedAt, m.CreatedAt, m.CreatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: reconciliation run already exists for %s on %s",
				apperrors.ErrDuplicate, run.Gateway, run.RunDate.Format("2006-01-02"))
		}
		return storeErr("failed to insert reconciliation run "+run.RunID, err)
	}

	if len(lines) > 0 {
		batch := &pgx.Batch{}
		for _, line := range lines {
			lm := mapping.ToModelReconciliationLine(line)
			batch.Queue(`
				INSERT INTO reconciliation_lines (`+reconLineColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
			`, lm.LineID, lm.RunID, lm.Status, lm.LedgerEntryID, lm.ExternalReference, lm.InternalAmount, lm.ExternalAmount, lm.MismatchReason)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return storeErr("failed to insert reconciliation lines for run "+run.RunID, err)
		}
	}

	if upload != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO reconciliation_uploads (upload_id, run_id, filename, checksum, row_count, uploaded_by, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`, upload.UploadID, upload.RunID, upload.Filename, upload.Checksum, upload.RowCount, upload.UploadedBy, upload.UploadedAt)
		if err != nil {
			return storeErr("failed to insert upload record for run "+run.RunID, err)
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE reconciliation_runs
		SET status = $1,
		    internal_total = $2,
		    external_total = $3,
		    matched_count = $4,
		    missing_internal_count = $5,
		    missing_external_count = $6,
		    completed_at = $7
		WHERE run_id = $8;
	`, m.Status, m.InternalTotal, m.ExternalTotal, m.MatchedCount, m.MissingInternalCount, m.MissingExternalCount, m.CompletedAt, m.RunID)
	if err != nil {
		return storeErr("failed to complete reconciliation run "+run.RunID, err)
	}

	for _, entry := range audits {
		if err := r.auditRepo.AppendAuditEntryInTx(ctx, tx, entry); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// FindRunByID retrieves one reconciliation run.
func (r *PgxReconciliationRepository) FindRunByID(ctx context.Context, runID string) (*domain.ReconciliationRun, error) {
	query := `SELECT ` + reconRunColumns + ` FROM reconciliation_runs WHERE run_id = $1;`
	m, err := scanReconRun(r.Pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reconciliation run %s", apperrors.ErrNotFound, runID)
		}
		return nil, storeErr("failed to query reconciliation run "+runID, err)
	}
	run := mapping.ToDomainReconciliationRun(*m)
	return &run, nil
}

// FindLinesByRunID retrieves the lines belonging to a run. Mismatches sort
// before matched lines so the interesting rows come first.
func (r *PgxReconciliationRepository) FindLinesByRunID(ctx context.Context, runID string) ([]domain.ReconciliationLine, error) {
	query := `
		SELECT ` + reconLineColumns + `
		FROM reconciliation_lines
		WHERE run_id = $1
		ORDER BY status = $2, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, runID, string(domain.ReconLineMatched))
	if err != nil {
		return nil, storeErr("failed to query reconciliation lines for run "+runID, err)
	}
	defer rows.Close()

	lines := []domain.ReconciliationLine{}
	for rows.Next() {
		var lm models.ReconciliationLine
		err := rows.Scan(
			&lm.LineID,
			&lm.RunID,
			&lm.Status,
			&lm.LedgerEntryID,
			&lm.ExternalReference,
			&lm.InternalAmount,
			&lm.ExternalAmount,
			&lm.MismatchReason,
		)
		if err != nil {
			return nil, storeErr("failed to scan reconciliation line row", err)
		}
		lines = append(lines, mapping.ToDomainReconciliationLine(lm))
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to read reconciliation line rows", err)
	}
	return lines, nil
}

// ListRuns retrieves a page of runs, newest first, optionally filtered by
// gateway.
func (r *PgxReconciliationRepository) ListRuns(ctx context.Context, gateway *domain.Gateway, limit, offset int) ([]domain.ReconciliationRun, error) {
	query := `
		SELECT ` + reconRunColumns + `
		FROM reconciliation_runs
		WHERE ($1::text IS NULL OR gateway = $1)
		ORDER BY run_date DESC, started_at DESC
		LIMIT $2 OFFSET $3;
	`
	var gatewayArg *string
	if gateway != nil {
		s := string(*gateway)
		gatewayArg = &s
	}
	rows, err := r.Pool.Query(ctx, query, gatewayArg, limit, offset)
	if err != nil {
		return nil, storeErr("failed to query reconciliation runs", err)
	}
	defer rows.Close()

	runs := []domain.ReconciliationRun{}
	for rows.Next() {
		m, err := scanReconRun(rows)
		if err != nil {
			return nil, storeErr("failed to scan reconciliation run row", err)
		}
		runs = append(runs, mapping.ToDomainReconciliationRun(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to read reconciliation run rows", err)
	}
	return runs, nil
}

func scanReconRun(row pgx.Row) (*models.ReconciliationRun, error) {
	var m models.ReconciliationRun
	err := row.Scan(
		&m.RunID,
		&m.RunDate,
		&m.Gateway,
		&m.Status,
		&m.InternalTotal,
		&m.ExternalTotal,
		&m.MatchedCount,
		&m.MissingInternalCount,
		&m.MissingExternalCount,
		&m.StartedAt,
		&m.CompletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
