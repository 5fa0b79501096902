package mapping

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/core/domain"
	"github.com/jaohire/wallet_backend/internal/models"
)

// ToModelReconciliationRun converts a completed domain run to its persistence
// shape.
func ToModelReconciliationRun(r domain.ReconciliationRun) models.ReconciliationRun {
	var completedAt *time.Time
	if !r.CompletedAt.IsZero() {
		t := r.CompletedAt
		completedAt = &t
	}
	return models.ReconciliationRun{
		RunID:                r.RunID,
		RunDate:              r.RunDate,
		Gateway:              string(r.Gateway),
		Status:               string(r.Status),
		InternalTotal:        r.InternalTotal,
		ExternalTotal:        r.ExternalTotal,
		MatchedCount:         r.MatchedCount,
		MissingInternalCount: r.MissingInternalCount,
		MissingExternalCount: r.MissingExternalCount,
		StartedAt:            r.StartedAt,
		CompletedAt:          completedAt,
		CreatedAt:            r.CreatedAt,
		CreatedBy:            r.CreatedBy,
	}
}

// ToDomainReconciliationRun converts a persisted run back to its domain shape.
func ToDomainReconciliationRun(m models.ReconciliationRun) domain.ReconciliationRun {
	completedAt := time.Time{}
	if m.CompletedAt != nil {
		completedAt = *m.CompletedAt
	}
	return domain.ReconciliationRun{
		RunID:                m.RunID,
		RunDate:              m.RunDate,
		Gateway:              domain.Gateway(m.Gateway),
		Status:               domain.ReconRunStatus(m.Status),
		InternalTotal:        m.InternalTotal,
		ExternalTotal:        m.ExternalTotal,
		MatchedCount:         m.MatchedCount,
		MissingInternalCount: m.MissingInternalCount,
		MissingExternalCount: m.MissingExternalCount,
		StartedAt:            m.StartedAt,
		CompletedAt:          completedAt,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		},
	}
}

// ToModelReconciliationLine converts a domain line to its persistence shape.
// Amounts are only stored for the sides that exist.
func ToModelReconciliationLine(l domain.ReconciliationLine) models.ReconciliationLine {
	internal := decimal.NullDecimal{}
	if l.Status != domain.ReconLineMissingInternal {
		internal = decimal.NullDecimal{Decimal: l.InternalAmount, Valid: true}
	}
	external := decimal.NullDecimal{}
	if l.Status != domain.ReconLineMissingExternal {
		external = decimal.NullDecimal{Decimal: l.ExternalAmount, Valid: true}
	}
	return models.ReconciliationLine{
		LineID:            l.LineID,
		RunID:             l.RunID,
		Status:            string(l.Status),
		LedgerEntryID:     nullableStr(l.LedgerEntryID),
		ExternalReference: nullableStr(l.ExternalReference),
		InternalAmount:    internal,
		ExternalAmount:    external,
		MismatchReason:    nullableStr(l.MismatchReason),
	}
}

// ToDomainReconciliationLine converts a persisted line back to its domain
// shape.
func ToDomainReconciliationLine(m models.ReconciliationLine) domain.ReconciliationLine {
	internal := decimal.Zero
	if m.InternalAmount.Valid {
		internal = m.InternalAmount.Decimal
	}
	external := decimal.Zero
	if m.ExternalAmount.Valid {
		external = m.ExternalAmount.Decimal
	}
	return domain.ReconciliationLine{
		LineID:            m.LineID,
		RunID:             m.RunID,
		Status:            domain.ReconLineStatus(m.Status),
		LedgerEntryID:     derefStr(m.LedgerEntryID),
		ExternalReference: derefStr(m.ExternalReference),
		InternalAmount:    internal,
		ExternalAmount:    external,
		MismatchReason:    derefStr(m.MismatchReason),
	}
}
