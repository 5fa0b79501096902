package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationRun is the persistence shape of a reconciliation run.
type ReconciliationRun struct {
	RunID                string          `db:"run_id"`
	RunDate              time.Time       `db:"run_date"`
	Gateway              string          `db:"gateway"`
	Status               string          `db:"status"`
	InternalTotal        decimal.Decimal `db:"internal_total"`
	ExternalTotal        decimal.Decimal `db:"external_total"`
	MatchedCount         int             `db:"matched_count"`
	MissingInternalCount int             `db:"missing_internal_count"`
	MissingExternalCount int             `db:"missing_external_count"`
	StartedAt            time.Time       `db:"started_at"`
	CompletedAt          *time.Time      `db:"completed_at"`
	CreatedAt            time.Time       `db:"created_at"`
	CreatedBy            string          `db:"created_by"`
}

// ReconciliationLine is the persistence shape of one run line.
type ReconciliationLine struct {
	LineID            string              `db:"line_id"`
	RunID             string              `db:"run_id"`
	Status            string              `db:"status"`
	LedgerEntryID     *string             `db:"ledger_entry_id"`
	ExternalReference *string             `db:"external_reference"`
	InternalAmount    decimal.NullDecimal `db:"internal_amount"`
	ExternalAmount    decimal.NullDecimal `db:"external_amount"`
	MismatchReason    *string             `db:"mismatch_reason"`
}

// ReconciliationUpload is the persistence shape of a settlement upload.
type ReconciliationUpload struct {
	UploadID   string    `db:"upload_id"`
	RunID      string    `db:"run_id"`
	Filename   string    `db:"filename"`
	Checksum   string    `db:"checksum"`
	RowCount   int       `db:"row_count"`
	UploadedBy string    `db:"uploaded_by"`
	UploadedAt time.Time `db:"uploaded_at"`
}
