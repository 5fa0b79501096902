package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gateway identifies a payment channel whose settlements we reconcile against.
type Gateway string

const (
	GatewayPromptPay    Gateway = "promptpay"
	GatewayBankTransfer Gateway = "bank_transfer"
	GatewayTrueMoney    Gateway = "truemoney"
)

// KnownGateways lists every gateway accepted by the wallet and reconciliation
// APIs.
var KnownGateways = []Gateway{GatewayPromptPay, GatewayBankTransfer, GatewayTrueMoney}

// IsKnownGateway reports whether g is one of the supported payment channels.
func IsKnownGateway(g Gateway) bool {
	for _, known := range KnownGateways {
		if g == known {
			return true
		}
	}
	return false
}

// ReconRunStatus is the lifecycle state of a reconciliation run.
type ReconRunStatus string

const (
	ReconRunPending       ReconRunStatus = "pending"
	ReconRunMatched       ReconRunStatus = "matched"
	ReconRunMismatchFound ReconRunStatus = "mismatch_found"
)

// ReconLineStatus classifies one row of a reconciliation run.
//
// Naming convention (applied uniformly): an internal ledger entry with no
// external counterpart is "missing_external" (the gateway confirmation is
// what's missing); an external settlement row with no internal entry is
// "missing_internal".
type ReconLineStatus string

const (
	ReconLineMatched         ReconLineStatus = "matched"
	ReconLineMissingInternal ReconLineStatus = "missing_internal"
	ReconLineMissingExternal ReconLineStatus = "missing_external"
)

// ExternalSettlementRow is one row of settlement data reported by a gateway,
// supplied via upload or API call.
type ExternalSettlementRow struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
}

// ReconciliationRun records one attempt to reconcile a (gateway, date) pair.
// Once completed, a run is immutable; the terminal status and aggregates are
// written exactly once, inside the same transaction that created the run.
type ReconciliationRun struct {
	RunID                string          `json:"runID"`
	RunDate              time.Time       `json:"runDate"`
	Gateway              Gateway         `json:"gateway"`
	Status               ReconRunStatus  `json:"status"`
	InternalTotal        decimal.Decimal `json:"internalTotal"`
	ExternalTotal        decimal.Decimal `json:"externalTotal"`
	MatchedCount         int             `json:"matchedCount"`
	MissingInternalCount int             `json:"missingInternalCount"`
	MissingExternalCount int             `json:"missingExternalCount"`
	StartedAt            time.Time       `json:"startedAt"`
	CompletedAt          time.Time       `json:"completedAt"`
	AuditFields
}

// ReconciliationLine is one matched or unmatched row within a run. Lines are
// append-only and owned exclusively by their run.
type ReconciliationLine struct {
	LineID            string          `json:"lineID"`
	RunID             string          `json:"runID"`
	Status            ReconLineStatus `json:"status"`
	LedgerEntryID     string          `json:"ledgerEntryID,omitempty"`
	ExternalReference string          `json:"externalReference,omitempty"`
	InternalAmount    decimal.Decimal `json:"internalAmount"`
	ExternalAmount    decimal.Decimal `json:"externalAmount"`
	MismatchReason    string          `json:"mismatchReason,omitempty"`
}

// ReconciliationUpload is the immutable record of a raw settlement file
// upload, chaining the payload checksum to the run it produced.
type ReconciliationUpload struct {
	UploadID   string    `json:"uploadID"`
	RunID      string    `json:"runID"`
	Filename   string    `json:"filename"`
	Checksum   string    `json:"checksum"` // SHA-256 hex of the raw payload
	RowCount   int       `json:"rowCount"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}
