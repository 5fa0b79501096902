package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaohire/wallet_backend/internal/core/domain"
)

// ExternalRowRequest is one settlement row supplied directly over the API.
type ExternalRowRequest struct {
	Reference string          `json:"ref" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Date      *time.Time      `json:"date"`
}

// RunReconciliationRequest asks for a reconciliation of one (gateway, date)
// pair against caller-supplied settlement rows.
type RunReconciliationRequest struct {
	RunDate      string               `json:"runDate" binding:"required"` // YYYY-MM-DD
	Gateway      domain.Gateway       `json:"gateway" binding:"required,oneof=promptpay bank_transfer truemoney"`
	ExternalRows []ExternalRowRequest `json:"externalRows"`
}

// UploadReconciliationRequest carries a raw settlement file for parsing and
// reconciliation in one step.
type UploadReconciliationRequest struct {
	SettlementDate string         `json:"settlementDate" binding:"required"` // YYYY-MM-DD
	Gateway        domain.Gateway `json:"gateway" binding:"required,oneof=promptpay bank_transfer truemoney"`
	Filename       string         `json:"filename" binding:"required"`
	RawPayload     string         `json:"rawPayload" binding:"required"` // settlement file content
}

// ReconRunResponse summarises a completed reconciliation run.
type ReconRunResponse struct {
	RunID                string          `json:"runID"`
	RunDate              time.Time       `json:"runDate"`
	Gateway              domain.Gateway  `json:"gateway"`
	Status               string          `json:"status"`
	InternalTotal        decimal.Decimal `json:"internalTotal"`
	ExternalTotal        decimal.Decimal `json:"externalTotal"`
	MatchedCount         int             `json:"matchedCount"`
	MissingInternalCount int             `json:"missingInternalCount"`
	MissingExternalCount int             `json:"missingExternalCount"`
	StartedAt            time.Time       `json:"startedAt"`
	CompletedAt          time.Time       `json:"completedAt"`
}

// UploadReconResponse extends the run summary with the upload audit chain.
type UploadReconResponse struct {
	ReconRunResponse
	UploadID string `json:"upload_id"`
	Checksum string `json:"checksum"`
	RowCount int    `json:"row_count"`
}

// ReconLineResponse is one line of a run's detail view.
type ReconLineResponse struct {
	LineID            string          `json:"lineID"`
	Status            string          `json:"status"`
	LedgerEntryID     string          `json:"ledgerEntryID,omitempty"`
	ExternalReference string          `json:"externalReference,omitempty"`
	InternalAmount    decimal.Decimal `json:"internalAmount"`
	ExternalAmount    decimal.Decimal `json:"externalAmount"`
	MismatchReason    string          `json:"mismatchReason,omitempty"`
}

// ReconRunDetailResponse is a run summary plus its lines.
type ReconRunDetailResponse struct {
	Run   ReconRunResponse    `json:"run"`
	Lines []ReconLineResponse `json:"lines"`
}

// ToReconRunResponse converts a domain run to its summary DTO.
func ToReconRunResponse(run *domain.ReconciliationRun) ReconRunResponse {
	return ReconRunResponse{
		RunID:                run.RunID,
		RunDate:              run.RunDate,
		Gateway:              run.Gateway,
		Status:               string(run.Status),
		InternalTotal:        run.InternalTotal,
		ExternalTotal:        run.ExternalTotal,
		MatchedCount:         run.MatchedCount,
		MissingInternalCount: run.MissingInternalCount,
		MissingExternalCount: run.MissingExternalCount,
		StartedAt:            run.StartedAt,
		CompletedAt:          run.CompletedAt,
	}
}

// ToReconLineResponses converts a run's lines to DTOs.
func ToReconLineResponses(lines []domain.ReconciliationLine) []ReconLineResponse {
	responses := make([]ReconLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ReconLineResponse{
			LineID:            line.LineID,
			Status:            string(line.Status),
			LedgerEntryID:     line.LedgerEntryID,
			ExternalReference: line.ExternalReference,
			InternalAmount:    line.InternalAmount,
			ExternalAmount:    line.ExternalAmount,
			MismatchReason:    line.MismatchReason,
		}
	}
	return responses
}
