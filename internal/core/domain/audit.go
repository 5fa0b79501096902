package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names a balance-affecting or administrative decision.
type AuditAction string

const (
	AuditWalletTopup          AuditAction = "WALLET_TOPUP"
	AuditWalletWithdraw       AuditAction = "WALLET_WITHDRAW"
	AuditReconciliationRun    AuditAction = "RECONCILIATION_RUN"
	AuditReconciliationUpload AuditAction = "RECONCILIATION_UPLOAD"
)

// FinancialAuditLogEntry is one append-only record of a decision, written in
// the same transaction as the operation it documents. CorrelationID ties the
// entry back to a transaction group or reconciliation run.
type FinancialAuditLogEntry struct {
	AuditID       string          `json:"auditID"`
	ActorID       string          `json:"actorID"`
	Action        AuditAction     `json:"action"`
	EntityType    string          `json:"entityType"`
	EntityID      string          `json:"entityID"`
	StateBefore   json.RawMessage `json:"stateBefore,omitempty"`
	StateAfter    json.RawMessage `json:"stateAfter,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	CorrelationID string          `json:"correlationID"`
	CreatedAt     time.Time       `json:"createdAt"`
}
