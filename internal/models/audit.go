package models

import "time"

// AuditLog represents one row of 'admin_audit_logs'. Details is stored as
// JSONB and round-tripped as a raw JSON string.
type AuditLog struct {
	ID         int64     `db:"id" json:"id"`
	AdminID    string    `db:"admin_id" json:"admin_id"`
	ActionType string    `db:"action_type" json:"action_type"`
	TargetType string    `db:"target_type" json:"target_type"`
	TargetID   *string   `db:"target_id" json:"target_id,omitempty"`
	Details    []byte    `db:"details" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// APIUsage represents one row of 'api_usage_logs'. One row is written per
// external provider call: api_type is "youtube" or "gemini".
type APIUsage struct {
	ID           int64     `db:"id" json:"id"`
	APIType      string    `db:"api_type" json:"api_type"`
	TokensUsed   int64     `db:"tokens_used" json:"tokens_used"`
	CostEstimate float64   `db:"cost_estimate" json:"cost_estimate"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
