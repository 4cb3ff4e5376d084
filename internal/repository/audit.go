package repository

import (
	"context"
	"encoding/json"
	"time"

	"tubeinsight/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// AuditEntry is one admin action about to be recorded.
type AuditEntry struct {
	AdminID    string
	ActionType string
	TargetType string
	TargetID   string
	Details    map[string]interface{}
}

type AuditRepository interface {
	// LogAction records an admin action. Failures are logged, never
	// propagated: auditing must not fail the audited operation.
	LogAction(ctx context.Context, entry AuditEntry)
	ListActions(ctx context.Context, actionType string, limit, offset int) ([]models.AuditLog, int, error)
}

type auditRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAuditRepository(db *sqlx.DB, logger *zap.Logger) AuditRepository {
	return &auditRepository{db: db, logger: logger}
}

func (r *auditRepository) LogAction(ctx context.Context, entry AuditEntry) {
	details := entry.Details
	if details == nil {
		details = map[string]interface{}{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		r.logger.Error("Failed to encode audit details", zap.Error(err))
		payload = []byte("{}")
	}

	var targetID *string
	if entry.TargetID != "" {
		targetID = &entry.TargetID
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO admin_audit_logs (admin_id, action_type, target_type, target_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.AdminID, entry.ActionType, entry.TargetType, targetID, payload, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to log admin action",
			zap.String("action_type", entry.ActionType),
			zap.Error(err))
	}
}

func (r *auditRepository) ListActions(ctx context.Context, actionType string, limit, offset int) ([]models.AuditLog, int, error) {
	var total int
	var logs []models.AuditLog

	if actionType != "" {
		if err := r.db.GetContext(ctx, &total,
			`SELECT COUNT(*) FROM admin_audit_logs WHERE action_type = $1`, actionType); err != nil {
			return nil, 0, err
		}
		err := r.db.SelectContext(ctx, &logs, `
			SELECT * FROM admin_audit_logs
			WHERE action_type = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`, actionType, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		return logs, total, nil
	}

	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM admin_audit_logs`); err != nil {
		return nil, 0, err
	}
	err := r.db.SelectContext(ctx, &logs, `
		SELECT * FROM admin_audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
