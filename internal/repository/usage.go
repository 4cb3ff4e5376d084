package repository

import (
	"context"
	"time"

	"tubeinsight/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type UsageRepository interface {
	// RecordUsage writes one usage row per external provider call. Failures
	// are logged and swallowed: accounting never fails a pipeline.
	RecordUsage(ctx context.Context, apiType string, tokensUsed int64, costEstimate float64)
	ListSince(ctx context.Context, since time.Time) ([]models.APIUsage, error)
}

type usageRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUsageRepository(db *sqlx.DB, logger *zap.Logger) UsageRepository {
	return &usageRepository{db: db, logger: logger}
}

func (r *usageRepository) RecordUsage(ctx context.Context, apiType string, tokensUsed int64, costEstimate float64) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_usage_logs (api_type, tokens_used, cost_estimate, created_at)
		VALUES ($1, $2, $3, $4)`,
		apiType, tokensUsed, costEstimate, time.Now().UTC())
	if err != nil {
		r.logger.Warn("Failed to record API usage",
			zap.String("api_type", apiType),
			zap.Error(err))
	}
}

func (r *usageRepository) ListSince(ctx context.Context, since time.Time) ([]models.APIUsage, error) {
	var usage []models.APIUsage
	err := r.db.SelectContext(ctx, &usage, `
		SELECT * FROM api_usage_logs
		WHERE created_at >= $1
		ORDER BY created_at ASC`, since)
	if err != nil {
		return nil, err
	}
	return usage, nil
}
