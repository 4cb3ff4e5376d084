package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tubeinsight/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type AnalysisRepository interface {
	CreateAnalysis(ctx context.Context, userID, videoID string, totalComments int, breakdown []models.CategorySummary) (string, error)
	GetHistory(ctx context.Context, userID string, limit, offset int) ([]models.AnalysisSummary, error)
	GetDetail(ctx context.Context, analysisID, userID string) (*models.Analysis, []models.CategorySummary, *models.Video, error)
	ListForModeration(ctx context.Context, limit, offset int) ([]models.AnalysisSummary, int, error)
	GetForModeration(ctx context.Context, analysisID string) (*models.Analysis, []models.CategorySummary, error)
	SetDisabled(ctx context.Context, analysisID string, disabled bool) error
}

type analysisRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAnalysisRepository(db *sqlx.DB, logger *zap.Logger) AnalysisRepository {
	return &analysisRepository{db: db, logger: logger}
}

// CreateAnalysis inserts the analysis header and its four category summary
// rows in one transaction. Either all rows commit or none do; a header
// without summaries can never be observed.
func (r *analysisRepository) CreateAnalysis(ctx context.Context, userID, videoID string, totalComments int, breakdown []models.CategorySummary) (string, error) {
	analysisID := uuid.New().String()
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analyses (analysis_id, user_id, youtube_video_id, analysis_timestamp, total_comments_analyzed, updated_at)
		VALUES ($1, $2, $3, $4, $5, $4)`,
		analysisID, userID, videoID, now, totalComments)
	if err != nil {
		r.logger.Error("Failed to insert analysis header",
			zap.String("video_id", videoID), zap.Error(err))
		return "", err
	}

	for _, item := range breakdown {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO analysis_category_summaries (analysis_id, category_name, comment_count, summary_text)
			VALUES ($1, $2, $3, $4)`,
			analysisID, item.CategoryName, item.CommentCount, item.SummaryText)
		if err != nil {
			r.logger.Error("Failed to insert category summary",
				zap.String("analysis_id", analysisID),
				zap.String("category", item.CategoryName),
				zap.Error(err))
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit analysis: %w", err)
	}

	r.logger.Info("Saved analysis with category summaries",
		zap.String("analysis_id", analysisID),
		zap.Int("categories", len(breakdown)))

	return analysisID, nil
}

// GetHistory lists a user's analyses, newest first. Disabled analyses are
// excluded from the user-facing history.
func (r *analysisRepository) GetHistory(ctx context.Context, userID string, limit, offset int) ([]models.AnalysisSummary, error) {
	query := `
		SELECT a.analysis_id, a.youtube_video_id, v.video_title, a.analysis_timestamp, a.total_comments_analyzed
		FROM analyses a
		LEFT JOIN videos v ON a.youtube_video_id = v.youtube_video_id
		WHERE a.user_id = $1 AND NOT a.is_disabled
		ORDER BY a.analysis_timestamp DESC
		LIMIT $2 OFFSET $3`

	var history []models.AnalysisSummary
	if err := r.db.SelectContext(ctx, &history, query, userID, limit, offset); err != nil {
		r.logger.Error("Failed to fetch analysis history", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return history, nil
}

// GetDetail fetches one analysis with its summaries and video metadata,
// scoped to the owning user. A missing analysis and one owned by another
// user are indistinguishable: both return nil without error.
func (r *analysisRepository) GetDetail(ctx context.Context, analysisID, userID string) (*models.Analysis, []models.CategorySummary, *models.Video, error) {
	var analysis models.Analysis
	err := r.db.GetContext(ctx, &analysis, `
		SELECT analysis_id, user_id, youtube_video_id, analysis_timestamp, total_comments_analyzed, is_disabled, updated_at
		FROM analyses
		WHERE analysis_id = $1 AND user_id = $2 AND NOT is_disabled`,
		analysisID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil, nil
		}
		return nil, nil, nil, err
	}

	summaries, err := r.summariesFor(ctx, analysisID)
	if err != nil {
		return nil, nil, nil, err
	}

	var video models.Video
	err = r.db.GetContext(ctx, &video, `
		SELECT youtube_video_id, video_title, channel_title, thumbnail_url, last_comment_fetch_at, created_at, updated_at
		FROM videos WHERE youtube_video_id = $1`,
		analysis.YouTubeVideoID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil, err
	}

	return &analysis, summaries, &video, nil
}

// ListForModeration lists analyses across all users, including disabled
// ones, with a total count for pagination.
func (r *analysisRepository) ListForModeration(ctx context.Context, limit, offset int) ([]models.AnalysisSummary, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM analyses`); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT a.analysis_id, a.youtube_video_id, v.video_title, a.analysis_timestamp, a.total_comments_analyzed
		FROM analyses a
		LEFT JOIN videos v ON a.youtube_video_id = v.youtube_video_id
		ORDER BY a.analysis_timestamp DESC
		LIMIT $1 OFFSET $2`

	var analyses []models.AnalysisSummary
	if err := r.db.SelectContext(ctx, &analyses, query, limit, offset); err != nil {
		return nil, 0, err
	}
	return analyses, total, nil
}

// GetForModeration fetches one analysis regardless of owner or disabled
// state. Returns nil, nil, nil when the analysis does not exist.
func (r *analysisRepository) GetForModeration(ctx context.Context, analysisID string) (*models.Analysis, []models.CategorySummary, error) {
	var analysis models.Analysis
	err := r.db.GetContext(ctx, &analysis, `
		SELECT analysis_id, user_id, youtube_video_id, analysis_timestamp, total_comments_analyzed, is_disabled, updated_at
		FROM analyses WHERE analysis_id = $1`,
		analysisID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	summaries, err := r.summariesFor(ctx, analysisID)
	if err != nil {
		return nil, nil, err
	}
	return &analysis, summaries, nil
}

// SetDisabled flips the moderation flag on an analysis.
func (r *analysisRepository) SetDisabled(ctx context.Context, analysisID string, disabled bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE analyses SET is_disabled = $1, updated_at = $2 WHERE analysis_id = $3`,
		disabled, time.Now().UTC(), analysisID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("analysis not found: %s", analysisID)
	}
	return nil
}

func (r *analysisRepository) summariesFor(ctx context.Context, analysisID string) ([]models.CategorySummary, error) {
	query := `
		SELECT analysis_id, category_name, comment_count, summary_text
		FROM analysis_category_summaries
		WHERE analysis_id = $1
		ORDER BY CASE category_name
			WHEN 'Positive' THEN 0
			WHEN 'Neutral' THEN 1
			WHEN 'Critical' THEN 2
			ELSE 3
		END`

	var summaries []models.CategorySummary
	if err := r.db.SelectContext(ctx, &summaries, query, analysisID); err != nil {
		return nil, err
	}
	return summaries, nil
}
