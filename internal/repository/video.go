package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tubeinsight/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type VideoRepository interface {
	UpsertVideo(ctx context.Context, details *models.VideoDetails) (*models.Video, error)
	UpsertComments(ctx context.Context, videoID string, comments []models.RawComment) error
	CommentDatesForVideo(ctx context.Context, videoID string) ([]models.DateCount, error)
}

type videoRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewVideoRepository(db *sqlx.DB, logger *zap.Logger) VideoRepository {
	return &videoRepository{db: db, logger: logger}
}

// UpsertVideo creates the video on first sight and updates mutable fields on
// every later analysis. An existing non-null field is never overwritten with
// an empty new value; the retrieval timestamp always refreshes.
func (r *videoRepository) UpsertVideo(ctx context.Context, details *models.VideoDetails) (*models.Video, error) {
	query := `
		INSERT INTO videos (youtube_video_id, video_title, channel_title, thumbnail_url, last_comment_fetch_at, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $5, $5)
		ON CONFLICT (youtube_video_id) DO UPDATE SET
			video_title = COALESCE(NULLIF(EXCLUDED.video_title, ''), videos.video_title),
			channel_title = COALESCE(NULLIF(EXCLUDED.channel_title, ''), videos.channel_title),
			thumbnail_url = COALESCE(NULLIF(EXCLUDED.thumbnail_url, ''), videos.thumbnail_url),
			last_comment_fetch_at = EXCLUDED.last_comment_fetch_at,
			updated_at = EXCLUDED.updated_at
		RETURNING youtube_video_id, video_title, channel_title, thumbnail_url, last_comment_fetch_at, created_at, updated_at`

	var video models.Video
	now := time.Now().UTC()
	err := r.db.QueryRowxContext(ctx, query,
		details.VideoID, details.Title, details.ChannelTitle, details.ThumbnailURL, now).StructScan(&video)
	if err != nil {
		r.logger.Error("Failed to upsert video", zap.String("video_id", details.VideoID), zap.Error(err))
		return nil, err
	}

	r.logger.Info("Upserted video record", zap.String("video_id", video.YouTubeVideoID))
	return &video, nil
}

// UpsertComments bulk-upserts fetched comments keyed by the external comment
// ID. Re-fetching refreshes text, like count and retrieval time but never the
// provider-authoritative published_at. Comments without an ID or text are
// skipped; an empty batch is a successful no-op.
func (r *videoRepository) UpsertComments(ctx context.Context, videoID string, comments []models.RawComment) error {
	type commentRow struct {
		ID          string
		Text        string
		Author      string
		PublishedAt time.Time
		LikeCount   int64
	}

	rows := make([]commentRow, 0, len(comments))
	for _, c := range comments {
		if c.ID == "" || c.Text == "" {
			r.logger.Warn("Skipping comment with missing id or text", zap.String("video_id", videoID))
			continue
		}
		rows = append(rows, commentRow{
			ID:          c.ID,
			Text:        c.Text,
			Author:      c.AuthorName,
			PublishedAt: c.PublishedAt,
			LikeCount:   c.LikeCount,
		})
	}

	if len(rows) == 0 {
		r.logger.Info("No valid comments to save", zap.String("video_id", videoID))
		return nil
	}

	now := time.Now().UTC()
	valueStrings := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*7)
	for i, row := range rows {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, row.ID, videoID, row.Text, row.Author, row.PublishedAt, row.LikeCount, now)
	}

	query := fmt.Sprintf(`
		INSERT INTO comments (youtube_comment_id, youtube_video_id, text_content, author_name, published_at, like_count, retrieved_at)
		VALUES %s
		ON CONFLICT (youtube_comment_id) DO UPDATE SET
			text_content = EXCLUDED.text_content,
			author_name = EXCLUDED.author_name,
			like_count = EXCLUDED.like_count,
			retrieved_at = EXCLUDED.retrieved_at`,
		strings.Join(valueStrings, ", "))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to upsert comments",
			zap.String("video_id", videoID),
			zap.Int("count", len(rows)),
			zap.Error(err))
		return err
	}

	r.logger.Info("Upserted comments", zap.String("video_id", videoID), zap.Int("count", len(rows)))
	return nil
}

// CommentDatesForVideo aggregates stored comment counts per publish date in
// ascending date order.
func (r *videoRepository) CommentDatesForVideo(ctx context.Context, videoID string) ([]models.DateCount, error) {
	query := `
		SELECT to_char(date(published_at), 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM comments
		WHERE youtube_video_id = $1
		GROUP BY date(published_at)
		ORDER BY date(published_at) ASC`

	var counts []models.DateCount
	if err := r.db.SelectContext(ctx, &counts, query, videoID); err != nil {
		return nil, err
	}
	return counts, nil
}
