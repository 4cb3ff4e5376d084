package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tubeinsight/internal/models"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// MaxCommentsPerAnalysis caps how many top-level comments one analysis may
// fetch. Classifier and summarizer calls are charged per token, so the cap is
// a hard policy, not a request parameter.
const MaxCommentsPerAnalysis = 100

// ErrVideoNotFound is returned when the Data API knows no video with the
// given identifier.
var ErrVideoNotFound = errors.New("video not found")

// UsageRecorder receives request accounting for every Data API call.
// Recording failures must never fail the call that produced the usage.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, apiType string, tokensUsed int64, costEstimate float64)
}

// Client wraps the YouTube Data API v3 for video metadata and comment
// retrieval.
type Client struct {
	service *youtube.Service
	logger  *zap.Logger
	usage   UsageRecorder
}

// NewClient creates a YouTube Data API client authenticated with an API key.
// usage may be nil.
func NewClient(ctx context.Context, apiKey string, usage UsageRecorder, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube API key is required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service, logger: logger, usage: usage}, nil
}

func (c *Client) recordUsage(ctx context.Context) {
	if c.usage != nil {
		c.usage.RecordUsage(ctx, "youtube", 0, 0)
	}
}

// FetchVideoDetails returns title, channel title and thumbnail URL for the
// given video ID.
func (c *Client) FetchVideoDetails(ctx context.Context, videoID string) (*models.VideoDetails, error) {
	call := c.service.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}
	c.recordUsage(ctx)

	if len(resp.Items) == 0 {
		c.logger.Warn("No video found", zap.String("video_id", videoID))
		return nil, ErrVideoNotFound
	}

	snippet := resp.Items[0].Snippet
	details := &models.VideoDetails{
		VideoID:      videoID,
		Title:        snippet.Title,
		ChannelTitle: snippet.ChannelTitle,
	}
	if snippet.Thumbnails != nil {
		switch {
		case snippet.Thumbnails.High != nil:
			details.ThumbnailURL = snippet.Thumbnails.High.Url
		case snippet.Thumbnails.Default != nil:
			details.ThumbnailURL = snippet.Thumbnails.Default.Url
		}
	}

	c.logger.Info("Fetched video details",
		zap.String("video_id", videoID),
		zap.String("title", details.Title))

	return details, nil
}

// FetchComments returns up to MaxCommentsPerAnalysis most recent top-level
// comments for the given video ID. A video with comments disabled yields an
// empty slice and no error.
func (c *Client) FetchComments(ctx context.Context, videoID string) ([]models.RawComment, error) {
	call := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(MaxCommentsPerAnalysis).
		Order("time").
		TextFormat("plainText").
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		if isCommentsDisabled(err) {
			c.logger.Warn("Comments are disabled for video", zap.String("video_id", videoID))
			return []models.RawComment{}, nil
		}
		return nil, fmt.Errorf("failed to get comment threads: %w", err)
	}
	c.recordUsage(ctx)

	comments := make([]models.RawComment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if len(comments) >= MaxCommentsPerAnalysis {
			break
		}
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil {
			continue
		}
		top := item.Snippet.TopLevelComment
		snippet := top.Snippet
		if snippet == nil {
			continue
		}

		comment := models.RawComment{
			ID:         top.Id,
			Text:       snippet.TextDisplay,
			AuthorName: snippet.AuthorDisplayName,
			LikeCount:  snippet.LikeCount,
		}
		if publishedAt, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
			comment.PublishedAt = publishedAt
		}

		comments = append(comments, comment)
	}

	c.logger.Info("Fetched comments",
		zap.String("video_id", videoID),
		zap.Int("count", len(comments)))

	return comments, nil
}

// isCommentsDisabled checks whether the API error is the commentsDisabled
// condition, which is not a failure for the pipeline.
func isCommentsDisabled(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, e := range apiErr.Errors {
			if e.Reason == "commentsDisabled" {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), "commentsDisabled")
}
