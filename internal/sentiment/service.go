package sentiment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"tubeinsight/internal/llm"
	"tubeinsight/internal/models"
	"tubeinsight/internal/youtube"

	"go.uber.org/zap"
)

// VideoProvider fetches video metadata and comments from the platform.
type VideoProvider interface {
	FetchVideoDetails(ctx context.Context, videoID string) (*models.VideoDetails, error)
	FetchComments(ctx context.Context, videoID string) ([]models.RawComment, error)
}

// Classifier labels a batch of comments in one provider call.
type Classifier interface {
	ClassifyBatch(ctx context.Context, comments []llm.CommentInput) ([]llm.Classification, error)
}

// Summarizer produces one synopsis for all texts in a category.
type Summarizer interface {
	SummarizeCategory(ctx context.Context, category string, texts []string) (string, error)
}

// VideoStore persists videos and comments.
type VideoStore interface {
	UpsertVideo(ctx context.Context, details *models.VideoDetails) (*models.Video, error)
	UpsertComments(ctx context.Context, videoID string, comments []models.RawComment) error
}

// AnalysisStore persists a completed analysis with its category summaries.
type AnalysisStore interface {
	CreateAnalysis(ctx context.Context, userID, videoID string, totalComments int, breakdown []models.CategorySummary) (string, error)
}

// Service orchestrates the comment-sentiment analysis pipeline. One call to
// Analyze is one synchronous pipeline run; there is no checkpointing and no
// retry, a failed stage fails the request.
type Service struct {
	videos          VideoProvider
	classifier      Classifier
	summarizer      Summarizer
	videoStore      VideoStore
	analysisStore   AnalysisStore
	logger          *zap.Logger
	providerTimeout time.Duration
}

// NewService wires the pipeline's collaborators. All of them are required.
func NewService(
	videos VideoProvider,
	classifier Classifier,
	summarizer Summarizer,
	videoStore VideoStore,
	analysisStore AnalysisStore,
	providerTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	if providerTimeout <= 0 {
		providerTimeout = 60 * time.Second
	}
	return &Service{
		videos:          videos,
		classifier:      classifier,
		summarizer:      summarizer,
		videoStore:      videoStore,
		analysisStore:   analysisStore,
		logger:          logger,
		providerTimeout: providerTimeout,
	}
}

// Analyze runs the full pipeline for one video URL on behalf of one user:
// resolve ID, fetch metadata and comments, persist raw data, classify,
// group, summarize per category, persist the analysis and assemble the
// response.
func (s *Service) Analyze(ctx context.Context, videoURL, userID string) (*models.AnalysisResult, error) {
	s.logger.Info("Starting video analysis",
		zap.String("video_url", videoURL),
		zap.String("user_id", userID))

	// Resolve the video ID. Pure parsing, no I/O.
	videoID, err := youtube.ExtractVideoID(videoURL)
	if err != nil {
		s.logger.Warn("Could not extract video ID", zap.String("video_url", videoURL))
		return nil, fmt.Errorf("%w: %q", ErrInvalidVideoURL, videoURL)
	}

	// Fetch metadata and comments from the platform.
	details, err := s.fetchDetails(ctx, videoID)
	if err != nil {
		return nil, err
	}
	rawComments, err := s.fetchComments(ctx, videoID)
	if err != nil {
		return nil, err
	}

	// Persist the video record before any AI cost is incurred. A failed
	// video upsert aborts; failed comment persistence is tolerated.
	if _, err := s.videoStore.UpsertVideo(ctx, details); err != nil {
		s.logger.Error("Failed to upsert video record", zap.String("video_id", videoID), zap.Error(err))
		return nil, fmt.Errorf("%w: saving video: %v", ErrStorage, err)
	}
	if len(rawComments) > 0 {
		if err := s.videoStore.UpsertComments(ctx, videoID, rawComments); err != nil {
			s.logger.Warn("Failed to save some or all comments, proceeding with analysis",
				zap.String("video_id", videoID), zap.Error(err))
		}
	}

	// Comments without an ID or text never reach the classifier and do not
	// count toward the analyzed total.
	inputs := prepareClassificationInput(rawComments)
	totalAnalyzed := len(inputs)
	s.logger.Info("Prepared comments for classification",
		zap.String("video_id", videoID),
		zap.Int("fetched", len(rawComments)),
		zap.Int("classifiable", totalAnalyzed))

	classifications, err := s.classify(ctx, inputs)
	if err != nil {
		return nil, err
	}

	textsByCategory, countsByCategory := groupByCategory(classifications, inputs)

	breakdown := s.summarizeCategories(ctx, textsByCategory, countsByCategory)

	analysisID, err := s.analysisStore.CreateAnalysis(ctx, userID, videoID, totalAnalyzed, breakdown)
	if err != nil {
		s.logger.Error("Failed to save analysis results",
			zap.String("video_id", videoID), zap.Error(err))
		return nil, fmt.Errorf("%w: saving analysis: %v", ErrStorage, err)
	}

	result := &models.AnalysisResult{
		AnalysisID:            analysisID,
		VideoID:               videoID,
		VideoTitle:            details.Title,
		AnalysisTimestamp:     time.Now().UTC(),
		TotalCommentsAnalyzed: totalAnalyzed,
		SentimentBreakdown:    breakdown,
		CommentsByDate:        aggregateCommentDates(rawComments),
	}

	s.logger.Info("Completed video analysis",
		zap.String("video_id", videoID),
		zap.String("analysis_id", analysisID),
		zap.Int("total_comments", totalAnalyzed))

	return result, nil
}

func (s *Service) fetchDetails(ctx context.Context, videoID string) (*models.VideoDetails, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	details, err := s.videos.FetchVideoDetails(callCtx, videoID)
	if err != nil {
		s.logger.Error("Failed to fetch video details", zap.String("video_id", videoID), zap.Error(err))
		return nil, fmt.Errorf("%w: fetching video details: %v", ErrUpstreamUnavailable, err)
	}
	return details, nil
}

func (s *Service) fetchComments(ctx context.Context, videoID string) ([]models.RawComment, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	comments, err := s.videos.FetchComments(callCtx, videoID)
	if err != nil {
		s.logger.Error("Failed to fetch comments", zap.String("video_id", videoID), zap.Error(err))
		return nil, fmt.Errorf("%w: fetching comments: %v", ErrUpstreamUnavailable, err)
	}
	if len(comments) == 0 {
		// Comments disabled or simply none posted. The pipeline continues
		// and produces an analysis with four empty categories.
		s.logger.Info("No comments available for video", zap.String("video_id", videoID))
	}
	return comments, nil
}

func (s *Service) classify(ctx context.Context, inputs []llm.CommentInput) ([]llm.Classification, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	classifications, err := s.classifier.ClassifyBatch(callCtx, inputs)
	if err != nil {
		s.logger.Error("Sentiment classification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	return classifications, nil
}

// summarizeCategories produces the four-element breakdown in fixed category
// order. A failed summary call degrades that category to a fallback message
// and never aborts the others.
func (s *Service) summarizeCategories(ctx context.Context, textsByCategory map[string][]string, countsByCategory map[string]int) []models.CategorySummary {
	breakdown := make([]models.CategorySummary, 0, len(models.SentimentCategories))

	for _, category := range models.SentimentCategories {
		texts := textsByCategory[category]

		var summary string
		if len(texts) == 0 {
			summary = fmt.Sprintf("No %s comments found for this video.", strings.ToLower(category))
		} else {
			callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
			generated, err := s.summarizer.SummarizeCategory(callCtx, category, texts)
			cancel()
			if err != nil {
				s.logger.Warn("Failed to generate category summary, using fallback",
					zap.String("category", category), zap.Error(err))
				summary = fmt.Sprintf("Could not generate summary for %s comments.", strings.ToLower(category))
			} else {
				summary = generated
			}
		}

		breakdown = append(breakdown, models.CategorySummary{
			CategoryName: category,
			CommentCount: countsByCategory[category],
			SummaryText:  summary,
		})
	}

	return breakdown
}

// prepareClassificationInput drops comments missing an ID or text. Dropped
// comments are excluded silently; they never count toward the total.
func prepareClassificationInput(comments []models.RawComment) []llm.CommentInput {
	inputs := make([]llm.CommentInput, 0, len(comments))
	for _, c := range comments {
		if c.ID == "" || c.Text == "" {
			continue
		}
		inputs = append(inputs, llm.CommentInput{ID: c.ID, Text: c.Text})
	}
	return inputs
}

// groupByCategory buckets classified comment texts by category. All four
// categories are always materialized, even when empty, so the empty-category
// fallback triggers uniformly. Classifications whose ID does not belong to
// the submitted batch are ignored.
func groupByCategory(classifications []llm.Classification, inputs []llm.CommentInput) (map[string][]string, map[string]int) {
	textByID := make(map[string]string, len(inputs))
	for _, in := range inputs {
		textByID[in.ID] = in.Text
	}

	textsByCategory := make(map[string][]string, len(models.SentimentCategories))
	countsByCategory := make(map[string]int, len(models.SentimentCategories))
	for _, category := range models.SentimentCategories {
		textsByCategory[category] = nil
		countsByCategory[category] = 0
	}

	for _, cl := range classifications {
		category := cl.Category
		if !models.IsValidCategory(category) {
			category = models.CategoryNeutral
		}
		text, ok := textByID[cl.ID]
		if !ok {
			continue
		}
		textsByCategory[category] = append(textsByCategory[category], text)
		countsByCategory[category]++
	}

	return textsByCategory, countsByCategory
}

// aggregateCommentDates counts analyzed comments per publish date, ascending.
func aggregateCommentDates(comments []models.RawComment) []models.DateCount {
	counts := make(map[string]int)
	for _, c := range comments {
		if c.ID == "" || c.Text == "" || c.PublishedAt.IsZero() {
			continue
		}
		counts[c.PublishedAt.UTC().Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	result := make([]models.DateCount, 0, len(dates))
	for _, date := range dates {
		result = append(result, models.DateCount{Date: date, Count: counts[date]})
	}
	return result
}
