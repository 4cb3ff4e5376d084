package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tubeinsight/internal/middleware"
	"tubeinsight/internal/models"
	"tubeinsight/internal/repository"
	"tubeinsight/internal/sentiment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type AnalysisHandler interface {
	AnalyzeVideo(c *gin.Context)
	GetHistory(c *gin.Context)
	GetDetail(c *gin.Context)
}

type analysisHandler struct {
	service  *sentiment.Service
	analyses repository.AnalysisRepository
	videos   repository.VideoRepository
	logger   *zap.Logger
}

func NewAnalysisHandler(
	service *sentiment.Service,
	analyses repository.AnalysisRepository,
	videos repository.VideoRepository,
	logger *zap.Logger,
) AnalysisHandler {
	return &analysisHandler{
		service:  service,
		analyses: analyses,
		videos:   videos,
		logger:   logger,
	}
}

type AnalyzeRequest struct {
	VideoURL string `json:"videoUrl" binding:"required"`
}

func (h *analysisHandler) AnalyzeVideo(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.ContextUserID)

	result, err := h.service.Analyze(c.Request.Context(), req.VideoURL, userID)
	if err != nil {
		switch {
		case errors.Is(err, sentiment.ErrInvalidVideoURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid YouTube video URL"})
		case errors.Is(err, sentiment.ErrUpstreamUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not retrieve video data from YouTube"})
		case errors.Is(err, sentiment.ErrClassificationFailed):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sentiment analysis is temporarily unavailable"})
		default:
			h.logger.Error("Video analysis failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze video"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *analysisHandler) GetHistory(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	limit, offset := pageParams(c, defaultHistoryLimit, maxHistoryLimit)

	history, err := h.analyses.GetHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to load analysis history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	if history == nil {
		history = []models.AnalysisSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": history})
}

func (h *analysisHandler) GetDetail(c *gin.Context) {
	analysisID := c.Param("id")
	userID := c.GetString(middleware.ContextUserID)

	analysis, breakdown, video, err := h.analyses.GetDetail(c.Request.Context(), analysisID, userID)
	if err != nil {
		h.logger.Error("Failed to load analysis detail",
			zap.String("analysis_id", analysisID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return
	}
	if analysis == nil {
		// Not found and not owned answer identically.
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	dates, err := h.videos.CommentDatesForVideo(c.Request.Context(), analysis.YouTubeVideoID)
	if err != nil {
		h.logger.Error("Failed to aggregate comment dates",
			zap.String("video_id", analysis.YouTubeVideoID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return
	}

	title := ""
	if video != nil && video.VideoTitle != nil {
		title = *video.VideoTitle
	}

	c.JSON(http.StatusOK, models.AnalysisResult{
		AnalysisID:            analysis.AnalysisID,
		VideoID:               analysis.YouTubeVideoID,
		VideoTitle:            title,
		AnalysisTimestamp:     analysis.AnalysisTimestamp,
		TotalCommentsAnalyzed: analysis.TotalCommentsAnalyzed,
		SentimentBreakdown:    breakdown,
		CommentsByDate:        dates,
	})
}

// pageParams reads limit/offset query parameters with bounds.
func pageParams(c *gin.Context, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
