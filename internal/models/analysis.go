package models

import "time"

// Sentiment categories are a closed set. Every analysis produces exactly one
// CategorySummary per category, in this order.
const (
	CategoryPositive = "Positive"
	CategoryNeutral  = "Neutral"
	CategoryCritical = "Critical"
	CategoryToxic    = "Toxic"
)

// SentimentCategories lists the categories in their fixed response order.
var SentimentCategories = []string{
	CategoryPositive,
	CategoryNeutral,
	CategoryCritical,
	CategoryToxic,
}

// IsValidCategory reports whether name is one of the four known categories.
func IsValidCategory(name string) bool {
	for _, c := range SentimentCategories {
		if c == name {
			return true
		}
	}
	return false
}

// Analysis represents one completed pipeline run stored in the 'analyses' table.
type Analysis struct {
	AnalysisID             string    `db:"analysis_id" json:"analysisId"`
	UserID                 string    `db:"user_id" json:"userId"`
	YouTubeVideoID         string    `db:"youtube_video_id" json:"videoId"`
	AnalysisTimestamp      time.Time `db:"analysis_timestamp" json:"analysisTimestamp"`
	TotalCommentsAnalyzed  int       `db:"total_comments_analyzed" json:"totalCommentsAnalyzed"`
	IsDisabled             bool      `db:"is_disabled" json:"isDisabled"`
	UpdatedAt              time.Time `db:"updated_at" json:"-"`
}

// CategorySummary is one row of 'analysis_category_summaries': the comment
// count and generated summary for a single sentiment category.
type CategorySummary struct {
	AnalysisID   string `db:"analysis_id" json:"-"`
	CategoryName string `db:"category_name" json:"category"`
	CommentCount int    `db:"comment_count" json:"count"`
	SummaryText  string `db:"summary_text" json:"summary"`
}

// DateCount aggregates how many analyzed comments were published on one date.
type DateCount struct {
	Date  string `db:"date" json:"date"` // YYYY-MM-DD
	Count int    `db:"count" json:"count"`
}

// AnalysisResult is the response shape for a completed analysis, shared by
// the analyze endpoint and the detail endpoint.
type AnalysisResult struct {
	AnalysisID            string            `json:"analysisId"`
	VideoID               string            `json:"videoId"`
	VideoTitle            string            `json:"videoTitle"`
	AnalysisTimestamp     time.Time         `json:"analysisTimestamp"`
	TotalCommentsAnalyzed int               `json:"totalCommentsAnalyzed"`
	SentimentBreakdown    []CategorySummary `json:"sentimentBreakdown"`
	CommentsByDate        []DateCount       `json:"commentsByDate"`
}

// AnalysisSummary is one row of the history listing.
type AnalysisSummary struct {
	AnalysisID            string    `db:"analysis_id" json:"analysisId"`
	YouTubeVideoID        string    `db:"youtube_video_id" json:"videoId"`
	VideoTitle            *string   `db:"video_title" json:"videoTitle"`
	AnalysisTimestamp     time.Time `db:"analysis_timestamp" json:"analysisTimestamp"`
	TotalCommentsAnalyzed int       `db:"total_comments_analyzed" json:"totalCommentsAnalyzed"`
}
