package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tubeinsight/internal/llm"
	"tubeinsight/internal/models"

	"go.uber.org/zap"
)

type fakeProvider struct {
	details    *models.VideoDetails
	detailsErr error
	comments   []models.RawComment
	commentErr error
}

func (f *fakeProvider) FetchVideoDetails(ctx context.Context, videoID string) (*models.VideoDetails, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return f.details, nil
}

func (f *fakeProvider) FetchComments(ctx context.Context, videoID string) ([]models.RawComment, error) {
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return f.comments, nil
}

type fakeClassifier struct {
	results []llm.Classification
	err     error
	calls   int
}

func (f *fakeClassifier) ClassifyBatch(ctx context.Context, comments []llm.CommentInput) ([]llm.Classification, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeSummarizer struct {
	err   error
	calls map[string][]string
}

func (f *fakeSummarizer) SummarizeCategory(ctx context.Context, category string, texts []string) (string, error) {
	if f.calls == nil {
		f.calls = make(map[string][]string)
	}
	f.calls[category] = texts
	if f.err != nil {
		return "", f.err
	}
	return "summary for " + category, nil
}

type fakeVideoStore struct {
	upsertVideoErr    error
	upsertCommentsErr error
	savedComments     []models.RawComment
	videoUpserts      int
}

func (f *fakeVideoStore) UpsertVideo(ctx context.Context, details *models.VideoDetails) (*models.Video, error) {
	f.videoUpserts++
	if f.upsertVideoErr != nil {
		return nil, f.upsertVideoErr
	}
	return &models.Video{YouTubeVideoID: details.VideoID, VideoTitle: &details.Title}, nil
}

func (f *fakeVideoStore) UpsertComments(ctx context.Context, videoID string, comments []models.RawComment) error {
	if f.upsertCommentsErr != nil {
		return f.upsertCommentsErr
	}
	f.savedComments = comments
	return nil
}

type fakeAnalysisStore struct {
	err       error
	created   int
	lastTotal int
	lastRows  []models.CategorySummary
}

func (f *fakeAnalysisStore) CreateAnalysis(ctx context.Context, userID, videoID string, totalComments int, breakdown []models.CategorySummary) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created++
	f.lastTotal = totalComments
	f.lastRows = breakdown
	return "analysis-1", nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func newTestService(p *fakeProvider, c *fakeClassifier, s *fakeSummarizer, vs *fakeVideoStore, as *fakeAnalysisStore) *Service {
	return NewService(p, c, s, vs, as, time.Second, zap.NewNop())
}

func TestAnalyzeHappyPath(t *testing.T) {
	provider := &fakeProvider{
		details: &models.VideoDetails{VideoID: "dQw4w9WgXcQ", Title: "Test Video"},
		comments: []models.RawComment{
			{ID: "c1", Text: "love it", PublishedAt: day("2026-01-02")},
			{ID: "c2", Text: "amazing work", PublishedAt: day("2026-01-01")},
			{ID: "c3", Text: "you are awful", PublishedAt: day("2026-01-02")},
		},
	}
	classifier := &fakeClassifier{results: []llm.Classification{
		{ID: "c1", Category: models.CategoryPositive},
		{ID: "c2", Category: models.CategoryPositive},
		{ID: "c3", Category: models.CategoryToxic},
	}}
	summarizer := &fakeSummarizer{}
	videoStore := &fakeVideoStore{}
	analysisStore := &fakeAnalysisStore{}

	svc := newTestService(provider, classifier, summarizer, videoStore, analysisStore)

	result, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "user-1")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("VideoID = %q, want dQw4w9WgXcQ", result.VideoID)
	}
	if result.VideoTitle != "Test Video" {
		t.Errorf("VideoTitle = %q, want Test Video", result.VideoTitle)
	}
	if result.TotalCommentsAnalyzed != 3 {
		t.Errorf("TotalCommentsAnalyzed = %d, want 3", result.TotalCommentsAnalyzed)
	}
	if len(result.SentimentBreakdown) != 4 {
		t.Fatalf("SentimentBreakdown has %d categories, want 4", len(result.SentimentBreakdown))
	}

	wantOrder := []string{
		models.CategoryPositive,
		models.CategoryNeutral,
		models.CategoryCritical,
		models.CategoryToxic,
	}
	wantCounts := map[string]int{
		models.CategoryPositive: 2,
		models.CategoryNeutral:  0,
		models.CategoryCritical: 0,
		models.CategoryToxic:    1,
	}
	for i, row := range result.SentimentBreakdown {
		if row.CategoryName != wantOrder[i] {
			t.Errorf("breakdown[%d] category = %q, want %q", i, row.CategoryName, wantOrder[i])
		}
		if row.CommentCount != wantCounts[row.CategoryName] {
			t.Errorf("category %s count = %d, want %d", row.CategoryName, row.CommentCount, wantCounts[row.CategoryName])
		}
		if row.CommentCount == 0 && !strings.HasPrefix(row.SummaryText, "No ") {
			t.Errorf("empty category %s summary = %q, want a no-comments fallback", row.CategoryName, row.SummaryText)
		}
		if row.CommentCount > 0 && row.SummaryText != "summary for "+row.CategoryName {
			t.Errorf("category %s summary = %q", row.CategoryName, row.SummaryText)
		}
	}

	// Only non-empty categories reach the summarizer.
	if len(summarizer.calls) != 2 {
		t.Errorf("summarizer called for %d categories, want 2", len(summarizer.calls))
	}
	if got := summarizer.calls[models.CategoryPositive]; len(got) != 2 {
		t.Errorf("positive texts = %v, want 2 texts", got)
	}

	wantDates := []models.DateCount{
		{Date: "2026-01-01", Count: 1},
		{Date: "2026-01-02", Count: 2},
	}
	if len(result.CommentsByDate) != len(wantDates) {
		t.Fatalf("CommentsByDate = %v, want %v", result.CommentsByDate, wantDates)
	}
	for i, want := range wantDates {
		if result.CommentsByDate[i] != want {
			t.Errorf("CommentsByDate[%d] = %v, want %v", i, result.CommentsByDate[i], want)
		}
	}

	if analysisStore.created != 1 {
		t.Errorf("analysis persisted %d times, want 1", analysisStore.created)
	}
	if len(videoStore.savedComments) != 3 {
		t.Errorf("saved %d comments, want 3", len(videoStore.savedComments))
	}
}

func TestAnalyzeInvalidURL(t *testing.T) {
	classifier := &fakeClassifier{}
	svc := newTestService(&fakeProvider{}, classifier, &fakeSummarizer{}, &fakeVideoStore{}, &fakeAnalysisStore{})

	_, err := svc.Analyze(context.Background(), "https://example.com/watch?v=nope", "user-1")
	if !errors.Is(err, ErrInvalidVideoURL) {
		t.Fatalf("error = %v, want ErrInvalidVideoURL", err)
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times for invalid URL", classifier.calls)
	}
}

func TestAnalyzeNoComments(t *testing.T) {
	provider := &fakeProvider{
		details:  &models.VideoDetails{VideoID: "dQw4w9WgXcQ", Title: "Quiet Video"},
		comments: nil,
	}
	classifier := &fakeClassifier{}
	analysisStore := &fakeAnalysisStore{}

	svc := newTestService(provider, classifier, &fakeSummarizer{}, &fakeVideoStore{}, analysisStore)

	result, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "user-1")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.TotalCommentsAnalyzed != 0 {
		t.Errorf("TotalCommentsAnalyzed = %d, want 0", result.TotalCommentsAnalyzed)
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times with no comments", classifier.calls)
	}
	if len(result.SentimentBreakdown) != 4 {
		t.Fatalf("SentimentBreakdown has %d categories, want 4", len(result.SentimentBreakdown))
	}
	for _, row := range result.SentimentBreakdown {
		if row.CommentCount != 0 {
			t.Errorf("category %s count = %d, want 0", row.CategoryName, row.CommentCount)
		}
		if !strings.HasPrefix(row.SummaryText, "No ") {
			t.Errorf("category %s summary = %q, want a no-comments fallback", row.CategoryName, row.SummaryText)
		}
	}
	if analysisStore.created != 1 {
		t.Errorf("analysis persisted %d times, want 1", analysisStore.created)
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	provider := &fakeProvider{detailsErr: errors.New("quota exceeded")}
	svc := newTestService(provider, &fakeClassifier{}, &fakeSummarizer{}, &fakeVideoStore{}, &fakeAnalysisStore{})

	_, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "user-1")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestAnalyzeClassifierFailure(t *testing.T) {
	provider := &fakeProvider{
		details:  &models.VideoDetails{VideoID: "dQw4w9WgXcQ", Title: "Test Video"},
		comments: []models.RawComment{{ID: "c1", Text: "hello", PublishedAt: day("2026-01-01")}},
	}
	videoStore := &fakeVideoStore{}
	analysisStore := &fakeAnalysisStore{}

	svc := newTestService(provider, &fakeClassifier{err: errors.New("model overloaded")}, &fakeSummarizer{}, videoStore, analysisStore)

	_, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "user-1")
	if !errors.Is(err, ErrClassificationFailed) {
		t.Fatalf("error = %v, want ErrClassificationFailed", err)
	}

	// Raw data persisted before the AI stage survives the failure.
	if videoStore.videoUpserts != 1 {
		t.Errorf("video upserted %d times, want 1", videoStore.videoUpserts)
	}
	if len(videoStore.savedComments) != 1 {
		t.Errorf("saved %d comments, want 1", len(videoStore.savedComments))
	}
	if analysisStore.created != 0 {
		t.Errorf("analysis persisted %d times, want 0", analysisStore.created)
	}
}

func TestAnalyzeVideoUpsertFailureAborts(t *testing.T) {
	provider := &fakeProvider{
		details:  &models.VideoDetails{VideoID: "dQw4w9WgXcQ", Title: "Test Video"},
		comments: []models.RawComment{{ID: "c1", Text: "hello", PublishedAt: day("2026-01-01")}},
	}
	classifier := &fakeClassifier{}

	svc := newTestService(provider, classifier, &fakeSummarizer{}, &fakeVideoStore{upsertVideoErr: errors.New("db down")}, &fakeAnalysisStore{})

	_, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "user-1")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("error = %v, want ErrStorage", err)
	}
	if classifier.calls != 0 {
		t.Errorf("classifier called %d times after storage failure", classifier.calls)
	}
}

func TestAnalyzeCommentUpsertFailureTolerated(t *testing.T) {
	provider := &fakeProvider{
		details:  &models.VideoDetails{VideoID: "dQw4w9WgXcQ", Title: "Test Video"},
		comments: []models.RawComment{{ID: "c1", Text: "hello", PublishedAt: day("2026-01-01")}},
	}
	classifier := &fakeClassifier{results: []llm.Classification{{ID: "c1", Category: models.CategoryNeutral}}}

	svc := newTestService(provider, classifier, &fakeSummarizer{}, &fakeVideoStore{upsertCommentsErr: errors.New("dup key")}, &fakeAnalysisStore{})

	result, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "user-1")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if result.TotalCommentsAnalyzed != 1 {
		t.Errorf("TotalCommentsAnalyzed = %d, want 1", result.TotalCommentsAnalyzed)
	}
}

func TestAnalyzeSummarizerFailureDegrades(t *testing.T) {
	provider := &fakeProvider{
		details:  &models.VideoDetails{VideoID: "dQw4w9WgXcQ", Title: "Test Video"},
		comments: []models.RawComment{{ID: "c1", Text: "great", PublishedAt: day("2026-01-01")}},
	}
	classifier := &fakeClassifier{results: []llm.Classification{{ID: "c1", Category: models.CategoryPositive}}}
	analysisStore := &fakeAnalysisStore{}

	svc := newTestService(provider, classifier, &fakeSummarizer{err: errors.New("timeout")}, &fakeVideoStore{}, analysisStore)

	result, err := svc.Analyze(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "user-1")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	var positive *models.CategorySummary
	for i := range result.SentimentBreakdown {
		if result.SentimentBreakdown[i].CategoryName == models.CategoryPositive {
			positive = &result.SentimentBreakdown[i]
		}
	}
	if positive == nil {
		t.Fatal("positive category missing from breakdown")
	}
	if positive.SummaryText != "Could not generate summary for positive comments." {
		t.Errorf("fallback summary = %q", positive.SummaryText)
	}
	if analysisStore.created != 1 {
		t.Errorf("analysis persisted %d times, want 1", analysisStore.created)
	}
}

func TestGroupByCategory(t *testing.T) {
	inputs := []llm.CommentInput{
		{ID: "c1", Text: "one"},
		{ID: "c2", Text: "two"},
		{ID: "c3", Text: "three"},
	}
	classifications := []llm.Classification{
		{ID: "c1", Category: models.CategoryPositive},
		{ID: "c2", Category: "Enthusiastic"}, // unknown, coerced to Neutral
		{ID: "c3", Category: models.CategoryToxic},
		{ID: "ghost", Category: models.CategoryPositive}, // not in batch, ignored
	}

	texts, counts := groupByCategory(classifications, inputs)

	if counts[models.CategoryPositive] != 1 || counts[models.CategoryNeutral] != 1 || counts[models.CategoryToxic] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if counts[models.CategoryCritical] != 0 {
		t.Errorf("critical count = %d, want 0", counts[models.CategoryCritical])
	}
	if len(texts[models.CategoryNeutral]) != 1 || texts[models.CategoryNeutral][0] != "two" {
		t.Errorf("neutral texts = %v", texts[models.CategoryNeutral])
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total != 3 {
		t.Errorf("grouped total = %d, want 3", total)
	}
}

func TestPrepareClassificationInput(t *testing.T) {
	comments := []models.RawComment{
		{ID: "c1", Text: "keep"},
		{ID: "", Text: "no id"},
		{ID: "c3", Text: ""},
	}
	inputs := prepareClassificationInput(comments)
	if len(inputs) != 1 || inputs[0].ID != "c1" {
		t.Errorf("inputs = %v, want only c1", inputs)
	}
}
