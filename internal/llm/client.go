package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// UsageRecorder receives token accounting for every provider call. Recording
// failures must never fail the call that produced the usage.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, apiType string, tokensUsed int64, costEstimate float64)
}

// Client wraps the Gemini API for sentiment classification and category
// summarization.
type Client struct {
	client    *genai.Client
	logger    *zap.Logger
	modelName string
	usage     UsageRecorder
}

// Config for the Gemini client.
type Config struct {
	APIKey    string
	ModelName string // Default: "gemini-2.0-flash-exp"
}

// NewClient creates a new Gemini client. usage may be nil.
func NewClient(ctx context.Context, cfg Config, usage UsageRecorder, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-2.0-flash-exp"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info("Gemini client initialized", zap.String("model", cfg.ModelName))

	return &Client{
		client:    client,
		logger:    logger,
		modelName: cfg.ModelName,
		usage:     usage,
	}, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// generate issues one GenerateContent call and returns the first text part.
// No retries: a failed call fails the caller's pipeline stage.
func (c *Client) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}

	c.recordUsage(ctx, resp)

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from gemini")
	}

	return string(textPart), nil
}

func (c *Client) recordUsage(ctx context.Context, resp *genai.GenerateContentResponse) {
	if c.usage == nil || resp == nil || resp.UsageMetadata == nil {
		return
	}
	c.usage.RecordUsage(ctx, "gemini", int64(resp.UsageMetadata.TotalTokenCount), 0)
}
