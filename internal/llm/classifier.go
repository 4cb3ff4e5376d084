package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tubeinsight/internal/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// CommentInput is one (id, text) pair submitted for classification.
type CommentInput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Classification is the per-comment label returned by the provider.
type Classification struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// ClassifyBatch classifies all comments in a single provider call. An empty
// batch short-circuits without calling the provider. Categories outside the
// known set are coerced to Neutral and logged, not treated as fatal.
func (c *Client) ClassifyBatch(ctx context.Context, comments []CommentInput) ([]Classification, error) {
	if len(comments) == 0 {
		c.logger.Info("No comments provided for sentiment classification")
		return []Classification{}, nil
	}

	payload, err := json.Marshal(comments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode comments for classification: %w", err)
	}

	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(classificationInstruction)},
	}
	model.ResponseMIMEType = "application/json"
	model.GenerationConfig = genai.GenerationConfig{
		// Low temperature for consistent classification
		Temperature: genai.Ptr[float32](0.2),
	}

	prompt := fmt.Sprintf("Please classify the sentiment of the following comments:\n%s", payload)

	c.logger.Info("Sending comments for sentiment classification",
		zap.Int("count", len(comments)),
		zap.String("model", c.modelName))

	text, err := c.generate(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	results, err := parseClassifications(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	for i, result := range results {
		if !models.IsValidCategory(result.Category) {
			c.logger.Warn("Provider returned unexpected category, defaulting to Neutral",
				zap.String("category", result.Category),
				zap.String("comment_id", result.ID))
			results[i].Category = models.CategoryNeutral
		}
	}

	c.logger.Info("Successfully classified comments", zap.Int("count", len(results)))
	return results, nil
}

// parseClassifications decodes the provider response. The model is asked for
// a bare JSON array but sometimes wraps it in an object under "result" or
// "classifications", and may fence the JSON in markdown.
func parseClassifications(raw string) ([]Classification, error) {
	clean := stripCodeFences(raw)

	var results []Classification
	if err := json.Unmarshal([]byte(clean), &results); err == nil {
		return results, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &wrapper); err != nil {
		return nil, fmt.Errorf("response is neither a JSON array nor an object: %w", err)
	}

	for _, key := range []string{"result", "classifications"} {
		if inner, ok := wrapper[key]; ok {
			if err := json.Unmarshal(inner, &results); err != nil {
				return nil, fmt.Errorf("field %q is not a classification list: %w", key, err)
			}
			return results, nil
		}
	}

	return nil, fmt.Errorf("no classification list found in response")
}

// stripCodeFences removes markdown code fences the model occasionally wraps
// around JSON output.
func stripCodeFences(s string) string {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
