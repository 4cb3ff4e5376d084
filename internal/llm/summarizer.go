package llm

import (
	"context"
	"fmt"
	"strings"

	"tubeinsight/internal/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// maxTextsPerSummary caps how many comment texts go into one summarization
// prompt. Texts beyond the cap are omitted, not summarized.
const maxTextsPerSummary = 50

// SummarizeCategory generates one natural-language summary for all texts in a
// sentiment category. Exactly one provider call is issued per invocation; the
// caller is responsible for short-circuiting empty categories.
func (c *Client) SummarizeCategory(ctx context.Context, category string, texts []string) (string, error) {
	if len(texts) == 0 {
		return "", fmt.Errorf("no texts provided for category %s", category)
	}

	capped := texts
	if len(capped) > maxTextsPerSummary {
		capped = capped[:maxTextsPerSummary]
	}

	var block strings.Builder
	for _, text := range capped {
		fmt.Fprintf(&block, "- %q\n", text)
	}

	model := c.client.GenerativeModel(c.modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.5),
		MaxOutputTokens: genai.Ptr[int32](256),
	}

	var prompt string
	if category == models.CategoryToxic {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(toxicSummaryInstruction)},
		}
		prompt = fmt.Sprintf("Summarize the general themes from the following toxic comments:\n%s", block.String())
	} else {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(summaryInstruction(category))},
		}
		prompt = fmt.Sprintf("Here are the '%s' comments:\n%s\nPlease provide a summary:", category, block.String())
	}

	c.logger.Info("Sending comments for category summarization",
		zap.String("category", category),
		zap.Int("count", len(capped)),
		zap.String("model", c.modelName))

	text, err := c.generate(ctx, model, prompt)
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(text)
	if summary == "" {
		return "", fmt.Errorf("empty summary for category %s", category)
	}

	c.logger.Info("Successfully generated category summary", zap.String("category", category))
	return summary, nil
}
