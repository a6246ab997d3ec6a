// Package capture extracts knowledge graph facts from conversation
// text using Claude.
package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ajitpratap0/openclaw-kg/internal/models"
	"github.com/ajitpratap0/openclaw-kg/pkg/xmlutil"
)

// minConfidence filters out low-confidence extractions before they
// reach the fact engine.
const minConfidence = 0.5

// Capturer extracts categorized facts about one entity from a
// conversation turn.
type Capturer interface {
	Extract(ctx context.Context, entityName, userMsg, assistantMsg string) ([]models.CapturedFact, error)
}

// ClaudeCapturer uses Claude Haiku to extract facts.
type ClaudeCapturer struct {
	client *anthropic.Client
	model  string
	logger *slog.Logger
}

// NewCapturer creates a new Claude-based fact capturer.
func NewCapturer(apiKey, model string, logger *slog.Logger) *ClaudeCapturer {
	if logger == nil {
		logger = slog.Default()
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ClaudeCapturer{
		client: &client,
		model:  model,
		logger: logger,
	}
}

// extractionPromptTemplate is the base prompt; entity name and
// conversation content are injected via XML tags to prevent prompt
// injection.
const extractionPromptTemplate = `You are a fact extraction system for a personal knowledge graph. Analyze the conversation and extract atomic facts about the named entity.

For each fact, provide:
- text: The fact as one concise, standalone sentence (max 500 characters)
- category: One of "role", "activity", "relationship", "status", "preference", "belief", "skill", "milestone", "note"
- confidence: 0.0-1.0 how confident you are this is a durable fact worth recording

Only extract facts that are about the entity itself. Return a JSON array. If no facts worth extracting, return [].

<entity>%s</entity>

<user_message>%s</user_message>

<assistant_message>%s</assistant_message>

Extract facts as JSON array:`

type extractionResponse struct {
	Facts []models.CapturedFact `json:"facts"`
}

// Extract proposes facts about entityName found in the conversation
// turn. Results are confidence-filtered; unknown categories default to
// note.
func (c *ClaudeCapturer) Extract(ctx context.Context, entityName, userMsg, assistantMsg string) ([]models.CapturedFact, error) {
	prompt := fmt.Sprintf(extractionPromptTemplate,
		xmlutil.Escape(entityName), xmlutil.Escape(userMsg), xmlutil.Escape(assistantMsg))

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
		System: []anthropic.TextBlockParam{
			{Text: "You are a precise fact extraction system. Output only valid JSON."},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}

	var responseText string
	for i := range resp.Content {
		if resp.Content[i].Type == "text" {
			responseText = resp.Content[i].Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("empty response from Claude")
	}

	c.logger.Debug("claude extraction response", "response", responseText)

	// Try to parse as array directly, then the wrapped format.
	var facts []models.CapturedFact
	if err := json.Unmarshal([]byte(responseText), &facts); err != nil {
		var wrapped extractionResponse
		if err2 := json.Unmarshal([]byte(responseText), &wrapped); err2 != nil {
			return nil, fmt.Errorf("parsing extraction response: %w (raw: %s)", err, responseText)
		}
		facts = wrapped.Facts
	}

	var filtered []models.CapturedFact
	for _, f := range facts {
		if f.Confidence < minConfidence {
			continue
		}
		if !f.Category.IsValid() {
			c.logger.Warn("capture: unknown fact category, defaulting to note",
				"category", f.Category, "text", f.Text)
			f.Category = models.CategoryNote
		}
		filtered = append(filtered, f)
	}

	c.logger.Info("extracted facts", "total", len(facts), "filtered", len(filtered))
	return filtered, nil
}
