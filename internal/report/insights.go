package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rohunvora/twitter-feedback/internal/store"
)

// htmlPrefill seeds the assistant turn so the model continues with the
// document body instead of prose around it.
const htmlPrefill = "<!DOCTYPE html>"

// Generator produces an HTML insights report via the Anthropic API.
type Generator struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// NewGenerator creates a Generator with the given API key and model.
func NewGenerator(apiKey, model string, maxTokens int64) *Generator {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &Generator{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate asks Claude for a complete HTML insights document covering the
// given tweets.
func (g *Generator) Generate(ctx context.Context, sourceURL string, tweets []store.Tweet) (string, error) {
	if len(tweets) == 0 {
		return "", fmt.Errorf("no tweets to report on")
	}

	prompt := BuildPrompt(sourceURL, tweets)

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			anthropic.NewAssistantMessage(anthropic.NewTextBlock(htmlPrefill)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return "", fmt.Errorf("Claude returned empty response")
	}

	// Prepend the prefill since the response continues from after it.
	return strings.TrimSpace(htmlPrefill + responseText), nil
}
