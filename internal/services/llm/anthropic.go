package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// callAnthropic generates an analysis through the Anthropic API, with
// backoff on rate limits.
func (c *Client) callAnthropic(ctx context.Context, model string, messages []Message) (string, error) {
	if c.config.Anthropic.APIKey == "" {
		return "", fmt.Errorf("Anthropic API key is not configured (set llm.anthropic.api_key or ANTHROPIC_API_KEY)")
	}

	client := anthropic.NewClient(option.WithAPIKey(c.config.Anthropic.APIKey))

	systemText, turns := splitSystem(messages)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(analysisTemperature),
	}
	for _, turn := range turns {
		block := anthropic.NewTextBlock(turn.Content)
		if turn.Role == "assistant" {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemText}}
	}

	var resp *anthropic.Message
	var apiErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		resp, apiErr = client.Messages.New(ctx, params)
		if apiErr == nil {
			break
		}
		if attempt == c.retry.MaxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * 2 * time.Second
		if IsRateLimitError(apiErr) {
			backoff = c.retry.CalculateBackoff(attempt, 0)
		}

		c.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Anthropic API call")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return "", fmt.Errorf("anthropic: %w", apiErr)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}
	return text.String(), nil
}
