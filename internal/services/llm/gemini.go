package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// callGoogle generates an analysis through the Gemini API. Rate limits
// there carry an API-suggested retry delay which takes precedence over
// the configured backoff.
func (c *Client) callGoogle(ctx context.Context, model string, messages []Message) (string, error) {
	if c.config.Google.APIKey == "" {
		return "", fmt.Errorf("Google API key is not configured (set llm.google.api_key or GOOGLE_AI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.config.Google.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("google: failed to create client: %w", err)
	}

	systemText, turns := splitSystem(messages)
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		var role genai.Role = genai.RoleUser
		if turn.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(analysisTemperature)),
	}
	if systemText != "" {
		config.SystemInstruction = genai.NewContentFromText(systemText, genai.RoleUser)
	}

	var resp *genai.GenerateContentResponse
	var apiErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		resp, apiErr = client.Models.GenerateContent(ctx, model, contents, config)
		if apiErr == nil {
			break
		}
		if attempt == c.retry.MaxRetries {
			break
		}

		var backoff time.Duration
		if IsRateLimitError(apiErr) {
			backoff = c.retry.CalculateBackoff(attempt, ExtractRetryDelay(apiErr))
		} else {
			backoff = time.Duration(attempt+1) * 2 * time.Second
		}

		c.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Err(apiErr).
			Msg("Retrying Gemini API call")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	if apiErr != nil {
		return "", fmt.Errorf("google: %w", apiErr)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("google: empty response")
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("google: empty text in response")
	}
	return text, nil
}
