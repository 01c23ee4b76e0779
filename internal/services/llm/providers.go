package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
)

const (
	openAIBaseURL = "https://api.openai.com"

	// owuiPrefix routes a model through the Open WebUI gateway instead
	// of guessing the provider from its name
	owuiPrefix = "owui:"

	analysisTemperature = 0.1
)

// providerPrefixes maps model name prefixes to their provider. Checked
// in order; anything unmatched goes to the local Ollama instance.
var providerPrefixes = []struct {
	prefix   string
	provider string
}{
	{"gpt-", "openai"},
	{"o1", "openai"},
	{"o3", "openai"},
	{"chatgpt-", "openai"},
	{"claude-", "anthropic"},
	{"gemini-", "google"},
}

// Client routes analysis requests to the provider a model name implies
type Client struct {
	config *common.LLMConfig
	http   *http.Client
	retry  *RetryConfig
	logger arbor.ILogger

	// Overridable for tests
	openaiBase string
}

func NewClient(config *common.LLMConfig, logger arbor.ILogger) *Client {
	return &Client{
		config:     config,
		http:       &http.Client{Timeout: config.Timeout},
		retry:      NewDefaultRetryConfig(),
		logger:     logger,
		openaiBase: openAIBaseURL,
	}
}

// DetectProvider resolves a model name to its provider identifier
func DetectProvider(model string) string {
	if strings.HasPrefix(model, owuiPrefix) {
		return "open_webui"
	}
	lower := strings.ToLower(model)
	for _, entry := range providerPrefixes {
		if strings.HasPrefix(lower, entry.prefix) {
			return entry.provider
		}
	}
	return "ollama"
}

// Call sends the messages to whichever provider the model name routes
// to and returns the raw response text.
func (c *Client) Call(ctx context.Context, model string, messages []Message) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	provider := DetectProvider(model)
	c.logger.Info().Str("provider", provider).Str("model", model).Msg("Calling model")

	switch provider {
	case "open_webui":
		return c.callOpenWebUI(ctx, strings.TrimPrefix(model, owuiPrefix), messages)
	case "openai":
		return c.callOpenAI(ctx, model, messages)
	case "anthropic":
		return c.callAnthropic(ctx, model, messages)
	case "google":
		return c.callGoogle(ctx, model, messages)
	default:
		return c.callOllama(ctx, model, messages)
	}
}

func (c *Client) postJSON(ctx context.Context, url string, headers map[string]string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d from %s: %s", resp.StatusCode, url, truncate(string(data), 300))
	}
	return json.Unmarshal(data, out)
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// callOllama talks to the local Ollama instance
func (c *Client) callOllama(ctx context.Context, model string, messages []Message) (string, error) {
	payload := map[string]interface{}{
		"model":    model,
		"messages": messages,
		"stream":   false,
		"options":  map[string]interface{}{"temperature": analysisTemperature},
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Error string `json:"error"`
	}
	url := strings.TrimRight(c.config.Ollama.BaseURL, "/") + "/api/chat"
	if err := c.postJSON(ctx, url, nil, payload, &result); err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama: %s", result.Error)
	}
	return result.Message.Content, nil
}

// openAIResponse is the chat-completions shape shared by OpenAI and
// Open WebUI
type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) callOpenAI(ctx context.Context, model string, messages []Message) (string, error) {
	if c.config.OpenAI.APIKey == "" {
		return "", fmt.Errorf("OpenAI API key is not configured (set llm.openai.api_key or OPENAI_API_KEY)")
	}

	payload := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"temperature": analysisTemperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.config.OpenAI.APIKey}

	var result openAIResponse
	if err := c.postJSON(ctx, c.openaiBase+"/v1/chat/completions", headers, payload, &result); err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("openai: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return result.Choices[0].Message.Content, nil
}

// callOpenWebUI routes through an Open WebUI gateway, which exposes an
// OpenAI-compatible endpoint but rejects standalone system messages for
// some backends, so the system prompt is folded into the first user
// message.
func (c *Client) callOpenWebUI(ctx context.Context, model string, messages []Message) (string, error) {
	if c.config.OpenWebUI.BaseURL == "" {
		return "", fmt.Errorf("Open WebUI base URL is not configured (set llm.open_webui.base_url)")
	}

	payload := map[string]interface{}{
		"model":       model,
		"messages":    owuiNormaliseMessages(messages),
		"temperature": analysisTemperature,
		"stream":      false,
	}
	headers := map[string]string{}
	if c.config.OpenWebUI.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.config.OpenWebUI.APIKey
	}

	var result openAIResponse
	url := strings.TrimRight(c.config.OpenWebUI.BaseURL, "/") + "/api/chat/completions"
	if err := c.postJSON(ctx, url, headers, payload, &result); err != nil {
		return "", fmt.Errorf("open webui: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("open webui: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("open webui: empty response")
	}
	return result.Choices[0].Message.Content, nil
}

// owuiNormaliseMessages merges system messages into the first user turn
func owuiNormaliseMessages(messages []Message) []Message {
	var system []string
	var rest []Message
	for _, message := range messages {
		if message.Role == "system" {
			system = append(system, message.Content)
			continue
		}
		rest = append(rest, message)
	}
	if len(system) == 0 {
		return rest
	}
	prefix := strings.Join(system, "\n\n")
	for i, message := range rest {
		if message.Role == "user" {
			rest[i].Content = prefix + "\n\n" + message.Content
			return rest
		}
	}
	return append([]Message{{Role: "user", Content: prefix}}, rest...)
}

// splitSystem separates system text from conversational turns for
// providers that take the system instruction out of band.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	var rest []Message
	for _, message := range messages {
		if message.Role == "system" {
			system = append(system, message.Content)
			continue
		}
		rest = append(rest, message)
	}
	return strings.Join(system, "\n\n"), rest
}
