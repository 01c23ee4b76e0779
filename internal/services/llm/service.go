package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/models"
)

// ProviderError wraps a failure talking to the model backend
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// ExtractError means the model responded but no JSON object could be
// recovered from the text.
type ExtractError struct {
	Raw string
	Err error
}

func (e *ExtractError) Error() string { return e.Err.Error() }
func (e *ExtractError) Unwrap() error { return e.Err }

// Preview returns the start of the raw response, flattened to one line,
// for error payloads.
func (e *ExtractError) Preview() string { return previewText(e.Raw) }

func previewText(raw string) string {
	flat := strings.Join(strings.Fields(raw), " ")
	if len(flat) > 300 {
		flat = flat[:300]
	}
	return flat
}

// ValidateError means the model returned JSON that does not conform to
// the analysis schema.
type ValidateError struct {
	Raw      string
	Problems []string
}

func (e *ValidateError) Error() string { return strings.Join(e.Problems, "; ") }

// Preview returns the start of the raw response, flattened to one line
func (e *ValidateError) Preview() string { return previewText(e.Raw) }

// Result is one completed, validated analysis
type Result struct {
	Analysis       map[string]interface{}
	Document       string // Analysis serialised for storage
	MatchScore     int
	Recommendation string
	JobSummary     string
}

// Service runs the analysis pipeline: build the prompt, call the model,
// recover the JSON, validate it.
type Service struct {
	client *Client
	audit  *AuditWriter
	logger arbor.ILogger
}

func NewService(config *common.LLMConfig, logger arbor.ILogger) *Service {
	return &Service{
		client: NewClient(config, logger),
		audit:  NewAuditWriter(config.RequestLog, config.ResponseLog, logger),
		logger: logger,
	}
}

// Models returns the model catalog for the picker UI
func (s *Service) Models(ctx context.Context) *ModelCatalog {
	return s.client.ListModels(ctx)
}

// Analyse runs one job through the prompt's configured model. Every
// request and response is appended to the audit logs before any
// parsing, so malformed model output is never lost.
func (s *Service) Analyse(ctx context.Context, job map[string]interface{}, prompt *models.Prompt) (*Result, error) {
	jobLabel := fmt.Sprintf("%s at %s (%s)",
		jobString(job, "title"), jobString(job, "company"), jobString(job, "job_id"))

	messages := buildAnalysisMessages(prompt, job)
	s.audit.LogRequest(jobLabel, prompt.ID, prompt.Title, prompt.Model, messages)

	raw, err := s.client.Call(ctx, prompt.Model, messages)
	if err != nil {
		s.logger.Error().Err(err).Str("job", jobLabel).Str("model", prompt.Model).Msg("Model call failed")
		return nil, &ProviderError{Err: err}
	}
	s.audit.LogResponse(jobLabel, prompt.ID, prompt.Title, prompt.Model, raw)

	analysis, err := ExtractJSON(raw)
	if err != nil {
		return nil, &ExtractError{Raw: raw, Err: err}
	}

	if problems := ValidateAnalysis(analysis); len(problems) > 0 {
		return nil, &ValidateError{Raw: raw, Problems: problems}
	}

	document, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to serialise analysis: %w", err)
	}

	score, _ := analysis["match_score"].(int)
	recommendation, _ := analysis["recommendation"].(string)
	summary, _ := analysis["job_description"].(string)

	s.logger.Info().
		Str("job", jobLabel).
		Str("model", prompt.Model).
		Int("match_score", score).
		Str("recommendation", recommendation).
		Msg("Analysis completed")

	return &Result{
		Analysis:       analysis,
		Document:       string(document),
		MatchScore:     score,
		Recommendation: recommendation,
		JobSummary:     summary,
	}, nil
}
