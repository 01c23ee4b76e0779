package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/models"
	"github.com/ternarybob/venari/internal/services/llm"
)

type fakeAnalysisService struct {
	catalog *llm.ModelCatalog
	result  *llm.Result
	err     error
}

func (f *fakeAnalysisService) Models(ctx context.Context) *llm.ModelCatalog {
	return f.catalog
}

func (f *fakeAnalysisService) Analyse(ctx context.Context, job map[string]interface{}, prompt *models.Prompt) (*llm.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newAnalysisFixture(t *testing.T, service AnalysisService) (*AnalysisHandler, string, int64) {
	t.Helper()
	storage := newTestStorage(t)
	jobID := saveTestJob(t, storage, "RemoteOK", "https://x/1", "Go Engineer")
	prompt, err := storage.PromptStorage().CreatePrompt(&models.Prompt{
		Title: "Profile", Model: "llama3.2:3b", CV: "Go since 2015",
	})
	require.NoError(t, err)
	return NewAnalysisHandler(storage, service, common.GetLogger()), jobID, prompt.ID
}

func TestAnalyseEndpointCompletes(t *testing.T) {
	service := &fakeAnalysisService{result: &llm.Result{
		Document:       `{"match_score":8,"recommendation":"apply"}`,
		MatchScore:     8,
		Recommendation: "apply",
		JobSummary:     "Backend role at Acme",
	}}
	h, jobID, promptID := newAnalysisFixture(t, service)

	code, body := doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"job_id": jobID, "prompt_id": promptID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, float64(8), body["match_score"])
	assert.Equal(t, "apply", body["recommendation"])
	assert.Equal(t, "Backend role at Acme", body["job_summary"])
	assert.NotZero(t, body["analysis_id"])

	// Result was persisted
	code, body = doJSON(t, h.JobAnalysesHandler, "GET", "/api/ai-analyses/"+jobID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])
}

func TestAnalyseEndpointValidation(t *testing.T) {
	h, jobID, promptID := newAnalysisFixture(t, &fakeAnalysisService{})

	code, body := doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"prompt_id": promptID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "job_id is required", body["error"])

	code, body = doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"job_id": jobID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "prompt_id is required", body["error"])

	code, body = doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"job_id": "missing", "prompt_id": promptID})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Job not found: missing", body["error"])

	code, body = doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"job_id": jobID, "prompt_id": 999})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "AI prompt not found: 999", body["error"])
}

func TestAnalyseEndpointProviderFailure(t *testing.T) {
	service := &fakeAnalysisService{err: &llm.ProviderError{Err: errors.New("connection refused")}}
	h, jobID, promptID := newAnalysisFixture(t, service)

	code, body := doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"job_id": jobID, "prompt_id": promptID})
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "connection refused", body["error"])
}

func TestAnalyseEndpointUnparseableOutput(t *testing.T) {
	service := &fakeAnalysisService{err: &llm.ExtractError{
		Raw: "I think this\nlooks like a great fit!",
		Err: errors.New("no parseable JSON object in response"),
	}}
	h, jobID, promptID := newAnalysisFixture(t, service)

	code, body := doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"job_id": jobID, "prompt_id": promptID})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Model did not return valid JSON: no parseable JSON object in response", body["error"])
	assert.Equal(t, "I think this looks like a great fit!", body["raw_preview"])
}

func TestAnalyseEndpointInvalidAnalysis(t *testing.T) {
	service := &fakeAnalysisService{err: &llm.ValidateError{
		Raw:      `{"match_score": 42}`,
		Problems: []string{"match_score must be between 1 and 10, got 42", "missing field 'recommendation'"},
	}}
	h, jobID, promptID := newAnalysisFixture(t, service)

	code, body := doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"job_id": jobID, "prompt_id": promptID})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["error"], "Analysis response failed validation: ")
	assert.Len(t, body["validation_errors"].([]interface{}), 2)
	assert.Equal(t, `{"match_score": 42}`, body["raw_preview"])
}

func TestAnalysesListCapsLimit(t *testing.T) {
	storage := newTestStorage(t)
	h := NewAnalysisHandler(storage, &fakeAnalysisService{}, common.GetLogger())

	jobID := saveTestJob(t, storage, "RemoteOK", "https://x/1", "Go Engineer")
	prompt, err := storage.PromptStorage().CreatePrompt(&models.Prompt{Title: "P", Model: "m"})
	require.NoError(t, err)
	_, err = storage.AnalysisStorage().SaveAnalysis(jobID, prompt.ID, "m",
		`{"match_score":9,"recommendation":"apply"}`)
	require.NoError(t, err)

	code, body := doJSON(t, h.ListHandler, "GET", "/api/ai-analyses?limit=9999&min_score=5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(200), body["limit"])
	assert.Equal(t, float64(0), body["offset"])
	assert.Equal(t, float64(1), body["total"])
	assert.Len(t, body["analyses"].([]interface{}), 1)
}

func TestAnalysesListRecommendationFilter(t *testing.T) {
	storage := newTestStorage(t)
	h := NewAnalysisHandler(storage, &fakeAnalysisService{}, common.GetLogger())

	jobID := saveTestJob(t, storage, "RemoteOK", "https://x/1", "Go Engineer")
	prompt, err := storage.PromptStorage().CreatePrompt(&models.Prompt{Title: "P", Model: "m"})
	require.NoError(t, err)
	_, err = storage.AnalysisStorage().SaveAnalysis(jobID, prompt.ID, "m",
		`{"match_score":3,"recommendation":"skip"}`)
	require.NoError(t, err)

	code, body := doJSON(t, h.ListHandler, "GET", "/api/ai-analyses?recommendation=Apply,%20Maybe", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["total"])

	code, body = doJSON(t, h.ListHandler, "GET", "/api/ai-analyses?recommendation=skip", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])
}

func TestModelsEndpointShape(t *testing.T) {
	service := &fakeAnalysisService{catalog: &llm.ModelCatalog{
		Available:     true,
		LocalModels:   []string{"llama3.2:3b"},
		OWUIModels:    []llm.OWUIModel{{ID: "gpt-4o", Label: "GPT-4o"}},
		OWUIAvailable: true,
		CloudModels:   []llm.CloudModel{{ID: "claude-sonnet-4-5", Provider: "anthropic", HasKey: false}},
	}}
	h := NewAnalysisHandler(newTestStorage(t), service, common.GetLogger())

	code, body := doJSON(t, h.ModelsHandler, "GET", "/api/ollama/models", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, []interface{}{"llama3.2:3b"}, body["local_models"])
	assert.Equal(t, []interface{}{"llama3.2:3b"}, body["models"])
	assert.Equal(t, true, body["owui_available"])
	owui := body["owui_models"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "gpt-4o", owui["id"])
	cloud := body["cloud_models"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "anthropic", cloud["provider"])
	assert.Equal(t, false, cloud["has_key"])
}

func TestAnalyseEndpointNoModelConfigured(t *testing.T) {
	storage := newTestStorage(t)
	h := NewAnalysisHandler(storage, &fakeAnalysisService{}, common.GetLogger())
	jobID := saveTestJob(t, storage, "RemoteOK", "https://x/1", "Go Engineer")

	// Whitespace-only model, as left by older clients
	prompt, err := storage.PromptStorage().CreatePrompt(&models.Prompt{Title: "P", Model: " "})
	require.NoError(t, err)

	code, body := doJSON(t, h.AnalyseHandler, "POST", "/api/ai-analyse",
		map[string]interface{}{"job_id": jobID, "prompt_id": prompt.ID})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "The selected AI prompt has no model configured", body["error"])
}
