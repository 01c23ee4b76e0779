package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
	"github.com/ternarybob/venari/internal/services/llm"
)

const maxAnalysisPageSize = 200

// AnalysisService is the slice of the LLM service the handlers use
type AnalysisService interface {
	Models(ctx context.Context) *llm.ModelCatalog
	Analyse(ctx context.Context, job map[string]interface{}, prompt *models.Prompt) (*llm.Result, error)
}

// AnalysisHandler runs analyses and serves their results and the model
// catalog.
type AnalysisHandler struct {
	storage interfaces.StorageManager
	service AnalysisService
	logger  arbor.ILogger
}

func NewAnalysisHandler(storage interfaces.StorageManager, service AnalysisService, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{storage: storage, service: service, logger: logger}
}

// ModelsHandler serves the model picker catalog. The top-level "models"
// key mirrors local_models for older clients.
func (h *AnalysisHandler) ModelsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	catalog := h.service.Models(r.Context())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"available":      catalog.Available,
		"local_models":   catalog.LocalModels,
		"owui_models":    catalog.OWUIModels,
		"owui_available": catalog.OWUIAvailable,
		"cloud_models":   catalog.CloudModels,
		"models":         catalog.LocalModels,
	})
}

// AnalyseHandler runs one job through one prompt's model and stores the
// validated result.
func (h *AnalysisHandler) AnalyseHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var payload struct {
		JobID    string `json:"job_id"`
		PromptID int64  `json:"prompt_id"`
	}
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(payload.JobID) == "" {
		WriteError(w, http.StatusBadRequest, "job_id is required")
		return
	}
	if payload.PromptID == 0 {
		WriteError(w, http.StatusBadRequest, "prompt_id is required")
		return
	}

	job, err := h.storage.JobStorage().GetJob(payload.JobID)
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	if job == nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Job not found: %s", payload.JobID))
		return
	}

	prompt, err := h.storage.PromptStorage().GetPrompt(payload.PromptID)
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	if prompt == nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("AI prompt not found: %d", payload.PromptID))
		return
	}
	if strings.TrimSpace(prompt.Model) == "" {
		WriteError(w, http.StatusBadRequest, "The selected AI prompt has no model configured")
		return
	}

	result, err := h.service.Analyse(r.Context(), job, prompt)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	analysisID, err := h.storage.AnalysisStorage().SaveAnalysis(payload.JobID, prompt.ID, prompt.Model, result.Document)
	if err != nil {
		WriteStorageError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "completed",
		"analysis_id":    analysisID,
		"match_score":    result.MatchScore,
		"recommendation": result.Recommendation,
		"job_summary":    result.JobSummary,
	})
}

// writeAnalysisError maps pipeline failures: backend failures are 502,
// unusable model output is 422.
func (h *AnalysisHandler) writeAnalysisError(w http.ResponseWriter, err error) {
	var providerErr *llm.ProviderError
	var extractErr *llm.ExtractError
	var validateErr *llm.ValidateError

	switch {
	case errors.As(err, &providerErr):
		WriteError(w, http.StatusBadGateway, providerErr.Error())
	case errors.As(err, &extractErr):
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":       "Model did not return valid JSON: " + extractErr.Error(),
			"raw_preview": extractErr.Preview(),
		})
	case errors.As(err, &validateErr):
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":             "Analysis response failed validation: " + validateErr.Error(),
			"validation_errors": validateErr.Problems,
			"raw_preview":       validateErr.Preview(),
		})
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// ListHandler serves the filtered analyses listing
func (h *AnalysisHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query()
	limit := QueryInt(r, "limit", 50)
	if limit > maxAnalysisPageSize {
		limit = maxAnalysisPageSize
	}
	opts := interfaces.AnalysisListOptions{
		Query:    query.Get("query"),
		MinScore: QueryInt(r, "min_score", 0),
		PromptID: int64(QueryInt(r, "prompt_id", 0)),
		Limit:    limit,
		Offset:   QueryInt(r, "offset", 0),
	}
	if raw := query.Get("recommendation"); raw != "" {
		for _, rec := range strings.Split(raw, ",") {
			if rec = strings.TrimSpace(rec); rec != "" {
				opts.Recommendations = append(opts.Recommendations, strings.ToLower(rec))
			}
		}
	}

	analyses, total, err := h.storage.AnalysisStorage().ListAnalyses(opts)
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": analyses,
		"total":    total,
		"offset":   opts.Offset,
		"limit":    opts.Limit,
	})
}

// JobAnalysesHandler serves all stored analyses for one job
func (h *AnalysisHandler) JobAnalysesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/ai-analyses/")
	analyses, err := h.storage.AnalysisStorage().GetAnalysesForJob(jobID)
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"analyses": analyses, "total": len(analyses)})
}
