package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/search"
)

// SearchHandler exposes the search orchestrator: start, poll, cancel
type SearchHandler struct {
	manager    *search.Manager
	validate   *validator.Validate
	defaultMax int
	logger     arbor.ILogger
}

func NewSearchHandler(manager *search.Manager, defaultMaxResults int, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		manager:    manager,
		validate:   validator.New(),
		defaultMax: defaultMaxResults,
		logger:     logger,
	}
}

// searchPayload tolerates the loose types the search form sends:
// keywords as a comma string or list, numbers as strings.
type searchPayload struct {
	Keywords            interface{} `json:"keywords"`
	Location            string      `json:"location"`
	Remote              string      `json:"remote"`
	JobType             string      `json:"job_type"`
	SalaryMin           interface{} `json:"salary_min"`
	ExperienceLevel     string      `json:"experience_level"`
	Sources             []string    `json:"sources"`
	MaxResultsPerSource int         `json:"max_results_per_source"`
	PostedInLastDays    interface{} `json:"posted_in_last_days"`
}

// searchConstraints is the validated view of a payload
type searchConstraints struct {
	Remote              string `validate:"omitempty,oneof=Any Remote On-site Hybrid"`
	MaxResultsPerSource int    `validate:"gte=0,lte=5000"`
	PostedInLastDays    int    `validate:"gte=0"`
}

// StartHandler kicks off a background search and returns its task ID
func (h *SearchHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var payload searchPayload
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	keywords := parseKeywords(payload.Keywords)
	if len(keywords) == 0 {
		// Empty keywords mean "search everything": API sources still
		// need a term, so use a broad fallback
		keywords = []string{"job"}
	}

	remote := payload.Remote
	if remote == "" {
		remote = "Any"
	}
	maxResults := payload.MaxResultsPerSource
	if maxResults <= 0 {
		maxResults = h.defaultMax
	}
	posted := parseLooseInt(payload.PostedInLastDays)
	if posted < 0 {
		posted = 0
	}

	constraints := searchConstraints{
		Remote:              remote,
		MaxResultsPerSource: maxResults,
		PostedInLastDays:    posted,
	}
	if err := h.validate.Struct(constraints); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid search request: %v", err))
		return
	}

	req := search.Request{
		Keywords:            keywords,
		Location:            payload.Location,
		Remote:              remote,
		JobType:             payload.JobType,
		SalaryMin:           parseLooseFloat(payload.SalaryMin),
		ExperienceLevel:     payload.ExperienceLevel,
		Sources:             payload.Sources,
		MaxResultsPerSource: maxResults,
		PostedInLastDays:    posted,
	}

	taskID := h.manager.StartSearch(req)

	sourceCount := "all"
	if len(req.Sources) > 0 {
		sourceCount = strconv.Itoa(len(req.Sources))
	}
	h.logger.Info().
		Str("task_id", taskID).
		Str("keywords", strings.Join(keywords, ", ")).
		Str("location", req.Location).
		Str("remote", remote).
		Str("sources", sourceCount).
		Int("max", maxResults).
		Msg("Search started")

	WriteJSON(w, http.StatusOK, map[string]string{"task_id": taskID, "status": "started"})
}

// StatusHandler reports progress for one task
func (h *SearchHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	taskID := strings.TrimPrefix(r.URL.Path, "/api/search/")
	task, ok := h.manager.GetTask(taskID)
	if !ok {
		WriteError(w, http.StatusNotFound, "Task not found")
		return
	}
	WriteJSON(w, http.StatusOK, task.Snapshot())
}

// CancelHandler requests cancellation of a running search
func (h *SearchHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	taskID := strings.TrimPrefix(r.URL.Path, "/api/search/")
	taskID = strings.TrimSuffix(taskID, "/cancel")
	if !h.manager.CancelSearch(taskID) {
		WriteError(w, http.StatusBadRequest, "Task not found or not running")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "cancellation requested"})
}

func parseKeywords(value interface{}) []string {
	switch v := value.(type) {
	case string:
		var keywords []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				keywords = append(keywords, part)
			}
		}
		return keywords
	case []interface{}:
		var keywords []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				keywords = append(keywords, strings.TrimSpace(s))
			}
		}
		return keywords
	}
	return nil
}

func parseLooseFloat(value interface{}) *float64 {
	switch v := value.(type) {
	case float64:
		if v > 0 {
			return &v
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
			return &f
		}
	}
	return nil
}

func parseLooseInt(value interface{}) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}
