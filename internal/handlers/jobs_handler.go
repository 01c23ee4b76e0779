package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/sources"
	"github.com/ternarybob/venari/internal/storage/sqlite"
)

// JobsHandler serves the saved-jobs surface: browse, detail, statuses,
// stats, sources, regions, CSV export.
type JobsHandler struct {
	storage  interfaces.StorageManager
	registry *sources.Registry
	logger   arbor.ILogger
}

func NewJobsHandler(storage interfaces.StorageManager, registry *sources.Registry, logger arbor.ILogger) *JobsHandler {
	return &JobsHandler{storage: storage, registry: registry, logger: logger}
}

// ListHandler queries saved jobs with filters and pagination
func (h *JobsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	q := r.URL.Query()
	posted := QueryInt(r, "posted_in_last_days", 0)
	if posted < 0 {
		posted = 0
	}

	includeNI := q.Get("include_not_interested")
	excludeNotInterested := includeNI != "1" && includeNI != "true" && includeNI != "yes"

	opts := interfaces.JobSearchOptions{
		Query:                q.Get("q"),
		Source:               q.Get("source"),
		Remote:               q.Get("remote"),
		JobType:              q.Get("job_type"),
		SalaryMin:            QueryFloat(r, "salary_min"),
		PostedInLastDays:     posted,
		SortBy:               q.Get("sort_by"),
		Ascending:            q.Get("order") == "asc",
		ExcludeNotInterested: excludeNotInterested,
		Region:               q.Get("region"),
	}
	if opts.SortBy == "" {
		opts.SortBy = "date_posted"
	}

	all, err := h.storage.JobStorage().Search(opts)
	if err != nil {
		WriteStorageError(w, err)
		return
	}

	page := QueryInt(r, "page", 1)
	perPage := QueryInt(r, "per_page", 25)
	if perPage < 1 {
		perPage = 25
	}

	total := len(all)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs": all[start:end],
		"pagination": map[string]interface{}{
			"page":        page,
			"per_page":    perPage,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// GetHandler returns one job with its triage status booleans
func (h *JobsHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	job, err := h.storage.JobStorage().GetJob(jobID)
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	if job == nil {
		WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// StatusesHandler bulk-checks triage status for a list of job IDs
func (h *JobsHandler) StatusesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var payload struct {
		JobIDs []string `json:"job_ids"`
	}
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	statuses, err := h.storage.JobStorage().GetJobStatuses(payload.JobIDs)
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, statuses)
}

// StatsHandler returns summary statistics
func (h *JobsHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	stats, err := h.storage.JobStorage().GetStats()
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// SourcesHandler lists every adapter with its availability
func (h *JobsHandler) SourcesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	info := make([]map[string]interface{}, 0)
	for _, source := range h.registry.All() {
		info = append(info, map[string]interface{}{
			"name":         source.Name(),
			"available":    source.Available(),
			"requires_key": source.RequiresAPIKey(),
			"free":         !source.RequiresAPIKey(),
		})
	}
	WriteJSON(w, http.StatusOK, info)
}

// RegionsHandler returns the region labels for the filter dropdown
func (h *JobsHandler) RegionsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"regions": sqlite.RegionLabels()})
}

// ExportHandler downloads every saved job as a CSV attachment
func (h *JobsHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	data, err := h.storage.JobStorage().ExportCSV()
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=jobs_export.csv")
	w.Write([]byte(data))
}
