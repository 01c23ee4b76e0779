package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/sources"
)

func newJobsHandler(t *testing.T) (*JobsHandler, interfaces.StorageManager) {
	t.Helper()
	storage := newTestStorage(t)
	registry := sources.NewRegistry(common.NewDefaultConfig(), common.GetLogger())
	return NewJobsHandler(storage, registry, common.GetLogger()), storage
}

func TestJobsListPagination(t *testing.T) {
	h, storage := newJobsHandler(t)
	for i := 0; i < 30; i++ {
		saveTestJob(t, storage, "RemoteOK", fmt.Sprintf("https://x/%d", i), fmt.Sprintf("Engineer %02d", i))
	}

	code, body := doJSON(t, h.ListHandler, "GET", "/api/jobs", nil)
	require.Equal(t, http.StatusOK, code)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(25), pagination["per_page"])
	assert.Equal(t, float64(30), pagination["total"])
	assert.Equal(t, float64(2), pagination["total_pages"])
	assert.Len(t, body["jobs"].([]interface{}), 25)

	code, body = doJSON(t, h.ListHandler, "GET", "/api/jobs?page=2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["jobs"].([]interface{}), 5)

	// Page past the end clamps to the last page
	code, body = doJSON(t, h.ListHandler, "GET", "/api/jobs?page=9", nil)
	require.Equal(t, http.StatusOK, code)
	pagination = body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
}

func TestJobsListEmpty(t *testing.T) {
	h, _ := newJobsHandler(t)

	code, body := doJSON(t, h.ListHandler, "GET", "/api/jobs", nil)
	require.Equal(t, http.StatusOK, code)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(0), pagination["total"])
	assert.Equal(t, float64(1), pagination["total_pages"])
	assert.Len(t, body["jobs"].([]interface{}), 0)
}

func TestJobGetAndMissing(t *testing.T) {
	h, storage := newJobsHandler(t)
	jobID := saveTestJob(t, storage, "Remotive", "https://x/1", "Go Engineer")

	code, body := doJSON(t, h.GetHandler, "GET", "/api/jobs/"+jobID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Go Engineer", body["title"])

	code, body = doJSON(t, h.GetHandler, "GET", "/api/jobs/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Job not found", body["error"])
}

func TestJobStatuses(t *testing.T) {
	h, storage := newJobsHandler(t)
	jobID := saveTestJob(t, storage, "Jobicy", "https://x/1", "SRE")
	_, err := storage.TriageStorage().AddFavourite(jobID)
	require.NoError(t, err)

	code, body := doJSON(t, h.StatusesHandler, "POST", "/api/jobs/statuses",
		map[string]interface{}{"job_ids": []string{jobID}})
	require.Equal(t, http.StatusOK, code)
	status := body[jobID].(map[string]interface{})
	assert.Equal(t, true, status["is_favourite"])
	assert.Equal(t, false, status["is_applied"])
}

func TestSourcesListing(t *testing.T) {
	h, _ := newJobsHandler(t)

	rec := httptest.NewRecorder()
	h.SourcesHandler(rec, httptest.NewRequest("GET", "/api/sources", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requires_key"`)
	assert.Contains(t, rec.Body.String(), "RemoteOK")
}

func TestRegionsListing(t *testing.T) {
	h, _ := newJobsHandler(t)

	code, body := doJSON(t, h.RegionsHandler, "GET", "/api/regions", nil)
	require.Equal(t, http.StatusOK, code)
	regions := body["regions"].([]interface{})
	assert.NotEmpty(t, regions)
}

func TestExportCSV(t *testing.T) {
	h, storage := newJobsHandler(t)
	saveTestJob(t, storage, "RemoteOK", "https://x/1", "Go Engineer")

	rec := httptest.NewRecorder()
	h.ExportHandler(rec, httptest.NewRequest("GET", "/api/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=jobs_export.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "Go Engineer")
}
