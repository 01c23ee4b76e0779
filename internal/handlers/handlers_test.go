package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
	"github.com/ternarybob/venari/internal/storage/sqlite"
)

func newTestStorage(t *testing.T) interfaces.StorageManager {
	t.Helper()
	cfg := &common.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	mgr, err := sqlite.NewManager(common.GetLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

// doJSON runs one request against a handler func and decodes the JSON
// response into a map
func doJSON(t *testing.T, handler http.HandlerFunc, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func saveTestJob(t *testing.T, storage interfaces.StorageManager, source, url, title string) string {
	t.Helper()
	job := &models.Job{
		Title:       title,
		Company:     "Acme",
		Location:    "London, UK",
		Description: "Build things in Go",
		URL:         url,
		Source:      source,
		Remote:      models.RemoteYes,
	}
	job.Normalize()
	_, err := storage.JobStorage().SaveJobs([]*models.Job{job})
	require.NoError(t, err)
	return job.JobID
}
