package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
)

func newSavedSearchHandler(t *testing.T, board bool) *SavedSearchHandler {
	t.Helper()
	return NewSavedSearchHandler(newTestStorage(t), board, common.GetLogger())
}

func TestSavedSearchCRUD(t *testing.T) {
	h := newSavedSearchHandler(t, false)

	params := map[string]interface{}{"keywords": "golang, backend", "remote": "Remote"}
	code, body := doJSON(t, h.CollectionHandler, "POST", "/api/saved-searches",
		map[string]interface{}{"name": "Go remote", "params": params, "auto_run": true})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "created", body["status"])
	id := body["id"].(float64)
	assert.NotZero(t, id)

	code, body = doJSON(t, h.ItemHandler, "GET", "/api/saved-searches/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Go remote", body["name"])
	assert.Equal(t, true, body["auto_run"])
	// params round-trip as the object the client saved
	saved := body["params"].(map[string]interface{})
	assert.Equal(t, "golang, backend", saved["keywords"])

	code, body = doJSON(t, h.CollectionHandler, "GET", "/api/saved-searches", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])

	code, body = doJSON(t, h.ItemHandler, "PUT", "/api/saved-searches/1",
		map[string]interface{}{"name": "Go anywhere", "params": map[string]interface{}{"remote": "Any"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "updated", body["status"])

	code, body = doJSON(t, h.ItemHandler, "GET", "/api/saved-searches/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Go anywhere", body["name"])
	assert.Equal(t, false, body["auto_run"])

	code, body = doJSON(t, h.ItemHandler, "DELETE", "/api/saved-searches/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "deleted", body["status"])

	code, body = doJSON(t, h.ItemHandler, "GET", "/api/saved-searches/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Saved search not found", body["error"])
}

func TestSavedSearchNameRequired(t *testing.T) {
	h := newSavedSearchHandler(t, false)

	code, body := doJSON(t, h.CollectionHandler, "POST", "/api/saved-searches",
		map[string]interface{}{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Name is required", body["error"])
}

func TestSavedBoardSearchLabel(t *testing.T) {
	h := newSavedSearchHandler(t, true)

	code, body := doJSON(t, h.ItemHandler, "GET", "/api/saved-board-searches/7", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Saved board search not found", body["error"])
}
