package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
)

func TestNotesCRUDWithRenderedBody(t *testing.T) {
	h := NewNotesHandler(newTestStorage(t), common.GetLogger())

	code, body := doJSON(t, h.CollectionHandler, "POST", "/api/notes", map[string]interface{}{
		"title": "Interview prep",
		"body":  "Review **system design** basics",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "created", body["status"])

	code, body = doJSON(t, h.ItemHandler, "GET", "/api/notes/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Interview prep", body["title"])
	assert.Contains(t, body["body_html"], "<strong>system design</strong>")

	code, body = doJSON(t, h.CollectionHandler, "GET", "/api/notes", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])
	notes := body["notes"].([]interface{})
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].(map[string]interface{})["body_html"], "<strong>")

	code, body = doJSON(t, h.ItemHandler, "PUT", "/api/notes/1", map[string]interface{}{
		"title": "Prep", "body": "Updated",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "updated", body["status"])

	code, body = doJSON(t, h.ItemHandler, "DELETE", "/api/notes/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "deleted", body["status"])

	code, body = doJSON(t, h.ItemHandler, "GET", "/api/notes/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Note not found", body["error"])
}

func TestNoteTitleRequired(t *testing.T) {
	h := NewNotesHandler(newTestStorage(t), common.GetLogger())

	code, body := doJSON(t, h.CollectionHandler, "POST", "/api/notes",
		map[string]interface{}{"body": "orphan"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Title is required", body["error"])
}
