package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
)

func TestPromptsCRUDAndActivate(t *testing.T) {
	h := NewPromptsHandler(newTestStorage(t), common.GetLogger())

	code, body := doJSON(t, h.CollectionHandler, "POST", "/api/ai-prompts", map[string]interface{}{
		"title":    "  My profile ",
		"model":    "llama3.2:3b",
		"cv":       "Ten years of Go",
		"about_me": "Backend engineer",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "created", body["status"])

	code, _ = doJSON(t, h.CollectionHandler, "POST", "/api/ai-prompts", map[string]interface{}{
		"title": "Second", "model": "owui:gpt-4o",
	})
	require.Equal(t, http.StatusCreated, code)

	code, body = doJSON(t, h.ItemHandler, "GET", "/api/ai-prompts/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "My profile", body["title"])
	assert.Equal(t, "llama3.2:3b", body["model"])

	code, body = doJSON(t, h.CollectionHandler, "GET", "/api/ai-prompts", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["total"])

	code, body = doJSON(t, h.ItemHandler, "POST", "/api/ai-prompts/2/activate", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "activated", body["status"])

	// Activation is exclusive
	code, body = doJSON(t, h.ItemHandler, "GET", "/api/ai-prompts/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["is_active"])
	code, body = doJSON(t, h.ItemHandler, "GET", "/api/ai-prompts/2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["is_active"])

	code, body = doJSON(t, h.ItemHandler, "PUT", "/api/ai-prompts/1", map[string]interface{}{
		"title": "Renamed", "model": "claude-sonnet-4-5",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "updated", body["status"])

	code, body = doJSON(t, h.ItemHandler, "DELETE", "/api/ai-prompts/1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "deleted", body["status"])

	code, body = doJSON(t, h.ItemHandler, "GET", "/api/ai-prompts/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "AI prompt not found", body["error"])
}

func TestPromptValidation(t *testing.T) {
	h := NewPromptsHandler(newTestStorage(t), common.GetLogger())

	code, body := doJSON(t, h.CollectionHandler, "POST", "/api/ai-prompts",
		map[string]interface{}{"model": "llama3.2:3b"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Title is required", body["error"])

	code, body = doJSON(t, h.CollectionHandler, "POST", "/api/ai-prompts",
		map[string]interface{}{"title": "Profile"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Model is required", body["error"])
}

func TestPromptActivateMissing(t *testing.T) {
	h := NewPromptsHandler(newTestStorage(t), common.GetLogger())

	code, body := doJSON(t, h.ItemHandler, "POST", "/api/ai-prompts/99/activate", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "AI prompt not found", body["error"])
}
