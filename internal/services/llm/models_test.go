package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
)

func TestListModels(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []map[string]string{
				{"name": "mistral:7b"},
				{"name": "llama3.2:3b"},
			},
		})
	}))
	defer ollama.Close()

	owui := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/models", r.URL.Path)
		assert.Equal(t, "Bearer owui-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"id": "gpt-4o", "name": "GPT-4o"},
				{"id": "llama3.2:3b", "name": "Llama 3.2"}, // Already local, dropped
				{"id": "abacus", "name": "Abacus"},
			},
		})
	}))
	defer owui.Close()

	config := testLLMConfig()
	config.Ollama.BaseURL = ollama.URL
	config.OpenWebUI.BaseURL = owui.URL
	config.OpenWebUI.APIKey = "owui-key"
	config.OpenAI.APIKey = "sk-test"
	config.CloudModels = []string{"gpt-4o-mini", "claude-sonnet-4-5", "gemini-2.0-flash"}

	catalog := NewClient(config, common.GetLogger()).ListModels(context.Background())

	assert.True(t, catalog.Available)
	assert.Equal(t, []string{"llama3.2:3b", "mistral:7b"}, catalog.LocalModels)

	assert.True(t, catalog.OWUIAvailable)
	require.Len(t, catalog.OWUIModels, 2)
	assert.Equal(t, OWUIModel{ID: "abacus", Label: "Abacus"}, catalog.OWUIModels[0])
	assert.Equal(t, OWUIModel{ID: "gpt-4o", Label: "GPT-4o"}, catalog.OWUIModels[1])

	require.Len(t, catalog.CloudModels, 3)
	assert.Equal(t, CloudModel{ID: "gpt-4o-mini", Provider: "openai", HasKey: true}, catalog.CloudModels[0])
	assert.Equal(t, CloudModel{ID: "claude-sonnet-4-5", Provider: "anthropic", HasKey: false}, catalog.CloudModels[1])
	assert.Equal(t, CloudModel{ID: "gemini-2.0-flash", Provider: "google", HasKey: false}, catalog.CloudModels[2])
}

func TestListModelsOllamaDown(t *testing.T) {
	config := testLLMConfig()
	config.Ollama.BaseURL = "http://127.0.0.1:1" // Nothing listens here
	config.OpenWebUI.BaseURL = ""
	config.CloudModels = []string{"gpt-4o-mini"}

	catalog := NewClient(config, common.GetLogger()).ListModels(context.Background())

	assert.False(t, catalog.Available)
	assert.Empty(t, catalog.LocalModels)
	assert.False(t, catalog.OWUIAvailable)
	require.Len(t, catalog.CloudModels, 1)
	assert.False(t, catalog.CloudModels[0].HasKey)
}
