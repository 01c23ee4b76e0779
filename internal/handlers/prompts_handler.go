package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
)

// PromptsHandler serves the candidate-profile prompt CRUD plus the
// activate toggle.
type PromptsHandler struct {
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

func NewPromptsHandler(storage interfaces.StorageManager, logger arbor.ILogger) *PromptsHandler {
	return &PromptsHandler{storage: storage, logger: logger}
}

type promptPayload struct {
	Title        string `json:"title"`
	Model        string `json:"model"`
	CV           string `json:"cv"`
	AboutMe      string `json:"about_me"`
	Preferences  string `json:"preferences"`
	ExtraContext string `json:"extra_context"`
	IsActive     bool   `json:"is_active"`
}

// toModel validates the payload; the message names the first missing field
func (p *promptPayload) toModel() (*models.Prompt, string) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, "Title is required"
	}
	model := strings.TrimSpace(p.Model)
	if model == "" {
		return nil, "Model is required"
	}
	return &models.Prompt{
		Title:        title,
		Model:        model,
		CV:           strings.TrimSpace(p.CV),
		AboutMe:      strings.TrimSpace(p.AboutMe),
		Preferences:  strings.TrimSpace(p.Preferences),
		ExtraContext: strings.TrimSpace(p.ExtraContext),
		IsActive:     p.IsActive,
	}, ""
}

// CollectionHandler routes GET (list) and POST (create) on /api/ai-prompts
func (h *PromptsHandler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		prompts, err := h.storage.PromptStorage().ListPrompts()
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts, "total": len(prompts)})
	case "POST":
		var payload promptPayload
		if err := DecodeJSON(r, &payload); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		prompt, problem := payload.toModel()
		if problem != "" {
			WriteError(w, http.StatusBadRequest, problem)
			return
		}
		created, err := h.storage.PromptStorage().CreatePrompt(prompt)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		h.logger.Info().Int64("id", created.ID).Str("title", created.Title).Msg("AI prompt created")
		WriteJSON(w, http.StatusCreated, map[string]interface{}{"status": "created", "id": created.ID})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ItemHandler routes GET/PUT/DELETE on /api/ai-prompts/{id}, plus the
// POST /api/ai-prompts/{id}/activate toggle.
func (h *PromptsHandler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if strings.HasSuffix(path, "/activate") {
		h.activate(w, r, strings.TrimSuffix(path, "/activate"))
		return
	}

	id, ok := PathID(path, "/api/ai-prompts/")
	if !ok {
		WriteError(w, http.StatusNotFound, "AI prompt not found")
		return
	}

	switch r.Method {
	case "GET":
		prompt, err := h.storage.PromptStorage().GetPrompt(id)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if prompt == nil {
			WriteError(w, http.StatusNotFound, "AI prompt not found")
			return
		}
		WriteJSON(w, http.StatusOK, prompt)
	case "PUT":
		var payload promptPayload
		if err := DecodeJSON(r, &payload); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		prompt, problem := payload.toModel()
		if problem != "" {
			WriteError(w, http.StatusBadRequest, problem)
			return
		}
		updated, err := h.storage.PromptStorage().UpdatePrompt(id, prompt)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if updated == nil {
			WriteError(w, http.StatusNotFound, "AI prompt not found")
			return
		}
		h.logger.Info().Int64("id", id).Str("title", prompt.Title).Msg("AI prompt updated")
		WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "updated", "id": id})
	case "DELETE":
		removed, err := h.storage.PromptStorage().DeletePrompt(id)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if !removed {
			WriteError(w, http.StatusNotFound, "AI prompt not found")
			return
		}
		h.logger.Info().Int64("id", id).Msg("AI prompt deleted")
		WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "id": id})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PromptsHandler) activate(w http.ResponseWriter, r *http.Request, path string) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	id, ok := PathID(path, "/api/ai-prompts/")
	if !ok {
		WriteError(w, http.StatusNotFound, "AI prompt not found")
		return
	}
	activated, err := h.storage.PromptStorage().SetActivePrompt(id)
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	if !activated {
		WriteError(w, http.StatusNotFound, "AI prompt not found")
		return
	}
	h.logger.Info().Int64("id", id).Msg("AI prompt activated")
	WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "activated", "id": id})
}
