package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
)

// SavedSearchHandler serves one saved-search surface. The search page
// and the board page keep separate tables, so two instances are wired
// with different board flags.
type SavedSearchHandler struct {
	storage interfaces.StorageManager
	board   bool
	label   string // "Saved search" or "Saved board search"
	prefix  string // item route prefix, e.g. "/api/saved-searches/"
	logger  arbor.ILogger
}

func NewSavedSearchHandler(storage interfaces.StorageManager, board bool, logger arbor.ILogger) *SavedSearchHandler {
	label := "Saved search"
	prefix := "/api/saved-searches/"
	if board {
		label = "Saved board search"
		prefix = "/api/saved-board-searches/"
	}
	return &SavedSearchHandler{storage: storage, board: board, label: label, prefix: prefix, logger: logger}
}

type savedSearchPayload struct {
	Name    string      `json:"name"`
	Params  interface{} `json:"params"`
	AutoRun bool        `json:"auto_run"`
}

// encodeParams preserves the client's params object as a JSON blob
func encodeParams(params interface{}) string {
	if params == nil {
		return "{}"
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// savedSearchResponse decodes the stored params blob back into an
// object so the client round-trips what it saved.
func savedSearchResponse(s *models.SavedSearch) map[string]interface{} {
	var params interface{}
	if err := json.Unmarshal([]byte(s.Params), &params); err != nil {
		params = map[string]interface{}{}
	}
	return map[string]interface{}{
		"id":         s.ID,
		"name":       s.Name,
		"params":     params,
		"auto_run":   s.AutoRun,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
}

// CollectionHandler routes GET (list) and POST (create)
func (h *SavedSearchHandler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		searches, err := h.storage.SavedSearchStorage().ListSavedSearches(h.board)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		items := make([]map[string]interface{}, 0, len(searches))
		for _, s := range searches {
			items = append(items, savedSearchResponse(s))
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"searches": items, "total": len(items)})
	case "POST":
		var payload savedSearchPayload
		if err := DecodeJSON(r, &payload); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		name := strings.TrimSpace(payload.Name)
		if name == "" {
			WriteError(w, http.StatusBadRequest, "Name is required")
			return
		}
		created, err := h.storage.SavedSearchStorage().CreateSavedSearch(h.board, name, encodeParams(payload.Params), payload.AutoRun)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		h.logger.Info().Int64("id", created.ID).Str("name", name).Msg(h.label + " created")
		WriteJSON(w, http.StatusCreated, map[string]interface{}{"status": "created", "id": created.ID})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ItemHandler routes GET/PUT/DELETE on the {id} path
func (h *SavedSearchHandler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r.URL.Path, h.prefix)
	if !ok {
		WriteError(w, http.StatusNotFound, h.label+" not found")
		return
	}

	switch r.Method {
	case "GET":
		search, err := h.storage.SavedSearchStorage().GetSavedSearch(h.board, id)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if search == nil {
			WriteError(w, http.StatusNotFound, h.label+" not found")
			return
		}
		WriteJSON(w, http.StatusOK, savedSearchResponse(search))
	case "PUT":
		var payload savedSearchPayload
		if err := DecodeJSON(r, &payload); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		name := strings.TrimSpace(payload.Name)
		if name == "" {
			WriteError(w, http.StatusBadRequest, "Name is required")
			return
		}
		updated, err := h.storage.SavedSearchStorage().UpdateSavedSearch(h.board, id, name, encodeParams(payload.Params), payload.AutoRun)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if updated == nil {
			WriteError(w, http.StatusNotFound, h.label+" not found")
			return
		}
		h.logger.Info().Int64("id", id).Str("name", name).Msg(h.label + " updated")
		WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "updated", "id": id})
	case "DELETE":
		removed, err := h.storage.SavedSearchStorage().DeleteSavedSearch(h.board, id)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if !removed {
			WriteError(w, http.StatusNotFound, h.label+" not found")
			return
		}
		h.logger.Info().Int64("id", id).Msg(h.label + " deleted")
		WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "id": id})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
