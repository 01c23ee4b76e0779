package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
)

// TriageHandler manages the favourite, applied and not-interested
// sidebands.
type TriageHandler struct {
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

func NewTriageHandler(storage interfaces.StorageManager, logger arbor.ILogger) *TriageHandler {
	return &TriageHandler{storage: storage, logger: logger}
}

func shortID(jobID string) string {
	if len(jobID) > 12 {
		return jobID[:12]
	}
	return jobID
}

// writeToggle reports an add as added/already_exists and a remove as
// removed/not_found; both are 200s.
func writeToggle(w http.ResponseWriter, jobID string, changed bool, yes, no string) {
	status := no
	if changed {
		status = yes
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": status, "job_id": jobID})
}

// FavouriteHandler adds or removes one favourite
func (h *TriageHandler) FavouriteHandler(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/api/favourite/")

	switch r.Method {
	case "POST":
		added, err := h.storage.TriageStorage().AddFavourite(jobID)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if added {
			h.logger.Info().Str("job_id", shortID(jobID)).Msg("Favourite added")
		}
		writeToggle(w, jobID, added, "added", "already_exists")
	case "DELETE":
		removed, err := h.storage.TriageStorage().RemoveFavourite(jobID)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if removed {
			h.logger.Info().Str("job_id", shortID(jobID)).Msg("Favourite removed")
		}
		writeToggle(w, jobID, removed, "removed", "not_found")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// FavouritesHandler lists all favourites
func (h *TriageHandler) FavouritesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	sortBy := r.URL.Query().Get("sort_by")
	if sortBy == "" {
		sortBy = "created_at"
	}
	jobs, err := h.storage.TriageStorage().GetFavourites(sortBy, r.URL.Query().Get("order") == "asc")
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs, "total": len(jobs)})
}

// AppliedHandler marks or un-marks one job as applied, and updates
// application notes on the /notes subpath.
func (h *TriageHandler) AppliedHandler(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/api/applied/")

	if strings.HasSuffix(jobID, "/notes") {
		h.updateNotes(w, r, strings.TrimSuffix(jobID, "/notes"))
		return
	}

	switch r.Method {
	case "POST":
		var payload struct {
			Notes string `json:"notes"`
		}
		if err := DecodeJSON(r, &payload); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		added, err := h.storage.TriageStorage().AddApplication(jobID, payload.Notes)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if added {
			h.logger.Info().Str("job_id", shortID(jobID)).Msg("Applied")
		}
		writeToggle(w, jobID, added, "added", "already_exists")
	case "DELETE":
		removed, err := h.storage.TriageStorage().RemoveApplication(jobID)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if removed {
			h.logger.Info().Str("job_id", shortID(jobID)).Msg("Un-applied")
		}
		writeToggle(w, jobID, removed, "removed", "not_found")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TriageHandler) updateNotes(w http.ResponseWriter, r *http.Request, jobID string) {
	if !RequireMethod(w, r, "PUT") {
		return
	}

	var payload struct {
		Notes string `json:"notes"`
	}
	if err := DecodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	updated, err := h.storage.TriageStorage().UpdateApplicationNotes(jobID, payload.Notes)
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	if !updated {
		WriteError(w, http.StatusNotFound, "Application not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "updated", "job_id": jobID})
}

// ApplicationsHandler lists all applied jobs
func (h *TriageHandler) ApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	sortBy := r.URL.Query().Get("sort_by")
	if sortBy == "" {
		sortBy = "applied_at"
	}
	jobs, err := h.storage.TriageStorage().GetApplications(sortBy, r.URL.Query().Get("order") == "asc")
	if err != nil {
		WriteStorageError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"jobs": jobs, "total": len(jobs)})
}

// NotInterestedHandler hides or un-hides one job
func (h *TriageHandler) NotInterestedHandler(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/api/not-interested/")

	switch r.Method {
	case "POST":
		added, err := h.storage.TriageStorage().AddNotInterested(jobID)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if added {
			h.logger.Info().Str("job_id", shortID(jobID)).Msg("Not interested")
		}
		writeToggle(w, jobID, added, "added", "already_exists")
	case "DELETE":
		removed, err := h.storage.TriageStorage().RemoveNotInterested(jobID)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if removed {
			h.logger.Info().Str("job_id", shortID(jobID)).Msg("Un-not-interested")
		}
		writeToggle(w, jobID, removed, "removed", "not_found")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
