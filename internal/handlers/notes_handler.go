package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
	"github.com/yuin/goldmark"
)

var noteMarkdown = goldmark.New()

// NotesHandler serves the free-standing notes CRUD. Responses carry a
// rendered body_html alongside the raw markdown body.
type NotesHandler struct {
	storage interfaces.StorageManager
	logger  arbor.ILogger
}

func NewNotesHandler(storage interfaces.StorageManager, logger arbor.ILogger) *NotesHandler {
	return &NotesHandler{storage: storage, logger: logger}
}

func renderNote(note *models.Note) *models.Note {
	if note == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := noteMarkdown.Convert([]byte(note.Body), &buf); err == nil {
		note.BodyHTML = buf.String()
	}
	return note
}

// CollectionHandler routes GET (list) and POST (create) on /api/notes
func (h *NotesHandler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		notes, err := h.storage.NoteStorage().ListNotes(r.URL.Query().Get("q"))
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		for _, note := range notes {
			renderNote(note)
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"notes": notes, "total": len(notes)})
	case "POST":
		var payload struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if err := DecodeJSON(r, &payload); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		title := strings.TrimSpace(payload.Title)
		if title == "" {
			WriteError(w, http.StatusBadRequest, "Title is required")
			return
		}
		note, err := h.storage.NoteStorage().CreateNote(title, payload.Body)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		h.logger.Info().Int64("id", note.ID).Str("title", title).Msg("Note created")
		WriteJSON(w, http.StatusCreated, map[string]interface{}{"status": "created", "id": note.ID})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ItemHandler routes GET/PUT/DELETE on /api/notes/{id}
func (h *NotesHandler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r.URL.Path, "/api/notes/")
	if !ok {
		WriteError(w, http.StatusNotFound, "Note not found")
		return
	}

	switch r.Method {
	case "GET":
		note, err := h.storage.NoteStorage().GetNote(id)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if note == nil {
			WriteError(w, http.StatusNotFound, "Note not found")
			return
		}
		WriteJSON(w, http.StatusOK, renderNote(note))
	case "PUT":
		var payload struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if err := DecodeJSON(r, &payload); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		title := strings.TrimSpace(payload.Title)
		if title == "" {
			WriteError(w, http.StatusBadRequest, "Title is required")
			return
		}
		note, err := h.storage.NoteStorage().UpdateNote(id, title, payload.Body)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if note == nil {
			WriteError(w, http.StatusNotFound, "Note not found")
			return
		}
		h.logger.Info().Int64("id", id).Str("title", title).Msg("Note updated")
		WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "updated", "id": id})
	case "DELETE":
		removed, err := h.storage.NoteStorage().DeleteNote(id)
		if err != nil {
			WriteStorageError(w, err)
			return
		}
		if !removed {
			WriteError(w, http.StatusNotFound, "Note not found")
			return
		}
		h.logger.Info().Int64("id", id).Msg("Note deleted")
		WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "id": id})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
