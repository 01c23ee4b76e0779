package server

import (
	"net/http"
	"strings"

	"github.com/ternarybob/venari/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Search orchestration
	mux.HandleFunc("/api/search", s.app.SearchHandler.StartHandler)
	mux.HandleFunc("/api/search/", s.handleSearchRoutes) // GET /{task_id}, POST /{task_id}/cancel

	// Saved jobs
	mux.HandleFunc("/api/jobs", s.app.JobsHandler.ListHandler)
	mux.HandleFunc("/api/jobs/", s.handleJobRoutes) // GET /{id}, POST /statuses
	mux.HandleFunc("/api/stats", s.app.JobsHandler.StatsHandler)
	mux.HandleFunc("/api/sources", s.app.JobsHandler.SourcesHandler)
	mux.HandleFunc("/api/regions", s.app.JobsHandler.RegionsHandler)
	mux.HandleFunc("/api/export", s.app.JobsHandler.ExportHandler)

	// Triage sidebands
	mux.HandleFunc("/api/favourite/", s.app.TriageHandler.FavouriteHandler)
	mux.HandleFunc("/api/favourites", s.app.TriageHandler.FavouritesHandler)
	mux.HandleFunc("/api/applied/", s.app.TriageHandler.AppliedHandler)
	mux.HandleFunc("/api/applications", s.app.TriageHandler.ApplicationsHandler)
	mux.HandleFunc("/api/not-interested/", s.app.TriageHandler.NotInterestedHandler)

	// Notes
	mux.HandleFunc("/api/notes", s.app.NotesHandler.CollectionHandler)
	mux.HandleFunc("/api/notes/", s.app.NotesHandler.ItemHandler)

	// Saved searches (search page and board page keep separate tables)
	mux.HandleFunc("/api/saved-searches", s.app.SavedSearchHandler.CollectionHandler)
	mux.HandleFunc("/api/saved-searches/", s.app.SavedSearchHandler.ItemHandler)
	mux.HandleFunc("/api/saved-board-searches", s.app.BoardSearchHandler.CollectionHandler)
	mux.HandleFunc("/api/saved-board-searches/", s.app.BoardSearchHandler.ItemHandler)

	// AI analysis
	mux.HandleFunc("/api/ai-prompts", s.app.PromptsHandler.CollectionHandler)
	mux.HandleFunc("/api/ai-prompts/", s.app.PromptsHandler.ItemHandler)
	mux.HandleFunc("/api/ollama/models", s.app.AnalysisHandler.ModelsHandler)
	mux.HandleFunc("/api/ai-analyse", s.app.AnalysisHandler.AnalyseHandler)
	mux.HandleFunc("/api/ai-analyses", s.app.AnalysisHandler.ListHandler)
	mux.HandleFunc("/api/ai-analyses/", s.app.AnalysisHandler.JobAnalysesHandler)

	// System
	mux.HandleFunc("/api/version", handlers.VersionHandler)
	mux.HandleFunc("/api/health", handlers.HealthHandler)
	if !s.app.Config.IsProduction() {
		mux.HandleFunc("/api/shutdown", s.ShutdownHandler)
	}

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", handlers.NotFoundHandler)

	return mux
}

// handleSearchRoutes routes /api/search/{task_id} and its cancel subpath
func (s *Server) handleSearchRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/cancel") {
		s.app.SearchHandler.CancelHandler(w, r)
		return
	}
	s.app.SearchHandler.StatusHandler(w, r)
}

// handleJobRoutes routes /api/jobs/statuses and /api/jobs/{id}
func (s *Server) handleJobRoutes(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/jobs/statuses" {
		s.app.JobsHandler.StatusesHandler(w, r)
		return
	}
	s.app.JobsHandler.GetHandler(w, r)
}
