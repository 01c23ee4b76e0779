package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/handlers"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/search"
	"github.com/ternarybob/venari/internal/services/llm"
	"github.com/ternarybob/venari/internal/sources"
	"github.com/ternarybob/venari/internal/storage/sqlite"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Storage       interfaces.StorageManager
	Registry      *sources.Registry
	SearchManager *search.Manager
	LLMService    *llm.Service
	Scheduler     *Scheduler

	// HTTP handlers
	SearchHandler      *handlers.SearchHandler
	JobsHandler        *handlers.JobsHandler
	TriageHandler      *handlers.TriageHandler
	NotesHandler       *handlers.NotesHandler
	SavedSearchHandler *handlers.SavedSearchHandler
	BoardSearchHandler *handlers.SavedSearchHandler
	PromptsHandler     *handlers.PromptsHandler
	AnalysisHandler    *handlers.AnalysisHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storage, err := sqlite.NewManager(logger, &cfg.Storage.SQLite)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.Storage = storage

	app.Registry = sources.NewRegistry(cfg, logger)
	app.logSourceSummary()

	app.SearchManager = search.NewManager(
		storage,
		app.Registry,
		cfg.Search.Workers,
		cfg.Search.MaxResultsPerSource,
		logger,
	)

	app.LLMService = llm.NewService(&cfg.LLM, logger)

	app.initHandlers()

	if cfg.Scheduler.Enabled {
		app.Scheduler = NewScheduler(storage, app.SearchManager, cfg.Search.DefaultKeywords, logger)
		if err := app.Scheduler.Start(cfg.Scheduler.Schedule); err != nil {
			return nil, fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	logger.Info().
		Int("sources", len(app.Registry.All())).
		Bool("scheduler", cfg.Scheduler.Enabled).
		Msg("Application initialized")

	return app, nil
}

func (a *App) initHandlers() {
	a.SearchHandler = handlers.NewSearchHandler(a.SearchManager, a.Config.Search.MaxResultsPerSource, a.Logger)
	a.JobsHandler = handlers.NewJobsHandler(a.Storage, a.Registry, a.Logger)
	a.TriageHandler = handlers.NewTriageHandler(a.Storage, a.Logger)
	a.NotesHandler = handlers.NewNotesHandler(a.Storage, a.Logger)
	a.SavedSearchHandler = handlers.NewSavedSearchHandler(a.Storage, false, a.Logger)
	a.BoardSearchHandler = handlers.NewSavedSearchHandler(a.Storage, true, a.Logger)
	a.PromptsHandler = handlers.NewPromptsHandler(a.Storage, a.Logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.Storage, a.LLMService, a.Logger)
}

// logSourceSummary reports which adapters will participate in searches
func (a *App) logSourceSummary() {
	available := []string{}
	skipped := []string{}
	for _, source := range a.Registry.All() {
		if source.Available() {
			available = append(available, source.Name())
		} else {
			skipped = append(skipped, source.Name())
		}
	}

	a.Logger.Info().
		Int("available", len(available)).
		Int("skipped", len(skipped)).
		Msg("Source registry ready")
	a.Logger.Info().Strs("sources", available).Msg("Available")
	if len(skipped) > 0 {
		a.Logger.Info().Strs("sources", skipped).Msg("Skipped (no API key)")
	}
}

// Close releases all application resources
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}

	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
