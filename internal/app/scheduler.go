package app

import (
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/search"
)

// Scheduler re-runs saved searches flagged auto_run on a cron schedule,
// so the job database keeps filling overnight without manual searches.
type Scheduler struct {
	storage         interfaces.StorageManager
	manager         *search.Manager
	defaultKeywords []string
	cron            *cron.Cron
	logger          arbor.ILogger
}

func NewScheduler(storage interfaces.StorageManager, manager *search.Manager, defaultKeywords []string, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		storage:         storage,
		manager:         manager,
		defaultKeywords: defaultKeywords,
		cron:            cron.New(),
		logger:          logger,
	}
}

// Start registers the schedule and launches the cron runner
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runAll); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("Saved-search scheduler started")
	return nil
}

// Stop halts the cron runner. Searches already started keep running.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Saved-search scheduler stopped")
}

// runAll starts one search per auto-run saved search. Broken params on
// one saved search never block the rest.
func (s *Scheduler) runAll() {
	searches, err := s.storage.SavedSearchStorage().ListAutoRunSearches()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list auto-run searches")
		return
	}
	if len(searches) == 0 {
		return
	}

	s.logger.Info().Int("count", len(searches)).Msg("Running scheduled searches")
	for _, saved := range searches {
		req, err := search.ParseSavedParams(saved.Params, s.defaultKeywords)
		if err != nil {
			s.logger.Warn().Err(err).Int64("id", saved.ID).Str("name", saved.Name).Msg("Skipping saved search")
			continue
		}
		taskID := s.manager.StartSearch(req)
		s.logger.Info().
			Int64("id", saved.ID).
			Str("name", saved.Name).
			Str("task_id", taskID).
			Msg("Scheduled search started")
	}
}
