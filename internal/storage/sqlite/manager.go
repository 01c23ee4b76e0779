package sqlite

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/interfaces"
)

// Manager aggregates the individual storages over one SQLite connection
type Manager struct {
	db          *SQLiteDB
	jobs        interfaces.JobStorage
	triage      interfaces.TriageStorage
	notes       interfaces.NoteStorage
	saved       interfaces.SavedSearchStorage
	prompts     interfaces.PromptStorage
	analyses    interfaces.AnalysisStorage
	logger      arbor.ILogger
}

// NewManager opens the database and wires up all storage services
func NewManager(logger arbor.ILogger, config *common.SQLiteConfig) (interfaces.StorageManager, error) {
	db, err := NewSQLiteDB(logger, config)
	if err != nil {
		return nil, err
	}

	return &Manager{
		db:       db,
		jobs:     NewJobStorage(db, logger),
		triage:   NewTriageStorage(db, logger),
		notes:    NewNoteStorage(db, logger),
		saved:    NewSavedSearchStorage(db, logger),
		prompts:  NewPromptStorage(db, logger),
		analyses: NewAnalysisStorage(db, logger),
		logger:   logger,
	}, nil
}

func (m *Manager) JobStorage() interfaces.JobStorage                 { return m.jobs }
func (m *Manager) TriageStorage() interfaces.TriageStorage           { return m.triage }
func (m *Manager) NoteStorage() interfaces.NoteStorage               { return m.notes }
func (m *Manager) SavedSearchStorage() interfaces.SavedSearchStorage { return m.saved }
func (m *Manager) PromptStorage() interfaces.PromptStorage           { return m.prompts }
func (m *Manager) AnalysisStorage() interfaces.AnalysisStorage       { return m.analyses }

// Close releases the underlying database connection
func (m *Manager) Close() error {
	m.logger.Info().Msg("Closing storage manager")
	return m.db.Close()
}
