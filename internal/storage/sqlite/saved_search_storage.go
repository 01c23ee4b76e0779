package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
)

// SavedSearchStorage implements interfaces.SavedSearchStorage over the
// saved_searches and saved_board_searches tables
type SavedSearchStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewSavedSearchStorage creates a new saved-search storage instance
func NewSavedSearchStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.SavedSearchStorage {
	return &SavedSearchStorage{
		db:     db,
		logger: logger,
	}
}

func tableFor(board bool) string {
	if board {
		return "saved_board_searches"
	}
	return "saved_searches"
}

// ListSavedSearches returns all saved searches for one surface, newest first
func (s *SavedSearchStorage) ListSavedSearches(board bool) ([]*models.SavedSearch, error) {
	rows, err := s.db.db.Query(
		"SELECT id, name, params, auto_run, created_at, updated_at FROM " +
			tableFor(board) + " ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list saved searches: %w", err)
	}
	defer rows.Close()
	return scanSavedSearches(rows)
}

// CreateSavedSearch stores a named search. Params is kept as an opaque
// JSON blob exactly as the client sent it.
func (s *SavedSearchStorage) CreateSavedSearch(board bool, name, params string, autoRun bool) (*models.SavedSearch, error) {
	res, err := s.db.db.Exec(
		"INSERT INTO "+tableFor(board)+" (name, params, auto_run) VALUES (?, ?, ?)",
		name, params, boolInt(autoRun))
	if err != nil {
		return nil, fmt.Errorf("failed to create saved search: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.get(board, id)
}

// UpdateSavedSearch replaces a saved search. Returns nil when missing.
func (s *SavedSearchStorage) UpdateSavedSearch(board bool, id int64, name, params string, autoRun bool) (*models.SavedSearch, error) {
	res, err := s.db.db.Exec(
		"UPDATE "+tableFor(board)+" SET name = ?, params = ?, auto_run = ?, updated_at = datetime('now') WHERE id = ?",
		name, params, boolInt(autoRun), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update saved search: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil || affected == 0 {
		return nil, err
	}
	return s.get(board, id)
}

// DeleteSavedSearch removes a saved search. Returns true when removed.
func (s *SavedSearchStorage) DeleteSavedSearch(board bool, id int64) (bool, error) {
	res, err := s.db.db.Exec("DELETE FROM "+tableFor(board)+" WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete saved search: %w", err)
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// ListAutoRunSearches returns search-page saved searches flagged for
// scheduled re-runs
func (s *SavedSearchStorage) ListAutoRunSearches() ([]*models.SavedSearch, error) {
	rows, err := s.db.db.Query(
		"SELECT id, name, params, auto_run, created_at, updated_at FROM saved_searches WHERE auto_run = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-run searches: %w", err)
	}
	defer rows.Close()
	return scanSavedSearches(rows)
}

// GetSavedSearch returns one saved search, nil when missing
func (s *SavedSearchStorage) GetSavedSearch(board bool, id int64) (*models.SavedSearch, error) {
	return s.get(board, id)
}

func (s *SavedSearchStorage) get(board bool, id int64) (*models.SavedSearch, error) {
	var ss models.SavedSearch
	var autoRun int
	err := s.db.db.QueryRow(
		"SELECT id, name, params, auto_run, created_at, updated_at FROM "+tableFor(board)+" WHERE id = ?", id,
	).Scan(&ss.ID, &ss.Name, &ss.Params, &autoRun, &ss.CreatedAt, &ss.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saved search: %w", err)
	}
	ss.AutoRun = autoRun != 0
	return &ss, nil
}

func scanSavedSearches(rows *sql.Rows) ([]*models.SavedSearch, error) {
	searches := []*models.SavedSearch{}
	for rows.Next() {
		var ss models.SavedSearch
		var autoRun int
		if err := rows.Scan(&ss.ID, &ss.Name, &ss.Params, &autoRun, &ss.CreatedAt, &ss.UpdatedAt); err != nil {
			return nil, err
		}
		ss.AutoRun = autoRun != 0
		searches = append(searches, &ss)
	}
	return searches, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
