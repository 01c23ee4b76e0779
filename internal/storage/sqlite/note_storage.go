package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
)

// NoteStorage implements interfaces.NoteStorage
type NoteStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewNoteStorage creates a new note storage instance
func NewNoteStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.NoteStorage {
	return &NoteStorage{
		db:     db,
		logger: logger,
	}
}

// CreateNote inserts a note and returns it with timestamps populated
func (n *NoteStorage) CreateNote(title, body string) (*models.Note, error) {
	res, err := n.db.db.Exec(
		"INSERT INTO notes (title, body) VALUES (?, ?)", title, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return n.GetNote(id)
}

// GetNote returns one note, or nil when missing
func (n *NoteStorage) GetNote(id int64) (*models.Note, error) {
	var note models.Note
	err := n.db.db.QueryRow(
		"SELECT id, title, body, created_at, updated_at FROM notes WHERE id = ?", id,
	).Scan(&note.ID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}
	return &note, nil
}

// ListNotes returns notes newest first, optionally filtered by a
// full-text prefix query over title and body
func (n *NoteStorage) ListNotes(query string) ([]*models.Note, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if query != "" {
		rows, err = n.db.db.Query(`
			SELECT n.id, n.title, n.body, n.created_at, n.updated_at
			FROM notes n
			JOIN notes_fts f ON f.rowid = n.id
			WHERE notes_fts MATCH ?
			ORDER BY n.updated_at DESC
		`, ftsPrefixQuery(query))
	} else {
		rows, err = n.db.db.Query(
			"SELECT id, title, body, created_at, updated_at FROM notes ORDER BY updated_at DESC")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

// UpdateNote replaces title and body, refreshing updated_at.
// Returns nil when the note does not exist.
func (n *NoteStorage) UpdateNote(id int64, title, body string) (*models.Note, error) {
	res, err := n.db.db.Exec(
		"UPDATE notes SET title = ?, body = ?, updated_at = datetime('now') WHERE id = ?",
		title, body, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil || affected == 0 {
		return nil, err
	}
	return n.GetNote(id)
}

// DeleteNote removes a note. Returns true when a row was removed.
func (n *NoteStorage) DeleteNote(id int64) (bool, error) {
	res, err := n.db.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
