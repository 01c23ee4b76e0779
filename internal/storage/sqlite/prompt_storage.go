package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
)

// PromptStorage implements interfaces.PromptStorage
type PromptStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewPromptStorage creates a new prompt storage instance
func NewPromptStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.PromptStorage {
	return &PromptStorage{
		db:     db,
		logger: logger,
	}
}

const promptColumns = "id, title, model, cv, about_me, preferences, extra_context, is_active, created_at, updated_at"

// ListPrompts returns all prompts, active first then newest
func (p *PromptStorage) ListPrompts() ([]*models.Prompt, error) {
	rows, err := p.db.db.Query(
		"SELECT " + promptColumns + " FROM ai_prompts ORDER BY is_active DESC, updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	prompts := []*models.Prompt{}
	for rows.Next() {
		prompt, err := scanPrompt(rows.Scan)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, prompt)
	}
	return prompts, rows.Err()
}

// GetPrompt returns one prompt, or nil when missing
func (p *PromptStorage) GetPrompt(id int64) (*models.Prompt, error) {
	row := p.db.db.QueryRow("SELECT "+promptColumns+" FROM ai_prompts WHERE id = ?", id)
	prompt, err := scanPrompt(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return prompt, err
}

// GetActivePrompt returns the currently active prompt, or nil when none
func (p *PromptStorage) GetActivePrompt() (*models.Prompt, error) {
	row := p.db.db.QueryRow("SELECT " + promptColumns + " FROM ai_prompts WHERE is_active = 1 LIMIT 1")
	prompt, err := scanPrompt(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return prompt, err
}

// CreatePrompt inserts a prompt. When the prompt is created active, all
// other prompts are deactivated in the same transaction.
func (p *PromptStorage) CreatePrompt(m *models.Prompt) (*models.Prompt, error) {
	tx, err := p.db.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if m.IsActive {
		if _, err := tx.Exec("UPDATE ai_prompts SET is_active = 0"); err != nil {
			return nil, fmt.Errorf("failed to clear active prompts: %w", err)
		}
	}

	res, err := tx.Exec(`
		INSERT INTO ai_prompts (title, model, cv, about_me, preferences, extra_context, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.Title, m.Model, m.CV, m.AboutMe, m.Preferences, m.ExtraContext, boolInt(m.IsActive))
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return p.GetPrompt(id)
}

// UpdatePrompt replaces a prompt. Returns nil when the prompt is missing.
// Activating via update deactivates every other prompt atomically.
func (p *PromptStorage) UpdatePrompt(id int64, m *models.Prompt) (*models.Prompt, error) {
	tx, err := p.db.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if m.IsActive {
		if _, err := tx.Exec("UPDATE ai_prompts SET is_active = 0 WHERE id != ?", id); err != nil {
			return nil, fmt.Errorf("failed to clear active prompts: %w", err)
		}
	}

	res, err := tx.Exec(`
		UPDATE ai_prompts
		SET title = ?, model = ?, cv = ?, about_me = ?, preferences = ?,
			extra_context = ?, is_active = ?, updated_at = datetime('now')
		WHERE id = ?
	`, m.Title, m.Model, m.CV, m.AboutMe, m.Preferences, m.ExtraContext, boolInt(m.IsActive), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update prompt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return p.GetPrompt(id)
}

// DeletePrompt removes a prompt. Returns true when removed.
func (p *PromptStorage) DeletePrompt(id int64) (bool, error) {
	res, err := p.db.db.Exec("DELETE FROM ai_prompts WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete prompt: %w", err)
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// SetActivePrompt atomically clears every active flag and sets it on the
// target. Returns false when the target does not exist.
func (p *PromptStorage) SetActivePrompt(id int64) (bool, error) {
	tx, err := p.db.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE ai_prompts SET is_active = 0"); err != nil {
		return false, fmt.Errorf("failed to clear active prompts: %w", err)
	}

	res, err := tx.Exec(
		"UPDATE ai_prompts SET is_active = 1, updated_at = datetime('now') WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to activate prompt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func scanPrompt(scan func(...interface{}) error) (*models.Prompt, error) {
	var m models.Prompt
	var isActive int
	err := scan(&m.ID, &m.Title, &m.Model, &m.CV, &m.AboutMe, &m.Preferences,
		&m.ExtraContext, &isActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.IsActive = isActive != 0
	return &m, nil
}
