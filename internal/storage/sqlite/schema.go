package sqlite

import (
	"fmt"
)

// migrate creates the schema. All statements are idempotent so opening an
// existing database is a no-op.
func (s *SQLiteDB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			remote TEXT NOT NULL DEFAULT '',
			salary_min REAL,
			salary_max REAL,
			salary_currency TEXT NOT NULL DEFAULT '',
			job_type TEXT NOT NULL DEFAULT '',
			experience_level TEXT NOT NULL DEFAULT '',
			date_posted TEXT NOT NULL DEFAULT '',
			date_scraped TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			company_logo TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_source ON jobs(source)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_date_scraped ON jobs(date_scraped)`,

		// External-content FTS index over the searchable job columns
		`CREATE VIRTUAL TABLE IF NOT EXISTS jobs_fts USING fts5(
			title, company, description, tags, location,
			content='jobs', content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS jobs_fts_insert AFTER INSERT ON jobs BEGIN
			INSERT INTO jobs_fts(rowid, title, company, description, tags, location)
			VALUES (new.id, new.title, new.company, new.description, new.tags, new.location);
		END`,
		`CREATE TRIGGER IF NOT EXISTS jobs_fts_delete AFTER DELETE ON jobs BEGIN
			INSERT INTO jobs_fts(jobs_fts, rowid, title, company, description, tags, location)
			VALUES ('delete', old.id, old.title, old.company, old.description, old.tags, old.location);
		END`,

		`CREATE TABLE IF NOT EXISTS favourites (
			job_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			job_id TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now')),
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS not_interested (
			job_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
			title, body, content='notes', content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS notes_fts_insert AFTER INSERT ON notes BEGIN
			INSERT INTO notes_fts(rowid, title, body) VALUES (new.id, new.title, new.body);
		END`,
		`CREATE TRIGGER IF NOT EXISTS notes_fts_delete AFTER DELETE ON notes BEGIN
			INSERT INTO notes_fts(notes_fts, rowid, title, body)
			VALUES ('delete', old.id, old.title, old.body);
		END`,
		`CREATE TRIGGER IF NOT EXISTS notes_fts_update AFTER UPDATE ON notes BEGIN
			INSERT INTO notes_fts(notes_fts, rowid, title, body)
			VALUES ('delete', old.id, old.title, old.body);
			INSERT INTO notes_fts(rowid, title, body) VALUES (new.id, new.title, new.body);
		END`,

		`CREATE TABLE IF NOT EXISTS saved_searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			params TEXT NOT NULL DEFAULT '{}',
			auto_run INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS saved_board_searches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			params TEXT NOT NULL DEFAULT '{}',
			auto_run INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		`CREATE TABLE IF NOT EXISTS ai_prompts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			cv TEXT NOT NULL DEFAULT '',
			about_me TEXT NOT NULL DEFAULT '',
			preferences TEXT NOT NULL DEFAULT '',
			extra_context TEXT NOT NULL DEFAULT '',
			is_active INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS ai_analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT NOT NULL,
			prompt_id INTEGER NOT NULL,
			model TEXT NOT NULL DEFAULT '',
			result TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE(job_id, prompt_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_analyses_job ON ai_analyses(job_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
