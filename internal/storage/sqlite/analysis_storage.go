package sqlite

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
)

// AnalysisStorage implements interfaces.AnalysisStorage
type AnalysisStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new analysis storage instance
func NewAnalysisStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

// SaveAnalysis upserts a result keyed by (job_id, prompt_id), refreshing
// model, result and created_at on re-runs. Returns the analysis row id.
func (a *AnalysisStorage) SaveAnalysis(jobID string, promptID int64, model, result string) (int64, error) {
	_, err := a.db.db.Exec(`
		INSERT INTO ai_analyses (job_id, prompt_id, model, result)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(job_id, prompt_id) DO UPDATE SET
			model = excluded.model,
			result = excluded.result,
			created_at = datetime('now')
	`, jobID, promptID, model, result)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis: %w", err)
	}

	var id int64
	err = a.db.db.QueryRow(
		"SELECT id FROM ai_analyses WHERE job_id = ? AND prompt_id = ?", jobID, promptID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to load analysis id: %w", err)
	}
	return id, nil
}

// GetAnalysesForJob returns a job's analyses newest first, with the
// referenced prompt's title joined in
func (a *AnalysisStorage) GetAnalysesForJob(jobID string) ([]map[string]interface{}, error) {
	rows, err := a.db.db.Query(`
		SELECT an.id, an.job_id, an.prompt_id, an.model, an.result, an.created_at,
			COALESCE(p.title, '')
		FROM ai_analyses an
		LEFT JOIN ai_prompts p ON p.id = an.prompt_id
		WHERE an.job_id = ?
		ORDER BY an.created_at DESC, an.id DESC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyses: %w", err)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var (
			id, promptID               int64
			job, model, result, stamp  string
			promptTitle                string
		)
		if err := rows.Scan(&id, &job, &promptID, &model, &result, &stamp, &promptTitle); err != nil {
			return nil, err
		}
		results = append(results, map[string]interface{}{
			"id":           id,
			"job_id":       job,
			"prompt_id":    promptID,
			"prompt_title": promptTitle,
			"model":        model,
			"result":       result,
			"created_at":   stamp,
		})
	}
	return results, rows.Err()
}

// ListAnalyses returns analyses joined with their jobs, filtered on the
// JSON result fields, with the total match count for pagination
func (a *AnalysisStorage) ListAnalyses(opts interfaces.AnalysisListOptions) ([]map[string]interface{}, int, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if opts.MinScore > 0 {
		conditions = append(conditions,
			"CAST(json_extract(an.result, '$.match_score') AS INTEGER) >= ?")
		args = append(args, opts.MinScore)
	}
	if len(opts.Recommendations) > 0 {
		placeholders := make([]string, len(opts.Recommendations))
		for i, r := range opts.Recommendations {
			placeholders[i] = "?"
			args = append(args, strings.ToLower(strings.TrimSpace(r)))
		}
		conditions = append(conditions,
			"LOWER(json_extract(an.result, '$.recommendation')) IN ("+strings.Join(placeholders, ", ")+")")
	}
	if opts.PromptID > 0 {
		conditions = append(conditions, "an.prompt_id = ?")
		args = append(args, opts.PromptID)
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		conditions = append(conditions,
			"(j.title LIKE ? COLLATE NOCASE OR j.company LIKE ? COLLATE NOCASE OR an.result LIKE ? COLLATE NOCASE)")
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	base := `
		FROM ai_analyses an
		JOIN jobs j ON j.job_id = an.job_id
		LEFT JOIN ai_prompts p ON p.id = an.prompt_id
		LEFT JOIN favourites f ON f.job_id = an.job_id
		LEFT JOIN applications ap ON ap.job_id = an.job_id
		LEFT JOIN not_interested ni ON ni.job_id = an.job_id
	` + where

	var total int
	if err := a.db.db.QueryRow("SELECT COUNT(*)"+base, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT an.id, an.job_id, an.prompt_id, an.model, an.result, an.created_at,
			COALESCE(p.title, ''), j.title, j.company, j.location, j.url, j.source,
			f.job_id IS NOT NULL, ap.job_id IS NOT NULL, ni.job_id IS NOT NULL
	` + base + `
		ORDER BY an.created_at DESC, an.id DESC
		LIMIT ? OFFSET ?
	`
	queryArgs := append(append([]interface{}{}, args...), limit, opts.Offset)

	rows, err := a.db.db.Query(query, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var (
			id, promptID                                  int64
			jobID, model, result, stamp, promptTitle      string
			title, company, location, url, source         string
			isFavourite, isApplied, isNotInterested       bool
		)
		if err := rows.Scan(&id, &jobID, &promptID, &model, &result, &stamp,
			&promptTitle, &title, &company, &location, &url, &source,
			&isFavourite, &isApplied, &isNotInterested); err != nil {
			return nil, 0, err
		}
		results = append(results, map[string]interface{}{
			"analysis_id":       id,
			"job_id":            jobID,
			"prompt_id":         promptID,
			"prompt_title":      promptTitle,
			"model":             model,
			"result":            result,
			"analysed_at":       stamp,
			"title":             title,
			"company":           company,
			"location":          location,
			"url":               url,
			"source":            source,
			"is_favourite":      isFavourite,
			"is_applied":        isApplied,
			"is_not_interested": isNotInterested,
		})
	}
	return results, total, rows.Err()
}
