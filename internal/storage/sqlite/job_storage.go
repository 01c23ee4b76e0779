package sqlite

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
)

// isoDateGlob matches date_posted values that start with an ISO date
const isoDateGlob = "[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]*"

// jobColumns is every exported column, in CSV order, without the surrogate id
const jobColumns = `job_id, title, company, location, description, url, source, remote,
	salary_min, salary_max, salary_currency, job_type, experience_level,
	date_posted, date_scraped, tags, company_logo`

// sortColumns is the allowlist for user-supplied sort keys
var sortColumns = map[string]bool{
	"date_scraped": true,
	"title":        true,
	"company":      true,
	"source":       true,
	"salary_min":   true,
	"salary_max":   true,
	"date_posted":  true,
}

// JobStorage implements interfaces.JobStorage
type JobStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewJobStorage creates a new job storage instance
func NewJobStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.JobStorage {
	return &JobStorage{
		db:     db,
		logger: logger,
	}
}

// SaveJobs inserts a batch of jobs, silently dropping duplicates on job_id.
// Returns the number of rows actually written.
func (j *JobStorage) SaveJobs(jobs []*models.Job) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	tx, err := j.db.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO jobs (` + jobColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, job := range jobs {
		job.Normalize()
		res, err := stmt.Exec(
			job.JobID, job.Title, job.Company, job.Location, job.Description,
			job.URL, job.Source, job.Remote,
			nullFloat(job.SalaryMin), nullFloat(job.SalaryMax), job.SalaryCurrency,
			job.JobType, job.ExperienceLevel,
			job.DatePosted, job.DateScraped, job.Tags, job.CompanyLogo,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert job %s: %w", job.JobID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	j.logger.Debug().
		Int("batch", len(jobs)).
		Int("inserted", inserted).
		Msg("Saved job batch")

	return inserted, nil
}

// Search returns jobs matching the filters, ordered by the requested sort key
func (j *JobStorage) Search(opts interfaces.JobSearchOptions) ([]map[string]interface{}, error) {
	var (
		conditions []string
		args       []interface{}
	)

	query := "SELECT " + prefixColumns("j") + " FROM jobs j"

	if q := strings.TrimSpace(opts.Query); q != "" {
		query += " JOIN jobs_fts f ON f.rowid = j.id"
		conditions = append(conditions, "jobs_fts MATCH ?")
		args = append(args, ftsPrefixQuery(q))
	}

	if opts.Source != "" {
		conditions = append(conditions, "j.source = ?")
		args = append(args, opts.Source)
	}
	if opts.Remote != "" && opts.Remote != models.RemoteAny {
		conditions = append(conditions, "j.remote = ?")
		args = append(args, opts.Remote)
	}
	if opts.JobType != "" {
		conditions = append(conditions, "j.job_type LIKE ?")
		args = append(args, "%"+opts.JobType+"%")
	}
	if opts.SalaryMin != nil {
		conditions = append(conditions, "j.salary_min IS NOT NULL AND j.salary_min >= ?")
		args = append(args, *opts.SalaryMin)
	}
	if opts.PostedInLastDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -opts.PostedInLastDays).Format("2006-01-02")
		// date_posted when it looks like an ISO date, date_scraped otherwise
		conditions = append(conditions, fmt.Sprintf(
			"(CASE WHEN j.date_posted GLOB '%s' THEN substr(j.date_posted, 1, 10) ELSE substr(j.date_scraped, 1, 10) END) >= ?",
			isoDateGlob))
		args = append(args, cutoff)
	}
	if opts.ExcludeNotInterested {
		conditions = append(conditions, "j.job_id NOT IN (SELECT job_id FROM not_interested)")
	}
	if opts.Region != "" {
		patterns := RegionPatterns(opts.Region)
		if len(patterns) > 0 {
			likes := make([]string, len(patterns))
			for i, p := range patterns {
				likes[i] = "LOWER(j.location) LIKE ?"
				args = append(args, p)
			}
			conditions = append(conditions, "("+strings.Join(likes, " OR ")+")")
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY " + orderClause(opts.SortBy, opts.Ascending)

	rows, err := j.db.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("job search failed: %w", err)
	}
	defer rows.Close()

	return scanJobRows(rows)
}

// GetJob returns a single job decorated with its triage status
func (j *JobStorage) GetJob(jobID string) (map[string]interface{}, error) {
	query := `
		SELECT ` + prefixColumns("j") + `,
			f.job_id IS NOT NULL AS is_favourite,
			a.job_id IS NOT NULL AS is_applied,
			n.job_id IS NOT NULL AS is_not_interested,
			COALESCE(a.applied_at, ''), COALESCE(a.notes, '')
		FROM jobs j
		LEFT JOIN favourites f ON f.job_id = j.job_id
		LEFT JOIN applications a ON a.job_id = j.job_id
		LEFT JOIN not_interested n ON n.job_id = j.job_id
		WHERE j.job_id = ?
	`

	row := j.db.db.QueryRow(query, jobID)

	var (
		rec                                    jobRow
		isFavourite, isApplied, notInterested  bool
		appliedAt, applicationNotes            string
	)
	dest := rec.scanDest()
	dest = append(dest, &isFavourite, &isApplied, &notInterested, &appliedAt, &applicationNotes)

	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	result := rec.toMap()
	result["is_favourite"] = isFavourite
	result["is_applied"] = isApplied
	result["is_not_interested"] = notInterested
	if isApplied {
		result["applied_at"] = appliedAt
		result["application_notes"] = applicationNotes
	}

	return result, nil
}

// GetJobStatuses returns the triage flags for a set of jobs in one pass
func (j *JobStorage) GetJobStatuses(jobIDs []string) (map[string]interfaces.JobStatus, error) {
	statuses := make(map[string]interfaces.JobStatus, len(jobIDs))
	if len(jobIDs) == 0 {
		return statuses, nil
	}
	for _, id := range jobIDs {
		statuses[id] = interfaces.JobStatus{}
	}

	tables := []struct {
		table string
		apply func(s *interfaces.JobStatus)
	}{
		{"favourites", func(s *interfaces.JobStatus) { s.IsFavourite = true }},
		{"applications", func(s *interfaces.JobStatus) { s.IsApplied = true }},
		{"not_interested", func(s *interfaces.JobStatus) { s.IsNotInterested = true }},
	}

	placeholders, args := inClause(jobIDs)
	for _, t := range tables {
		rows, err := j.db.db.Query(
			"SELECT job_id FROM "+t.table+" WHERE job_id IN ("+placeholders+")", args...)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", t.table, err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, err
			}
			s := statuses[id]
			t.apply(&s)
			statuses[id] = s
		}
		rows.Close()
	}

	return statuses, nil
}

// GetSources returns the distinct source names present in storage
func (j *JobStorage) GetSources() ([]string, error) {
	rows, err := j.db.db.Query("SELECT DISTINCT source FROM jobs ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// GetStats returns aggregate counts for the stats endpoint
func (j *JobStorage) GetStats() (map[string]interface{}, error) {
	var total int
	if err := j.db.db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	stats := map[string]interface{}{
		"total_jobs":   total,
		"sources":      map[string]int{},
		"remote_count": 0,
		"job_types":    map[string]int{},
	}

	counts := []struct {
		query string
		key   string
	}{
		{"SELECT COUNT(*) FROM favourites", "favourites_count"},
		{"SELECT COUNT(*) FROM applications", "applied_count"},
		{"SELECT COUNT(*) FROM notes", "notes_count"},
		{"SELECT COUNT(*) FROM ai_prompts", "ai_prompts_count"},
	}
	for _, c := range counts {
		var n int
		if err := j.db.db.QueryRow(c.query).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to compute %s: %w", c.key, err)
		}
		stats[c.key] = n
	}

	if total == 0 {
		return stats, nil
	}

	sources := map[string]int{}
	rows, err := j.db.db.Query("SELECT source, COUNT(*) FROM jobs GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("failed to count sources: %w", err)
	}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			rows.Close()
			return nil, err
		}
		sources[name] = n
	}
	rows.Close()
	stats["sources"] = sources

	var remoteCount int
	if err := j.db.db.QueryRow(
		"SELECT COUNT(*) FROM jobs WHERE remote = ?", models.RemoteYes).Scan(&remoteCount); err != nil {
		return nil, err
	}
	stats["remote_count"] = remoteCount

	jobTypes := map[string]int{}
	rows, err = j.db.db.Query("SELECT job_type, COUNT(*) FROM jobs WHERE job_type != '' GROUP BY job_type")
	if err != nil {
		return nil, fmt.Errorf("failed to count job types: %w", err)
	}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			rows.Close()
			return nil, err
		}
		jobTypes[name] = n
	}
	rows.Close()
	stats["job_types"] = jobTypes

	return stats, nil
}

// ExportCSV serialises every stored job in the stable column order.
// The header row is always present, even for an empty table.
func (j *JobStorage) ExportCSV() (string, error) {
	rows, err := j.db.db.Query(
		"SELECT " + prefixColumns("j") + " FROM jobs j ORDER BY j.date_scraped DESC")
	if err != nil {
		return "", fmt.Errorf("export query failed: %w", err)
	}
	defer rows.Close()

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(models.CSVColumns); err != nil {
		return "", err
	}

	for rows.Next() {
		var rec jobRow
		if err := rows.Scan(rec.scanDest()...); err != nil {
			return "", err
		}
		if err := w.Write(rec.csvRecord()); err != nil {
			return "", err
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	w.Flush()
	return sb.String(), w.Error()
}

// ftsPrefixQuery converts free text into an FTS5 query where every term is
// a required prefix match
func ftsPrefixQuery(q string) string {
	terms := strings.Fields(q)
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, `""`)
		parts = append(parts, `"`+t+`"*`)
	}
	return strings.Join(parts, " ")
}

// orderClause builds the ORDER BY expression. date_posted needs a CASE so
// rows with malformed or empty dates sort to the floor, with date_scraped
// breaking ties in the same direction.
func orderClause(sortBy string, ascending bool) string {
	if !sortColumns[sortBy] {
		sortBy = "date_posted"
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}

	if sortBy == "date_posted" {
		return fmt.Sprintf(
			"(CASE WHEN j.date_posted GLOB '%s' THEN substr(j.date_posted, 1, 10) ELSE '0000-00-00' END) %s, j.date_scraped %s",
			isoDateGlob, dir, dir)
	}
	return fmt.Sprintf("j.%s %s", sortBy, dir)
}

func prefixColumns(alias string) string {
	cols := make([]string, len(models.CSVColumns))
	for i, c := range models.CSVColumns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func inClause(ids []string) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}
