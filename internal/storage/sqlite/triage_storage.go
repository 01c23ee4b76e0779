package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/interfaces"
)

// TriageStorage implements interfaces.TriageStorage
type TriageStorage struct {
	db     *SQLiteDB
	logger arbor.ILogger
}

// NewTriageStorage creates a new triage storage instance
func NewTriageStorage(db *SQLiteDB, logger arbor.ILogger) interfaces.TriageStorage {
	return &TriageStorage{
		db:     db,
		logger: logger,
	}
}

// AddFavourite marks a job as favourite. Returns true when the row is new.
func (t *TriageStorage) AddFavourite(jobID string) (bool, error) {
	return t.insertIgnore("INSERT OR IGNORE INTO favourites (job_id) VALUES (?)", jobID)
}

// RemoveFavourite unmarks a favourite. Returns true when a row was removed.
func (t *TriageStorage) RemoveFavourite(jobID string) (bool, error) {
	return t.deleteByID("DELETE FROM favourites WHERE job_id = ?", jobID)
}

// IsFavourite reports whether a job is favourited
func (t *TriageStorage) IsFavourite(jobID string) (bool, error) {
	return t.exists("SELECT 1 FROM favourites WHERE job_id = ?", jobID)
}

// GetFavourites returns favourited jobs joined with their records
func (t *TriageStorage) GetFavourites(sortBy string, ascending bool) ([]map[string]interface{}, error) {
	return t.listJoined("favourites", "created_at", sortBy, ascending)
}

// GetFavouriteIDs returns the favourite job-id set
func (t *TriageStorage) GetFavouriteIDs() (map[string]bool, error) {
	return t.idSet("favourites")
}

// AddApplication records that a job was applied to. Returns true when new.
func (t *TriageStorage) AddApplication(jobID, notes string) (bool, error) {
	res, err := t.db.db.Exec(
		"INSERT OR IGNORE INTO applications (job_id, notes) VALUES (?, ?)", jobID, notes)
	if err != nil {
		return false, fmt.Errorf("failed to add application: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// RemoveApplication removes an application record
func (t *TriageStorage) RemoveApplication(jobID string) (bool, error) {
	return t.deleteByID("DELETE FROM applications WHERE job_id = ?", jobID)
}

// IsApplied reports whether a job has an application record
func (t *TriageStorage) IsApplied(jobID string) (bool, error) {
	return t.exists("SELECT 1 FROM applications WHERE job_id = ?", jobID)
}

// UpdateApplicationNotes replaces the notes on an existing application.
// Returns false when no application exists for the job.
func (t *TriageStorage) UpdateApplicationNotes(jobID, notes string) (bool, error) {
	res, err := t.db.db.Exec(
		"UPDATE applications SET notes = ? WHERE job_id = ?", notes, jobID)
	if err != nil {
		return false, fmt.Errorf("failed to update application notes: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetApplications returns applied jobs joined with their records and notes
func (t *TriageStorage) GetApplications(sortBy string, ascending bool) ([]map[string]interface{}, error) {
	order := "s.applied_at"
	if sortColumns[sortBy] {
		order = "j." + sortBy
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, s.applied_at, s.notes
		FROM applications s
		JOIN jobs j ON j.job_id = s.job_id
		ORDER BY %s %s
	`, prefixColumns("j"), order, dir)

	rows, err := t.db.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var rec jobRow
		var appliedAt, notes string
		dest := append(rec.scanDest(), &appliedAt, &notes)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		m := rec.toMap()
		m["applied_at"] = appliedAt
		m["application_notes"] = notes
		results = append(results, m)
	}
	return results, rows.Err()
}

// GetApplicationIDs returns the applied job-id set
func (t *TriageStorage) GetApplicationIDs() (map[string]bool, error) {
	return t.idSet("applications")
}

// AddNotInterested hides a job from default search results
func (t *TriageStorage) AddNotInterested(jobID string) (bool, error) {
	return t.insertIgnore("INSERT OR IGNORE INTO not_interested (job_id) VALUES (?)", jobID)
}

// RemoveNotInterested unhides a job
func (t *TriageStorage) RemoveNotInterested(jobID string) (bool, error) {
	return t.deleteByID("DELETE FROM not_interested WHERE job_id = ?", jobID)
}

// GetNotInterestedIDs returns the hidden job-id set
func (t *TriageStorage) GetNotInterestedIDs() (map[string]bool, error) {
	return t.idSet("not_interested")
}

func (t *TriageStorage) insertIgnore(query, jobID string) (bool, error) {
	res, err := t.db.db.Exec(query, jobID)
	if err != nil {
		return false, fmt.Errorf("insert failed: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (t *TriageStorage) deleteByID(query, jobID string) (bool, error) {
	res, err := t.db.db.Exec(query, jobID)
	if err != nil {
		return false, fmt.Errorf("delete failed: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (t *TriageStorage) exists(query, jobID string) (bool, error) {
	var one int
	err := t.db.db.QueryRow(query, jobID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup failed: %w", err)
	}
	return true, nil
}

func (t *TriageStorage) idSet(table string) (map[string]bool, error) {
	rows, err := t.db.db.Query("SELECT job_id FROM " + table)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s ids: %w", table, err)
	}
	defer rows.Close()

	ids := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// listJoined returns sideband rows joined with the job record, newest first
// by default. sortBy is restricted to the job sort allowlist plus the
// sideband timestamp column.
func (t *TriageStorage) listJoined(table, timeCol, sortBy string, ascending bool) ([]map[string]interface{}, error) {
	order := "s." + timeCol
	if sortColumns[sortBy] {
		order = "j." + sortBy
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, s.%s
		FROM %s s
		JOIN jobs j ON j.job_id = s.job_id
		ORDER BY %s %s
	`, prefixColumns("j"), timeCol, table, order, dir)

	rows, err := t.db.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var rec jobRow
		var stamp string
		dest := append(rec.scanDest(), &stamp)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		m := rec.toMap()
		m[timeCol] = stamp
		results = append(results, m)
	}
	return results, rows.Err()
}
