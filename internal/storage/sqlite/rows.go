package sqlite

import (
	"database/sql"
	"strconv"
)

// jobRow scans one jobs row in the exported column order
type jobRow struct {
	JobID           string
	Title           string
	Company         string
	Location        string
	Description     string
	URL             string
	Source          string
	Remote          string
	SalaryMin       sql.NullFloat64
	SalaryMax       sql.NullFloat64
	SalaryCurrency  string
	JobType         string
	ExperienceLevel string
	DatePosted      string
	DateScraped     string
	Tags            string
	CompanyLogo     string
}

func (r *jobRow) scanDest() []interface{} {
	return []interface{}{
		&r.JobID, &r.Title, &r.Company, &r.Location, &r.Description,
		&r.URL, &r.Source, &r.Remote,
		&r.SalaryMin, &r.SalaryMax, &r.SalaryCurrency,
		&r.JobType, &r.ExperienceLevel,
		&r.DatePosted, &r.DateScraped, &r.Tags, &r.CompanyLogo,
	}
}

// toMap produces the JSON-safe row shape: nulls become empty strings,
// numerics stay numeric, the surrogate id is never included
func (r *jobRow) toMap() map[string]interface{} {
	m := map[string]interface{}{
		"job_id":           r.JobID,
		"title":            r.Title,
		"company":          r.Company,
		"location":         r.Location,
		"description":      r.Description,
		"url":              r.URL,
		"source":           r.Source,
		"remote":           r.Remote,
		"salary_currency":  r.SalaryCurrency,
		"job_type":         r.JobType,
		"experience_level": r.ExperienceLevel,
		"date_posted":      r.DatePosted,
		"date_scraped":     r.DateScraped,
		"tags":             r.Tags,
		"company_logo":     r.CompanyLogo,
	}
	if r.SalaryMin.Valid {
		m["salary_min"] = r.SalaryMin.Float64
	} else {
		m["salary_min"] = ""
	}
	if r.SalaryMax.Valid {
		m["salary_max"] = r.SalaryMax.Float64
	} else {
		m["salary_max"] = ""
	}
	return m
}

func (r *jobRow) csvRecord() []string {
	return []string{
		r.JobID, r.Title, r.Company, r.Location, r.Description, r.URL,
		r.Source, r.Remote,
		nullFloatString(r.SalaryMin), nullFloatString(r.SalaryMax), r.SalaryCurrency,
		r.JobType, r.ExperienceLevel, r.DatePosted, r.DateScraped,
		r.Tags, r.CompanyLogo,
	}
}

func nullFloatString(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func scanJobRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	results := []map[string]interface{}{}
	for rows.Next() {
		var rec jobRow
		if err := rows.Scan(rec.scanDest()...); err != nil {
			return nil, err
		}
		results = append(results, rec.toMap())
	}
	return results, rows.Err()
}
