package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/venari/internal/common"
)

// TimestampFormat is the canonical timestamp layout used across storage and exports
const TimestampFormat = "2006-01-02 15:04:05"

// Remote classification values
const (
	RemoteAny    = "Any"
	RemoteYes    = "Remote"
	RemoteOnSite = "On-site"
	RemoteHybrid = "Hybrid"
)

// Job is the canonical normalised listing produced by every source adapter
type Job struct {
	JobID           string   `json:"job_id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Description     string   `json:"description"` // Sanitised HTML
	URL             string   `json:"url"`
	Source          string   `json:"source"`
	Remote          string   `json:"remote"`
	SalaryMin       *float64 `json:"salary_min"`
	SalaryMax       *float64 `json:"salary_max"`
	SalaryCurrency  string   `json:"salary_currency"`
	JobType         string   `json:"job_type"`
	ExperienceLevel string   `json:"experience_level"`
	DatePosted      string   `json:"date_posted"` // ISO date string or empty
	DateScraped     string   `json:"date_scraped"`
	Tags            string   `json:"tags"` // Comma-separated
	CompanyLogo     string   `json:"company_logo"`
}

// CSVColumns is the stable export column order
var CSVColumns = []string{
	"job_id", "title", "company", "location", "description", "url",
	"source", "remote", "salary_min", "salary_max", "salary_currency",
	"job_type", "experience_level", "date_posted", "date_scraped",
	"tags", "company_logo",
}

// Normalize finalises a freshly constructed job: derives the deterministic
// ID when absent, stamps date_scraped once, and trims description whitespace.
func (j *Job) Normalize() {
	j.Description = strings.TrimSpace(j.Description)
	if j.JobID == "" {
		j.JobID = common.JobID(j.Source, j.URL, j.Title, j.Company)
	}
	if j.DateScraped == "" {
		j.DateScraped = time.Now().UTC().Format(TimestampFormat)
	}
	if j.Remote == "" {
		j.Remote = "Unknown"
	}
}

// CSVRecord serialises the job in the fixed CSV column order
func (j *Job) CSVRecord() []string {
	return []string{
		j.JobID,
		j.Title,
		j.Company,
		j.Location,
		j.Description,
		j.URL,
		j.Source,
		j.Remote,
		floatField(j.SalaryMin),
		floatField(j.SalaryMax),
		j.SalaryCurrency,
		j.JobType,
		j.ExperienceLevel,
		j.DatePosted,
		j.DateScraped,
		j.Tags,
		j.CompanyLogo,
	}
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
