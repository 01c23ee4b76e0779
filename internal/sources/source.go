package sources

import (
	"context"

	"github.com/ternarybob/venari/internal/models"
)

// FetchOptions carries one search request into an adapter. Adapters treat
// every field as optional; zero values mean "no filter".
type FetchOptions struct {
	Keywords         []string
	Location         string
	Remote           string
	JobType          string
	SalaryMin        *float64
	ExperienceLevel  string
	MaxResults       int
	PostedInLastDays int

	// OnBatch, when set, is called after each page or sub-search so the
	// caller can persist partial results before the source finishes.
	OnBatch func(jobs []*models.Job)
}

// Source is the contract every job source adapter implements.
//
// Fetch returns the jobs it found even when some pages failed; it returns
// an error only when the source produced nothing useful. Salary filtering
// convention: only exclude a job whose known salary maximum is below the
// requested minimum; jobs with unknown salary stay in.
type Source interface {
	Name() string
	RequiresAPIKey() bool
	Available() bool
	Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error)
}

// emitBatch forwards a page of jobs to the OnBatch callback if one is set
func emitBatch(opts FetchOptions, jobs []*models.Job) {
	if opts.OnBatch != nil && len(jobs) > 0 {
		opts.OnBatch(jobs)
	}
}
