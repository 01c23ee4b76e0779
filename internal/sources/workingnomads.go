package sources

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// WorkingNomads fetches the exposed_jobs feed from Working Nomads, a
// single unpaginated response filtered client-side
type WorkingNomads struct {
	client *Client
	logger arbor.ILogger
}

func NewWorkingNomads(client *Client, logger arbor.ILogger) *WorkingNomads {
	return &WorkingNomads{client: client, logger: logger}
}

func (s *WorkingNomads) Name() string         { return "WorkingNomads" }
func (s *WorkingNomads) RequiresAPIKey() bool { return false }
func (s *WorkingNomads) Available() bool      { return true }

type workingNomadsListing struct {
	Title        string `json:"title"`
	CompanyName  string `json:"company_name"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Location     string `json:"location"`
	Tags         string `json:"tags"`
	PubDate      string `json:"pub_date"`
	CategoryName string `json:"category_name"`
}

func (s *WorkingNomads) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	// Remote-only board
	if opts.Remote == models.RemoteOnSite {
		return nil, nil
	}

	var listings []workingNomadsListing
	if err := s.client.GetJSON(ctx, "https://www.workingnomads.com/api/exposed_jobs", nil, nil, &listings); err != nil {
		s.logger.Error().Err(err).Msg("WorkingNomads fetch failed")
		return nil, err
	}

	jobs := []*models.Job{}
	for _, item := range listings {
		if len(jobs) >= opts.MaxResults {
			break
		}
		if !MatchesKeywords(searchable(item.Title, item.CompanyName, item.Description, item.Tags, item.CategoryName), opts.Keywords) {
			continue
		}

		location := item.Location
		if location == "" {
			location = "Remote"
		}
		jobType := opts.JobType
		if jobType == "" {
			jobType = "Full-time"
		}
		datePosted := item.PubDate
		if len(datePosted) > 10 {
			datePosted = datePosted[:10]
		}
		tags := item.Tags
		if tags == "" {
			tags = item.CategoryName
		}

		jobs = append(jobs, &models.Job{
			Title:       item.Title,
			Company:     item.CompanyName,
			Location:    location,
			Description: htmltext.Sanitize(item.Description),
			URL:         item.URL,
			Source:      s.Name(),
			Remote:      models.RemoteYes,
			JobType:     jobType,
			DatePosted:  datePosted,
			Tags:        tags,
		})
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("WorkingNomads search complete")
	return jobs, nil
}
