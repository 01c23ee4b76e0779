package sources

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Jooble posts to the Jooble aggregator API. The free key from
// jooble.org/api/about goes in the URL path.
type Jooble struct {
	client *Client
	apiKey string
	logger arbor.ILogger
}

func NewJooble(client *Client, apiKey string, logger arbor.ILogger) *Jooble {
	return &Jooble{client: client, apiKey: apiKey, logger: logger}
}

func (s *Jooble) Name() string         { return "Jooble" }
func (s *Jooble) RequiresAPIKey() bool { return true }
func (s *Jooble) Available() bool      { return s.apiKey != "" }

type joobleRequest struct {
	Keywords     string `json:"keywords"`
	Page         int    `json:"page"`
	ResultOnPage int    `json:"resultonpage"`
	Location     string `json:"location,omitempty"`
	Salary       int    `json:"salary,omitempty"`
}

type joobleListing struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Snippet  string `json:"snippet"`
	Link     string `json:"link"`
	Location string `json:"location"`
	Salary   string `json:"salary"`
	Updated  string `json:"updated"`
	Type     string `json:"type"`
}

func (s *Jooble) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	if !s.Available() {
		s.logger.Info().Msg("Jooble skipped, API key not configured")
		return nil, nil
	}

	jobs := []*models.Job{}
	const resultsPerPage = 50

	for _, keyword := range opts.Keywords {
		before := len(jobs)

		count := resultsPerPage
		if remaining := opts.MaxResults - (len(jobs) - before); remaining < count {
			count = remaining
		}
		request := joobleRequest{
			Keywords:     keyword,
			Page:         1,
			ResultOnPage: count,
			Location:     opts.Location,
		}
		if opts.SalaryMin != nil {
			request.Salary = int(*opts.SalaryMin)
		}

		var payload struct {
			Jobs []joobleListing `json:"jobs"`
		}
		if err := s.client.PostJSON(ctx, "https://jooble.org/api/"+s.apiKey, request, nil, &payload); err != nil {
			s.logger.Error().Err(err).Str("keyword", keyword).Msg("Jooble search failed")
			continue
		}

		for _, item := range payload.Jobs {
			if len(jobs)-before >= opts.MaxResults {
				break
			}

			isRemote := containsFold(item.Title+" "+item.Snippet+" "+item.Location, "remote")
			if opts.Remote == models.RemoteYes && !isRemote {
				continue
			}
			if opts.Remote == models.RemoteOnSite && isRemote {
				continue
			}

			sMin, sMax := htmltext.ParseSalary(item.Salary)
			if salaryExcluded(opts.SalaryMin, sMax) {
				continue
			}

			jobType := item.Type
			if jobType == "" {
				jobType = opts.JobType
			}
			remote := models.RemoteOnSite
			if isRemote {
				remote = models.RemoteYes
			}

			jobs = append(jobs, &models.Job{
				Title:       htmltext.StripTags(item.Title),
				Company:     item.Company,
				Location:    item.Location,
				Description: htmltext.Sanitize(item.Snippet),
				URL:         item.Link,
				Source:      s.Name(),
				Remote:      remote,
				SalaryMin:   sMin,
				SalaryMax:   sMax,
				JobType:     jobType,
				DatePosted:  item.Updated,
			})
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Jooble search complete")
	return jobs, nil
}
