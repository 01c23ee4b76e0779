package sources

import (
	"context"
	"net/url"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Findwork fetches the findwork.dev developer-jobs API, following the
// cursor in the next field across pages
type Findwork struct {
	client *Client
	apiKey string
	logger arbor.ILogger
}

func NewFindwork(client *Client, apiKey string, logger arbor.ILogger) *Findwork {
	return &Findwork{client: client, apiKey: apiKey, logger: logger}
}

func (s *Findwork) Name() string         { return "Findwork" }
func (s *Findwork) RequiresAPIKey() bool { return true }
func (s *Findwork) Available() bool      { return s.apiKey != "" }

type findworkResult struct {
	Role           string      `json:"role"`
	CompanyName    string      `json:"company_name"`
	Location       string      `json:"location"`
	Text           string      `json:"text"`
	Description    string      `json:"description"`
	URL            string      `json:"url"`
	Remote         bool        `json:"remote"`
	DatePosted     string      `json:"date_posted"`
	Keywords       []string    `json:"keywords"`
	SalaryMin      interface{} `json:"salary_min"`
	SalaryMax      interface{} `json:"salary_max"`
	EmploymentType string      `json:"employment_type"`
	CompanyLogo    string      `json:"company_logo"`
}

func (s *Findwork) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	if !s.Available() {
		s.logger.Info().Msg("Findwork skipped, API key not configured")
		return nil, nil
	}

	headers := map[string]string{"Authorization": "Token " + s.apiKey}

	jobs := []*models.Job{}
	for _, keyword := range opts.Keywords {
		before := len(jobs)

		params := url.Values{
			"search":  {keyword},
			"sort_by": {"relevance"},
		}
		if opts.Location != "" {
			params.Set("location", opts.Location)
		}
		if opts.Remote == models.RemoteYes {
			params.Set("remote", "true")
		}

		pageURL := "https://findwork.dev/api/jobs/"
		// The next cursor URL carries the query, so params apply to the
		// first request only
		for page := 0; pageURL != "" && len(jobs)-before < opts.MaxResults && page < 50; page++ {
			var payload struct {
				Results []findworkResult `json:"results"`
				Next    string           `json:"next"`
			}
			requestParams := params
			if page > 0 {
				requestParams = nil
			}
			if err := s.client.GetJSON(ctx, pageURL, requestParams, headers, &payload); err != nil {
				s.logger.Error().Err(err).Str("keyword", keyword).Msg("Findwork search failed")
				break
			}
			if len(payload.Results) == 0 {
				break
			}

			for _, item := range payload.Results {
				if len(jobs)-before >= opts.MaxResults {
					break
				}
				if opts.Remote == models.RemoteYes && !item.Remote {
					continue
				}
				if opts.Remote == models.RemoteOnSite && item.Remote {
					continue
				}

				sMin := htmltext.SafeFloat(item.SalaryMin)
				sMax := htmltext.SafeFloat(item.SalaryMax)
				if salaryExcluded(opts.SalaryMin, sMax) {
					continue
				}

				description := item.Text
				if description == "" {
					description = item.Description
				}
				location := item.Location
				if location == "" && item.Remote {
					location = "Remote"
				}
				jobType := item.EmploymentType
				if jobType == "" {
					jobType = opts.JobType
				}
				remote := models.RemoteOnSite
				if item.Remote {
					remote = models.RemoteYes
				}

				jobs = append(jobs, &models.Job{
					Title:       item.Role,
					Company:     item.CompanyName,
					Location:    location,
					Description: htmltext.Sanitize(description),
					URL:         item.URL,
					Source:      s.Name(),
					Remote:      remote,
					SalaryMin:   sMin,
					SalaryMax:   sMax,
					JobType:     jobType,
					DatePosted:  item.DatePosted,
					Tags:        joinList(item.Keywords),
					CompanyLogo: item.CompanyLogo,
				})
			}

			pageURL = payload.Next
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Findwork search complete")
	return jobs, nil
}
