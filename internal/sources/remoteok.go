package sources

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// RemoteOK fetches from the free RemoteOK API. The API returns every
// remote listing in one response; filtering happens client-side.
type RemoteOK struct {
	client *Client
	logger arbor.ILogger
}

func NewRemoteOK(client *Client, logger arbor.ILogger) *RemoteOK {
	return &RemoteOK{client: client, logger: logger}
}

func (s *RemoteOK) Name() string         { return "RemoteOK" }
func (s *RemoteOK) RequiresAPIKey() bool { return false }
func (s *RemoteOK) Available() bool      { return true }

type remoteOKListing struct {
	Position    string      `json:"position"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	SalaryMin   interface{} `json:"salary_min"`
	SalaryMax   interface{} `json:"salary_max"`
	ApplyURL    string      `json:"apply_url"`
	URL         string      `json:"url"`
	Date        string      `json:"date"`
	CompanyLogo string      `json:"company_logo"`
}

func (s *RemoteOK) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	// Everything here is remote
	if opts.Remote == models.RemoteOnSite {
		return nil, nil
	}

	var listings []remoteOKListing
	if err := s.client.GetJSON(ctx, "https://remoteok.com/api", nil, nil, &listings); err != nil {
		s.logger.Error().Err(err).Msg("RemoteOK fetch failed")
		return nil, err
	}

	// First element is a legal notice, not a listing
	if len(listings) > 0 {
		listings = listings[1:]
	}

	jobs := []*models.Job{}
	for _, item := range listings {
		if len(jobs) >= opts.MaxResults {
			break
		}

		tags := joinList(item.Tags)
		if !MatchesKeywords(searchable(item.Position, item.Company, item.Description, tags), opts.Keywords) {
			continue
		}

		sMin := htmltext.SafeFloat(item.SalaryMin)
		sMax := htmltext.SafeFloat(item.SalaryMax)
		if salaryExcluded(opts.SalaryMin, sMax) {
			continue
		}

		url := item.ApplyURL
		if url == "" {
			url = item.URL
		}
		if url != "" && !strings.HasPrefix(url, "http") {
			url = "https://remoteok.com" + url
		}

		location := item.Location
		if location == "" {
			location = "Remote"
		}
		jobType := opts.JobType
		if jobType == "" {
			jobType = "Full-time"
		}

		jobs = append(jobs, &models.Job{
			Title:          item.Position,
			Company:        item.Company,
			Location:       location,
			Description:    htmltext.Sanitize(item.Description),
			URL:            url,
			Source:         s.Name(),
			Remote:         models.RemoteYes,
			SalaryMin:      sMin,
			SalaryMax:      sMax,
			SalaryCurrency: "USD",
			JobType:        jobType,
			DatePosted:     item.Date,
			Tags:           tags,
			CompanyLogo:    item.CompanyLogo,
		})
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("RemoteOK search complete")
	return jobs, nil
}
