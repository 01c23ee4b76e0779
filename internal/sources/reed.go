package sources

import (
	"context"
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Reed fetches the Reed.co.uk jobseeker API. Auth is Basic with the API
// key as username and an empty password.
type Reed struct {
	client *Client
	apiKey string
	logger arbor.ILogger
}

func NewReed(client *Client, apiKey string, logger arbor.ILogger) *Reed {
	return &Reed{client: client, apiKey: apiKey, logger: logger}
}

func (s *Reed) Name() string         { return "Reed" }
func (s *Reed) RequiresAPIKey() bool { return true }
func (s *Reed) Available() bool      { return s.apiKey != "" }

type reedResult struct {
	JobTitle       string      `json:"jobTitle"`
	EmployerName   string      `json:"employerName"`
	LocationName   string      `json:"locationName"`
	JobDescription string      `json:"jobDescription"`
	JobURL         string      `json:"jobUrl"`
	MinimumSalary  interface{} `json:"minimumSalary"`
	MaximumSalary  interface{} `json:"maximumSalary"`
	Date           string      `json:"date"`
}

func (s *Reed) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	if !s.Available() {
		s.logger.Info().Msg("Reed skipped, API key not configured")
		return nil, nil
	}

	headers := map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte(s.apiKey+":")),
	}

	jobs := []*models.Job{}
	const resultsPerRequest = 100 // Reed API maximum

	for _, keyword := range opts.Keywords {
		before := len(jobs)
		skip := 0

		for len(jobs)-before < opts.MaxResults {
			remaining := opts.MaxResults - (len(jobs) - before)
			take := resultsPerRequest
			if remaining < take {
				take = remaining
			}

			params := url.Values{
				"keywords":      {keyword},
				"resultsToTake": {strconv.Itoa(take)},
				"resultsToSkip": {strconv.Itoa(skip)},
			}
			if opts.Location != "" {
				params.Set("locationName", opts.Location)
			}
			if opts.SalaryMin != nil {
				params.Set("minimumSalary", strconv.Itoa(int(*opts.SalaryMin)))
			}
			if opts.JobType != "" {
				jt := strings.ToLower(opts.JobType)
				switch {
				case strings.Contains(jt, "full"):
					params.Set("fullTime", "true")
				case strings.Contains(jt, "part"):
					params.Set("partTime", "true")
				case strings.Contains(jt, "contract"):
					params.Set("contract", "true")
				}
			}

			var payload struct {
				Results []reedResult `json:"results"`
			}
			if err := s.client.GetJSON(ctx, "https://www.reed.co.uk/api/1.0/search", params, headers, &payload); err != nil {
				s.logger.Error().Err(err).Str("keyword", keyword).Msg("Reed search failed")
				break
			}
			if len(payload.Results) == 0 {
				break
			}

			for _, item := range payload.Results {
				if len(jobs)-before >= opts.MaxResults {
					break
				}

				isRemote := containsFold(item.JobTitle+" "+item.JobDescription, "remote")
				if opts.Remote == models.RemoteYes && !isRemote {
					continue
				}
				if opts.Remote == models.RemoteOnSite && isRemote {
					continue
				}

				sMin := htmltext.SafeFloat(item.MinimumSalary)
				sMax := htmltext.SafeFloat(item.MaximumSalary)
				if salaryExcluded(opts.SalaryMin, sMax) {
					continue
				}

				remote := models.RemoteOnSite
				if isRemote {
					remote = models.RemoteYes
				}

				jobs = append(jobs, &models.Job{
					Title:          item.JobTitle,
					Company:        item.EmployerName,
					Location:       item.LocationName,
					Description:    htmltext.Sanitize(item.JobDescription),
					URL:            item.JobURL,
					Source:         s.Name(),
					Remote:         remote,
					SalaryMin:      sMin,
					SalaryMax:      sMax,
					SalaryCurrency: "GBP",
					JobType:        opts.JobType,
					DatePosted:     item.Date,
				})
			}

			skip += len(payload.Results)
			if len(payload.Results) < resultsPerRequest {
				break
			}
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Reed search complete")
	return jobs, nil
}
