package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Jobicy fetches from the free Jobicy remote-jobs API, one request per
// search keyword via the tag parameter.
type Jobicy struct {
	client *Client
	logger arbor.ILogger
}

func NewJobicy(client *Client, logger arbor.ILogger) *Jobicy {
	return &Jobicy{client: client, logger: logger}
}

func (s *Jobicy) Name() string         { return "Jobicy" }
func (s *Jobicy) RequiresAPIKey() bool { return false }
func (s *Jobicy) Available() bool      { return true }

type jobicyListing struct {
	JobTitle        string      `json:"jobTitle"`
	CompanyName     string      `json:"companyName"`
	JobDescription  string      `json:"jobDescription"`
	JobGeo          string      `json:"jobGeo"`
	JobType         string      `json:"jobType"`
	URL             string      `json:"url"`
	AnnualSalaryMin interface{} `json:"annualSalaryMin"`
	AnnualSalaryMax interface{} `json:"annualSalaryMax"`
	SalaryCurrency  string      `json:"salaryCurrency"`
	JobIndustry     []string    `json:"jobIndustry"`
	PubDate         string      `json:"pubDate"`
	CompanyLogo     string      `json:"companyLogo"`
}

func (s *Jobicy) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	// Remote-only board
	if opts.Remote == models.RemoteOnSite {
		return nil, nil
	}

	jobs := []*models.Job{}
	for _, keyword := range NormalizeKeywords(opts.Keywords, []string{""}) {
		count := opts.MaxResults
		if count > 50 {
			count = 50
		}
		params := url.Values{"count": {strconv.Itoa(count)}}
		if opts.Location != "" {
			params.Set("geo", opts.Location)
		}
		if keyword != "" {
			params.Set("tag", keyword)
		}

		var payload struct {
			Jobs []jobicyListing `json:"jobs"`
		}
		if err := s.client.GetJSON(ctx, "https://jobicy.com/api/v2/remote-jobs", params, nil, &payload); err != nil {
			s.logger.Error().Err(err).Str("keyword", keyword).Msg("Jobicy fetch failed")
			continue
		}

		before := len(jobs)
		for _, item := range payload.Jobs {
			if len(jobs)-before >= opts.MaxResults {
				break
			}

			sMin := htmltext.SafeFloat(item.AnnualSalaryMin)
			sMax := htmltext.SafeFloat(item.AnnualSalaryMax)
			if salaryExcluded(opts.SalaryMin, sMax) {
				continue
			}
			if !MatchesKeywords(searchable(item.JobTitle, item.CompanyName, item.JobDescription, item.JobGeo, item.JobType), opts.Keywords) {
				continue
			}

			currency := item.SalaryCurrency
			if currency == "" {
				currency = "USD"
			}
			location := item.JobGeo
			if location == "" {
				location = "Remote"
			}

			jobs = append(jobs, &models.Job{
				Title:          item.JobTitle,
				Company:        item.CompanyName,
				Location:       location,
				Description:    htmltext.Sanitize(item.JobDescription),
				URL:            item.URL,
				Source:         s.Name(),
				Remote:         models.RemoteYes,
				SalaryMin:      sMin,
				SalaryMax:      sMax,
				SalaryCurrency: currency,
				JobType:        item.JobType,
				DatePosted:     item.PubDate,
				Tags:           joinList(item.JobIndustry),
				CompanyLogo:    item.CompanyLogo,
			})
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Jobicy search complete")
	return jobs, nil
}
