package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// keyword triggers mapped to Remotive categories for smarter querying
var remotiveCategories = []struct {
	trigger  string
	category string
}{
	{"software", "software-dev"},
	{"engineer", "software-dev"},
	{"developer", "software-dev"},
	{"data", "data"},
	{"analyst", "data"},
	{"machine learning", "data"},
	{"design", "design"},
	{"marketing", "marketing"},
	{"product", "product"},
	{"customer", "customer-support"},
	{"sales", "sales"},
	{"devops", "devops-sysadmin"},
	{"finance", "finance-legal"},
	{"hr", "hr"},
	{"writing", "writing"},
	{"qa", "qa"},
}

// Remotive fetches from the free Remotive API with per-keyword search
// and category hints
type Remotive struct {
	client *Client
	logger arbor.ILogger
}

func NewRemotive(client *Client, logger arbor.ILogger) *Remotive {
	return &Remotive{client: client, logger: logger}
}

func (s *Remotive) Name() string         { return "Remotive" }
func (s *Remotive) RequiresAPIKey() bool { return false }
func (s *Remotive) Available() bool      { return true }

type remotiveListing struct {
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Description               string   `json:"description"`
	Tags                      []string `json:"tags"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	URL                       string   `json:"url"`
	Salary                    string   `json:"salary"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CompanyLogo               string   `json:"company_logo"`
}

func (s *Remotive) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	// Remote-only board
	if opts.Remote == models.RemoteOnSite {
		return nil, nil
	}

	jobs := []*models.Job{}
	for _, keyword := range NormalizeKeywords(opts.Keywords, []string{""}) {
		limit := opts.MaxResults
		if limit > 1000 {
			limit = 1000
		}
		params := url.Values{"limit": {strconv.Itoa(limit)}}
		if keyword != "" {
			kwLower := strings.ToLower(strings.TrimSpace(keyword))
			for _, m := range remotiveCategories {
				if strings.Contains(kwLower, m.trigger) {
					params.Set("category", m.category)
					break
				}
			}
			params.Set("search", keyword)
		}

		var payload struct {
			Jobs []remotiveListing `json:"jobs"`
		}
		if err := s.client.GetJSON(ctx, "https://remotive.com/api/remote-jobs", params, nil, &payload); err != nil {
			s.logger.Error().Err(err).Str("keyword", keyword).Msg("Remotive fetch failed")
			continue
		}

		before := len(jobs)
		for _, item := range payload.Jobs {
			if len(jobs)-before >= opts.MaxResults {
				break
			}

			sMin, sMax := htmltext.ParseSalary(item.Salary)
			if salaryExcluded(opts.SalaryMin, sMax) {
				continue
			}

			tags := joinList(item.Tags)
			if !MatchesKeywords(searchable(item.Title, item.CompanyName, item.Description, tags), opts.Keywords) {
				continue
			}

			location := item.CandidateRequiredLocation
			if location == "" {
				location = "Worldwide"
			}
			jobType := ""
			if item.JobType != "" {
				jobType = titleCase(strings.ReplaceAll(item.JobType, "_", " "))
			}

			jobs = append(jobs, &models.Job{
				Title:          item.Title,
				Company:        item.CompanyName,
				Location:       location,
				Description:    htmltext.Sanitize(item.Description),
				URL:            item.URL,
				Source:         s.Name(),
				Remote:         models.RemoteYes,
				SalaryMin:      sMin,
				SalaryMax:      sMax,
				SalaryCurrency: "USD",
				JobType:        jobType,
				DatePosted:     item.PublicationDate,
				Tags:           tags,
				CompanyLogo:    item.CompanyLogo,
			})
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Remotive search complete")
	return jobs, nil
}
