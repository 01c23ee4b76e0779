package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// keyword triggers mapped to JobsCollider category slugs
var jobsColliderCategories = []struct {
	trigger  string
	category string
}{
	{"software", "software-development"},
	{"developer", "software-development"},
	{"engineer", "software-development"},
	{"data", "data"},
	{"devops", "devops-sysadmin"},
	{"sysadmin", "devops-sysadmin"},
	{"design", "design"},
	{"marketing", "marketing"},
	{"sales", "sales"},
	{"product", "product"},
	{"qa", "qa"},
	{"security", "cybersecurity"},
	{"cyber", "cybersecurity"},
	{"finance", "finance-legal"},
	{"legal", "finance-legal"},
	{"hr", "human-resources"},
	{"writing", "writing"},
	{"customer", "customer-service"},
	{"project", "project-management"},
	{"business", "business"},
}

// JobsCollider fetches the free search API, one request per keyword,
// with a category slug guessed from the term. Listings must credit
// JobsCollider as source, which the Source field does.
type JobsCollider struct {
	client *Client
	logger arbor.ILogger
}

func NewJobsCollider(client *Client, logger arbor.ILogger) *JobsCollider {
	return &JobsCollider{client: client, logger: logger}
}

func (s *JobsCollider) Name() string         { return "JobsCollider" }
func (s *JobsCollider) RequiresAPIKey() bool { return false }
func (s *JobsCollider) Available() bool      { return true }

type jobsColliderListing struct {
	Title          string      `json:"title"`
	Name           string      `json:"name"`
	Company        string      `json:"company"`
	CompanyName    string      `json:"companyName"`
	URL            string      `json:"url"`
	Link           string      `json:"link"`
	Location       string      `json:"location"`
	Description    string      `json:"description"`
	SalaryMin      interface{} `json:"salary_min"`
	SalaryMax      interface{} `json:"salary_max"`
	SalaryCurrency string      `json:"salary_currency"`
	Type           string      `json:"type"`
	JobType        string      `json:"jobType"`
	Date           string      `json:"date"`
	PublishedAt    string      `json:"publishedAt"`
	PubDate        string      `json:"pubDate"`
	Tags           []string    `json:"tags"`
	Categories     []string    `json:"categories"`
	Logo           string      `json:"logo"`
	CompanyLogo    string      `json:"companyLogo"`
}

func jobsColliderCategory(term string) string {
	lower := strings.ToLower(term)
	for _, m := range jobsColliderCategories {
		if strings.Contains(lower, m.trigger) {
			return m.category
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *JobsCollider) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	// Remote-only board
	if opts.Remote == models.RemoteOnSite {
		return nil, nil
	}

	jobs := []*models.Job{}
	seen := map[string]bool{}

	for _, term := range NormalizeKeywords(opts.Keywords, nil) {
		if len(jobs) >= opts.MaxResults {
			break
		}

		params := url.Values{"query": {term}}
		if category := jobsColliderCategory(term); category != "" {
			params.Set("category", category)
		}

		// The API answers with either a bare list or {"jobs": [...]}
		data, err := s.client.GetBytes(ctx, "https://jobscollider.com/api/search-jobs", params, nil)
		if err != nil {
			s.logger.Error().Err(err).Str("keyword", term).Msg("JobsCollider fetch failed")
			continue
		}
		var listings []jobsColliderListing
		if err := json.Unmarshal(data, &listings); err != nil {
			var wrapped struct {
				Jobs []jobsColliderListing `json:"jobs"`
			}
			if err := json.Unmarshal(data, &wrapped); err != nil {
				s.logger.Error().Err(err).Str("keyword", term).Msg("JobsCollider response unparseable")
				continue
			}
			listings = wrapped.Jobs
		}

		batch := []*models.Job{}
		for _, item := range listings {
			if len(jobs)+len(batch) >= opts.MaxResults {
				break
			}

			title := firstNonEmpty(item.Title, item.Name)
			company := firstNonEmpty(item.Company, item.CompanyName)
			jobURL := firstNonEmpty(item.URL, item.Link)
			location := item.Location
			if location == "" {
				location = "Remote"
			}

			if seen[jobURL] {
				continue
			}
			seen[jobURL] = true

			if !MatchesKeywords(searchable(title, company, location), opts.Keywords) {
				continue
			}

			sMin := htmltext.SafeFloat(item.SalaryMin)
			sMax := htmltext.SafeFloat(item.SalaryMax)
			if salaryExcluded(opts.SalaryMin, sMax) {
				continue
			}

			datePosted := firstNonEmpty(item.Date, item.PublishedAt, item.PubDate)
			if idx := strings.Index(datePosted, "T"); idx > 0 {
				datePosted = datePosted[:idx]
			}
			tags := item.Tags
			if len(tags) == 0 {
				tags = item.Categories
			}

			batch = append(batch, &models.Job{
				Title:          title,
				Company:        company,
				Location:       location,
				Description:    htmltext.Sanitize(item.Description),
				URL:            jobURL,
				Source:         s.Name(),
				Remote:         models.RemoteYes,
				SalaryMin:      sMin,
				SalaryMax:      sMax,
				SalaryCurrency: item.SalaryCurrency,
				JobType:        firstNonEmpty(item.Type, item.JobType),
				DatePosted:     datePosted,
				Tags:           joinList(tags),
				CompanyLogo:    firstNonEmpty(item.Logo, item.CompanyLogo),
			})
		}

		jobs = append(jobs, batch...)
		emitBatch(opts, batch)
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("JobsCollider search complete")
	return jobs, nil
}
