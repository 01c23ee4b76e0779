package sources

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/models"
)

// GovUKFindAJob scrapes the DWP Find a Job search results. The page is
// semantic HTML with summary cards, parsed with broad selectors.
type GovUKFindAJob struct {
	client *Client
	logger arbor.ILogger
}

func NewGovUKFindAJob(client *Client, logger arbor.ILogger) *GovUKFindAJob {
	return &GovUKFindAJob{client: client, logger: logger}
}

func (s *GovUKFindAJob) Name() string         { return "GOV.UK Find a Job" }
func (s *GovUKFindAJob) RequiresAPIKey() bool { return false }
func (s *GovUKFindAJob) Available() bool      { return true }

func (s *GovUKFindAJob) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}
	seen := map[string]bool{}

	for _, query := range NormalizeKeywords(opts.Keywords, nil) {
		params := url.Values{"q": {query}}
		if opts.Location != "" {
			// UK-wide location code; could be refined per location
			params.Set("loc", "86383")
		}

		data, err := s.client.GetBytes(ctx, "https://findajob.dwp.gov.uk/search", params,
			map[string]string{"Accept": "text/html"})
		if err != nil {
			s.logger.Error().Err(err).Str("keyword", query).Msg("Find a Job search failed")
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
		if err != nil {
			s.logger.Error().Err(err).Str("keyword", query).Msg("Find a Job page unparseable")
			continue
		}

		before := len(jobs)
		doc.Find("article, [class*='SearchResult'], [class*='job-card'], .govuk-summary-card").
			EachWithBreak(func(_ int, block *goquery.Selection) bool {
				if len(jobs)-before >= opts.MaxResults {
					return false
				}

				link := block.Find("a[href*='/job/']").First()
				href, ok := link.Attr("href")
				if !ok || href == "" {
					return true
				}
				if strings.HasPrefix(href, "/") {
					href = "https://findajob.dwp.gov.uk" + href
				}
				if seen[href] {
					return true
				}
				seen[href] = true

				title := strings.TrimSpace(link.Text())
				title = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "Save ", ""), " job to favourites", ""))
				if title == "" {
					title = strings.TrimSpace(block.Find("h2, h3, .govuk-heading-s").First().Text())
				}

				location := ""
				company := ""
				block.Find("dt, [class*='location'], [class*='employer']").Each(func(_ int, dt *goquery.Selection) {
					label := strings.ToLower(strings.TrimSpace(dt.Text()))
					value := strings.TrimSpace(dt.Next().Text())
					if strings.Contains(label, "location") || strings.Contains(label, "where") {
						location = value
					}
					if strings.Contains(label, "employer") || strings.Contains(label, "company") || strings.Contains(label, "organisation") {
						company = value
					}
				})
				if location == "" && company == "" {
					summary := strings.TrimSpace(block.Find("p, li, .govuk-body").First().Text())
					if len(summary) > 200 {
						summary = summary[:200]
					}
					location = summary
				}

				if !MatchesKeywords(searchable(title, company, location), opts.Keywords) {
					return true
				}
				if title == "" {
					title = "Job"
				}

				jobs = append(jobs, &models.Job{
					Title:    title,
					Company:  company,
					Location: location,
					URL:      href,
					Source:   s.Name(),
					Remote:   "Unknown",
					Tags:     "UK, government",
				})
				return true
			})
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Find a Job search complete")
	return jobs, nil
}
