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

// RemoteCo scrapes the Remote.co search page. Card markup shifts between
// site redesigns, so the selectors stay broad.
type RemoteCo struct {
	client *Client
	logger arbor.ILogger
}

func NewRemoteCo(client *Client, logger arbor.ILogger) *RemoteCo {
	return &RemoteCo{client: client, logger: logger}
}

func (s *RemoteCo) Name() string         { return "Remote.co" }
func (s *RemoteCo) RequiresAPIKey() bool { return false }
func (s *RemoteCo) Available() bool      { return true }

func (s *RemoteCo) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	// Remote-only board
	if opts.Remote == models.RemoteOnSite {
		return nil, nil
	}

	jobs := []*models.Job{}
	seen := map[string]bool{}

	for _, keyword := range NormalizeKeywords(opts.Keywords, nil) {
		params := url.Values{"search_keywords": {keyword}}
		data, err := s.client.GetBytes(ctx, "https://remote.co/remote-jobs/search/", params,
			map[string]string{"Accept": "text/html"})
		if err != nil {
			s.logger.Error().Err(err).Str("keyword", keyword).Msg("Remote.co search failed")
			continue
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
		if err != nil {
			s.logger.Error().Err(err).Str("keyword", keyword).Msg("Remote.co page unparseable")
			continue
		}

		before := len(jobs)
		doc.Find(".job_listing, .job-listing, article.job, .job-listings .job, [class*='job-card']").
			EachWithBreak(func(_ int, card *goquery.Selection) bool {
				if len(jobs)-before >= opts.MaxResults {
					return false
				}

				link := card.Find("a[href*='/job/'], a[href*='remote.co']").First()
				title := strings.TrimSpace(card.Find("h2, h3, .title, .job-title, [class*='title']").First().Text())
				if title == "" {
					title = strings.TrimSpace(link.Text())
				}
				company := strings.TrimSpace(card.Find(".company, .employer, [class*='company']").First().Text())
				description := strings.TrimSpace(card.Find(".description, .excerpt, [class*='description']").First().Text())

				jobURL, _ := link.Attr("href")
				if strings.HasPrefix(jobURL, "/") {
					jobURL = "https://remote.co" + jobURL
				}

				if title == "" && jobURL == "" {
					return true
				}
				if jobURL != "" {
					if seen[jobURL] {
						return true
					}
					seen[jobURL] = true
				}
				if !MatchesKeywords(searchable(title, company, description), opts.Keywords) {
					return true
				}

				if title == "" {
					title = "Remote job"
				}
				if jobURL == "" {
					jobURL = "https://remote.co"
				}

				jobs = append(jobs, &models.Job{
					Title:       title,
					Company:     company,
					Location:    "Remote",
					Description: description,
					URL:         jobURL,
					Source:      s.Name(),
					Remote:      models.RemoteYes,
				})
				return true
			})
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Remote.co search complete")
	return jobs, nil
}
