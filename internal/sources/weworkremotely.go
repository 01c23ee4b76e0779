package sources

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

var wwrFeeds = map[string]string{
	"programming":      "https://weworkremotely.com/categories/remote-programming-jobs.rss",
	"design":           "https://weworkremotely.com/categories/remote-design-jobs.rss",
	"devops":           "https://weworkremotely.com/categories/remote-devops-sysadmin-jobs.rss",
	"management":       "https://weworkremotely.com/categories/remote-management-and-finance-jobs.rss",
	"customer_support": "https://weworkremotely.com/categories/remote-customer-support-jobs.rss",
	"sales_marketing":  "https://weworkremotely.com/categories/remote-sales-and-marketing-jobs.rss",
	"all_others":       "https://weworkremotely.com/categories/remote-jobs.rss",
}

var wwrFeedTriggers = map[string][]string{
	"programming":      {"developer", "engineer", "software", "python", "java", "react", "backend", "frontend", "full stack", "web dev", "mobile"},
	"design":           {"design", "ux", "ui", "graphic", "creative"},
	"devops":           {"devops", "sysadmin", "infrastructure", "cloud", "aws", "azure", "kubernetes"},
	"management":       {"manager", "management", "finance", "accounting", "project"},
	"customer_support": {"customer", "support", "service"},
	"sales_marketing":  {"sales", "marketing", "growth", "seo", "content"},
}

// WeWorkRemotely parses the category RSS feeds, selecting feeds by
// keyword content. Feed titles carry the company as "Company: Title".
type WeWorkRemotely struct {
	client *Client
	logger arbor.ILogger
}

func NewWeWorkRemotely(client *Client, logger arbor.ILogger) *WeWorkRemotely {
	return &WeWorkRemotely{client: client, logger: logger}
}

func (s *WeWorkRemotely) Name() string         { return "WeWorkRemotely" }
func (s *WeWorkRemotely) RequiresAPIKey() bool { return false }
func (s *WeWorkRemotely) Available() bool      { return true }

func (s *WeWorkRemotely) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	// Remote-only board
	if opts.Remote == models.RemoteOnSite {
		return nil, nil
	}

	jobs := []*models.Job{}
	for feedName, feedURL := range selectWWRFeeds(opts.Keywords) {
		if len(jobs) >= opts.MaxResults {
			break
		}

		data, err := s.client.GetBytes(ctx, feedURL, nil, nil)
		if err != nil {
			s.logger.Error().Err(err).Str("feed", feedName).Msg("WeWorkRemotely feed failed")
			continue
		}
		items, err := parseRSS(data)
		if err != nil {
			s.logger.Error().Err(err).Str("feed", feedName).Msg("WeWorkRemotely feed unparseable")
			continue
		}

		for _, entry := range items {
			if len(jobs) >= opts.MaxResults {
				break
			}
			if !MatchesKeywords(searchable(entry.Title, entry.Description, feedName), opts.Keywords) {
				continue
			}

			company := ""
			title := entry.Title
			if idx := strings.Index(title, ":"); idx >= 0 {
				company = strings.TrimSpace(title[:idx])
				title = strings.TrimSpace(title[idx+1:])
			}

			tags := joinList(entry.Categories)
			if tags == "" {
				tags = feedName
			}
			jobType := opts.JobType
			if jobType == "" {
				jobType = "Full-time"
			}

			jobs = append(jobs, &models.Job{
				Title:       title,
				Company:     company,
				Location:    "Remote",
				Description: htmltext.Sanitize(entry.Description),
				URL:         entry.Link,
				Source:      s.Name(),
				Remote:      models.RemoteYes,
				JobType:     jobType,
				DatePosted:  rssDate(entry.PubDate),
				Tags:        tags,
			})
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("WeWorkRemotely search complete")
	return jobs, nil
}

// selectWWRFeeds picks the relevant category feeds for the keywords,
// falling back to programming plus the catch-all feed
func selectWWRFeeds(keywords []string) map[string]string {
	if len(keywords) == 0 {
		return wwrFeeds
	}
	combined := strings.ToLower(strings.Join(keywords, " "))

	selected := map[string]string{}
	for feedKey, triggers := range wwrFeedTriggers {
		for _, trigger := range triggers {
			if strings.Contains(combined, trigger) {
				selected[feedKey] = wwrFeeds[feedKey]
				break
			}
		}
	}
	if len(selected) == 0 {
		selected["programming"] = wwrFeeds["programming"]
		selected["all_others"] = wwrFeeds["all_others"]
	}
	return selected
}
