package sources

import (
	"context"
	"net/url"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Totaljobs parses the UK Totaljobs RSS search feed, one request per
// keyword, deduplicating on link across keywords
type Totaljobs struct {
	client *Client
	logger arbor.ILogger
}

func NewTotaljobs(client *Client, logger arbor.ILogger) *Totaljobs {
	return &Totaljobs{client: client, logger: logger}
}

func (s *Totaljobs) Name() string         { return "Totaljobs" }
func (s *Totaljobs) RequiresAPIKey() bool { return false }
func (s *Totaljobs) Available() bool      { return true }

func (s *Totaljobs) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}
	seen := map[string]bool{}

	for _, keyword := range NormalizeKeywords(opts.Keywords, nil) {
		params := url.Values{"keywords": {keyword}}
		if opts.Location != "" {
			params.Set("location", opts.Location)
		}

		data, err := s.client.GetBytes(ctx, "https://www.totaljobs.com/JobSearch/RSSLink.aspx", params, nil)
		if err != nil {
			s.logger.Error().Err(err).Str("keyword", keyword).Msg("Totaljobs feed failed")
			continue
		}
		items, err := parseRSS(data)
		if err != nil {
			s.logger.Error().Err(err).Str("keyword", keyword).Msg("Totaljobs feed unparseable")
			continue
		}

		before := len(jobs)
		for _, entry := range items {
			if len(jobs)-before >= opts.MaxResults {
				break
			}
			if entry.Link != "" {
				if seen[entry.Link] {
					continue
				}
				seen[entry.Link] = true
			}
			if !MatchesKeywords(searchable(entry.Title, entry.Description), opts.Keywords) {
				continue
			}

			jobs = append(jobs, &models.Job{
				Title:       entry.Title,
				Company:     entry.Author,
				Location:    opts.Location,
				Description: htmltext.Sanitize(entry.Description),
				URL:         entry.Link,
				Source:      s.Name(),
				Remote:      "Unknown",
				DatePosted:  rssDate(entry.PubDate),
			})
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Totaljobs search complete")
	return jobs, nil
}
