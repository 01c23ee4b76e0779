package sources

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Lobsters parses the Lobste.rs job-tag RSS feed
type Lobsters struct {
	client *Client
	logger arbor.ILogger
}

func NewLobsters(client *Client, logger arbor.ILogger) *Lobsters {
	return &Lobsters{client: client, logger: logger}
}

func (s *Lobsters) Name() string         { return "Lobsters" }
func (s *Lobsters) RequiresAPIKey() bool { return false }
func (s *Lobsters) Available() bool      { return true }

func (s *Lobsters) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	data, err := s.client.GetBytes(ctx, "https://lobste.rs/t/job.rss", nil, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Lobsters feed failed")
		return nil, err
	}
	items, err := parseRSS(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("Lobsters feed unparseable")
		return nil, err
	}

	jobs := []*models.Job{}
	for _, entry := range items {
		if len(jobs) >= opts.MaxResults {
			break
		}
		if !MatchesKeywords(searchable(entry.Title, entry.Description), opts.Keywords) {
			continue
		}

		jobs = append(jobs, &models.Job{
			Title:       entry.Title,
			Description: htmltext.Sanitize(entry.Description),
			URL:         entry.Link,
			Source:      s.Name(),
			Remote:      "Unknown",
			DatePosted:  rssDate(entry.PubDate),
			Tags:        "lobsters, job",
		})
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Lobsters search complete")
	return jobs, nil
}
