package sources

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/models"
)

var hiringThreadPattern = regexp.MustCompile(`(?i)who\s+is\s+hiring\?\s*\([^)]+\)`)

// HNHiring surfaces the monthly Hacker News "Who is hiring?" threads via
// the Algolia HN Search API, as links into the comment threads
type HNHiring struct {
	client *Client
	logger arbor.ILogger
}

func NewHNHiring(client *Client, logger arbor.ILogger) *HNHiring {
	return &HNHiring{client: client, logger: logger}
}

func (s *HNHiring) Name() string         { return "HN Who is hiring" }
func (s *HNHiring) RequiresAPIKey() bool { return false }
func (s *HNHiring) Available() bool      { return true }

func (s *HNHiring) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	params := url.Values{
		"query":       {"Who is hiring"},
		"tags":        {"story"},
		"hitsPerPage": {"50"},
	}

	var payload struct {
		Hits []struct {
			Title     string `json:"title"`
			ObjectID  string `json:"objectID"`
			StoryID   int64  `json:"story_id"`
			CreatedAt string `json:"created_at"`
		} `json:"hits"`
	}
	if err := s.client.GetJSON(ctx, "https://hn.algolia.com/api/v1/search_by_date", params, nil, &payload); err != nil {
		s.logger.Error().Err(err).Msg("HN hiring search failed")
		return nil, err
	}

	jobs := []*models.Job{}
	for _, hit := range payload.Hits {
		if len(jobs) >= opts.MaxResults {
			break
		}
		titleLower := strings.ToLower(hit.Title)
		if !hiringThreadPattern.MatchString(hit.Title) && !strings.Contains(titleLower, "who is hiring") {
			continue
		}
		// Only the canonical monthly thread format
		if !strings.Contains(titleLower, "who is hiring?") {
			continue
		}

		storyID := hit.ObjectID
		if hit.StoryID > 0 {
			storyID = strconv.FormatInt(hit.StoryID, 10)
		}
		datePosted := hit.CreatedAt
		if len(datePosted) > 10 {
			datePosted = datePosted[:10]
		}

		jobs = append(jobs, &models.Job{
			Title:       hit.Title,
			Company:     "Hacker News",
			Description: "Monthly Hacker News 'Who is hiring?' thread. Click to open the thread and browse job postings in the comments.",
			URL:         "https://news.ycombinator.com/item?id=" + storyID,
			Source:      s.Name(),
			Remote:      "Unknown",
			DatePosted:  datePosted,
			Tags:        "hn, who is hiring, remote, tech",
		})
	}

	s.logger.Info().Int("threads", len(jobs)).Msg("HN hiring search complete")
	return jobs, nil
}
