package sources

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Arbeitnow fetches from the free Arbeitnow job-board API, following the
// paginated links.next cursor up to a safety cap.
type Arbeitnow struct {
	client *Client
	logger arbor.ILogger
}

func NewArbeitnow(client *Client, logger arbor.ILogger) *Arbeitnow {
	return &Arbeitnow{client: client, logger: logger}
}

func (s *Arbeitnow) Name() string         { return "Arbeitnow" }
func (s *Arbeitnow) RequiresAPIKey() bool { return false }
func (s *Arbeitnow) Available() bool      { return true }

type arbeitnowPayload struct {
	Data []struct {
		Title       string   `json:"title"`
		CompanyName string   `json:"company_name"`
		Location    string   `json:"location"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		JobTypes    []string `json:"job_types"`
		Remote      bool     `json:"remote"`
		Slug        string   `json:"slug"`
		URL         string   `json:"url"`
		CreatedAt   int64    `json:"created_at"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

func (s *Arbeitnow) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}
	const maxPages = 5

	for page := 1; page <= maxPages && len(jobs) < opts.MaxResults; page++ {
		var payload arbeitnowPayload
		params := url.Values{"page": {strconv.Itoa(page)}}
		if err := s.client.GetJSON(ctx, "https://www.arbeitnow.com/api/job-board-api", params, nil, &payload); err != nil {
			s.logger.Error().Err(err).Int("page", page).Msg("Arbeitnow page failed")
			break
		}
		if len(payload.Data) == 0 {
			break
		}

		for _, item := range payload.Data {
			if len(jobs) >= opts.MaxResults {
				break
			}
			if opts.Remote == models.RemoteYes && !item.Remote {
				continue
			}
			if opts.Remote == models.RemoteOnSite && item.Remote {
				continue
			}

			tags := joinList(item.Tags)
			if !MatchesKeywords(searchable(item.Title, item.CompanyName, item.Description, tags), opts.Keywords) {
				continue
			}

			jobURL := item.URL
			if jobURL == "" {
				jobURL = "https://www.arbeitnow.com/view/" + item.Slug
			}

			remote := models.RemoteOnSite
			if item.Remote {
				remote = models.RemoteYes
			}
			jobType := joinList(item.JobTypes)
			if jobType == "" {
				jobType = opts.JobType
			}
			datePosted := ""
			if item.CreatedAt > 0 {
				datePosted = time.Unix(item.CreatedAt, 0).UTC().Format("2006-01-02")
			}

			jobs = append(jobs, &models.Job{
				Title:       item.Title,
				Company:     item.CompanyName,
				Location:    item.Location,
				Description: htmltext.Sanitize(item.Description),
				URL:         jobURL,
				Source:      s.Name(),
				Remote:      remote,
				JobType:     jobType,
				DatePosted:  datePosted,
				Tags:        tags,
			})
		}

		if payload.Links.Next == "" {
			break
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Arbeitnow search complete")
	return jobs, nil
}
