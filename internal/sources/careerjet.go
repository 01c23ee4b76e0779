package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// CareerJet fetches the public CareerJet search API using the free
// affiliate ID, 1000 calls per hour
type CareerJet struct {
	client *Client
	affid  string
	logger arbor.ILogger
}

func NewCareerJet(client *Client, affid string, logger arbor.ILogger) *CareerJet {
	return &CareerJet{client: client, affid: affid, logger: logger}
}

func (s *CareerJet) Name() string         { return "CareerJet" }
func (s *CareerJet) RequiresAPIKey() bool { return true }
func (s *CareerJet) Available() bool      { return s.affid != "" }

type careerjetHit struct {
	Title       string          `json:"title"`
	Company     string          `json:"company"`
	Locations   json.RawMessage `json:"locations"`
	Description string          `json:"description"`
	Snippet     string          `json:"snippet"`
	URL         string          `json:"url"`
	Date        string          `json:"date"`
}

// careerjetLocations flattens the locations field, served either as a
// string or a list
func careerjetLocations(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return joinList(list)
	}
	return ""
}

func (s *CareerJet) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	if !s.Available() {
		return nil, nil
	}

	jobs := []*models.Job{}
	seen := map[string]bool{}
	const pageSize = 100
	maxPages := (opts.MaxResults + pageSize - 1) / pageSize
	if maxPages < 1 {
		maxPages = 1
	}

	for _, keyword := range NormalizeKeywords(opts.Keywords, nil) {
		before := len(jobs)

		for page := 1; page <= maxPages && len(jobs)-before < opts.MaxResults; page++ {
			size := pageSize
			if remaining := opts.MaxResults - (len(jobs) - before); remaining < size {
				size = remaining
			}
			params := url.Values{
				"locale_code": {"en_GB"},
				"keywords":    {keyword},
				"affid":       {s.affid},
				"format":      {"json"},
				"pagesize":    {strconv.Itoa(size)},
				"page":        {strconv.Itoa(page)},
			}
			if opts.Location != "" {
				params.Set("location", opts.Location)
			}

			var payload struct {
				Hits []careerjetHit `json:"hits"`
			}
			if err := s.client.GetJSON(ctx, "http://public.api.careerjet.net/search", params, nil, &payload); err != nil {
				s.logger.Error().Err(err).Str("keyword", keyword).Msg("CareerJet search failed")
				break
			}
			if len(payload.Hits) == 0 {
				break
			}

			for _, item := range payload.Hits {
				if len(jobs)-before >= opts.MaxResults {
					break
				}
				if item.URL != "" {
					if seen[item.URL] {
						continue
					}
					seen[item.URL] = true
				}

				locations := careerjetLocations(item.Locations)
				description := item.Description
				if description == "" {
					description = item.Snippet
				}
				remote := "Unknown"
				if containsFold(locations, "remote") {
					remote = models.RemoteYes
				}

				jobs = append(jobs, &models.Job{
					Title:       item.Title,
					Company:     item.Company,
					Location:    locations,
					Description: htmltext.Sanitize(description),
					URL:         item.URL,
					Source:      s.Name(),
					Remote:      remote,
					DatePosted:  item.Date,
				})
			}
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("CareerJet search complete")
	return jobs, nil
}
