package sources

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Well-known Workable account subdomains (apply.workable.com/<name>);
// extra boards come from configuration
var workableDefaultBoards = []string{
	"commvault", "toggl", "taxjar", "hotjar", "mimecast",
	"dataiku", "getaccept", "typeform", "contentful", "algolia",
	"zapier", "automattic", "buffer", "doist",
	"trello", "pleo", "tide", "monzo",
	"deepl", "defined-ai", "synthesia",
	"detectify", "immunefi", "hackerone",
	"docplanner", "kry-livi",
	"recruitee", "personio", "factorial",
	"preply", "busuu", "babbel",
	"vinted", "catawiki", "vestiaire",
	"wise", "revolut", "n26", "mollie",
	"paradox-interactive",
	"omnipresent", "oyster-1", "remote-3",
	"bolt-6", "blablacar", "glovo", "getaround",
	"onfido", "veriff",
	"sketch", "figma-2",
	"mixpanel", "pendo",
	"sentry-2", "logdna",
}

// Workable walks the public widget API across a list of account
// subdomains, emitting a batch per board
type Workable struct {
	client *Client
	boards []string
	logger arbor.ILogger
}

func NewWorkable(client *Client, boards []string, logger arbor.ILogger) *Workable {
	if len(boards) == 0 {
		boards = workableDefaultBoards
	}
	return &Workable{client: client, boards: boards, logger: logger}
}

func (s *Workable) Name() string         { return "Workable" }
func (s *Workable) RequiresAPIKey() bool { return false }
func (s *Workable) Available() bool      { return true }

type workableListing struct {
	Title          string          `json:"title"`
	Department     string          `json:"department"`
	Location       json.RawMessage `json:"location"`
	Telecommuting  bool            `json:"telecommuting"`
	Shortcode      string          `json:"shortcode"`
	ID             string          `json:"id"`
	URL            string          `json:"url"`
	PublishedOn    string          `json:"published_on"`
	CreatedAt      string          `json:"created_at"`
	Description    string          `json:"description"`
	EmploymentType string          `json:"employment_type"`
	Type           string          `json:"type"`
}

// workableLocation decodes the location field, served either as a
// string or as an object with city/region/country parts
func workableLocation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var obj struct {
		City        string `json:"city"`
		Region      string `json:"region"`
		Country     string `json:"country"`
		LocationStr string `json:"location_str"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	parts := []string{}
	for _, p := range []string{obj.City, obj.Region, obj.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return obj.LocationStr
}

func (s *Workable) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}
	for _, board := range s.boards {
		if len(jobs) >= opts.MaxResults {
			break
		}

		// The widget returns either {"jobs": [...]} or a bare list
		endpoint := "https://apply.workable.com/api/v1/widget/accounts/" + board
		data, err := s.client.GetBytes(ctx, endpoint, nil, nil)
		if err != nil {
			s.logger.Debug().Err(err).Str("board", board).Msg("Workable board skipped")
			continue
		}
		var listings []workableListing
		var wrapped struct {
			Jobs []workableListing `json:"jobs"`
		}
		if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Jobs != nil {
			listings = wrapped.Jobs
		} else if err := json.Unmarshal(data, &listings); err != nil {
			s.logger.Debug().Err(err).Str("board", board).Msg("Workable board unparseable")
			continue
		}

		batch := []*models.Job{}
		for _, item := range listings {
			if len(jobs)+len(batch) >= opts.MaxResults {
				break
			}

			location := workableLocation(item.Location)
			if !MatchesKeywords(searchable(item.Title, board, location, item.Department), opts.Keywords) {
				continue
			}

			isRemote := item.Telecommuting || containsFold(location, "remote")
			if opts.Remote == models.RemoteOnSite && isRemote {
				continue
			}
			if opts.Remote == models.RemoteYes && !isRemote {
				continue
			}

			jobURL := item.URL
			if jobURL == "" {
				shortcode := item.Shortcode
				if shortcode == "" {
					shortcode = item.ID
				}
				if shortcode != "" {
					jobURL = "https://apply.workable.com/" + board + "/j/" + shortcode + "/"
				}
			}

			datePosted := item.PublishedOn
			if datePosted == "" {
				datePosted = item.CreatedAt
			}
			if idx := strings.Index(datePosted, "T"); idx > 0 {
				datePosted = datePosted[:idx]
			}

			jobType := item.EmploymentType
			if jobType == "" {
				jobType = item.Type
			}
			remote := models.RemoteOnSite
			if isRemote {
				remote = models.RemoteYes
			}

			batch = append(batch, &models.Job{
				Title:       item.Title,
				Company:     titleCase(strings.ReplaceAll(board, "-", " ")),
				Location:    location,
				Description: htmltext.Sanitize(item.Description),
				URL:         jobURL,
				Source:      s.Name(),
				Remote:      remote,
				JobType:     employmentType(jobType),
				DatePosted:  datePosted,
				Tags:        joinList([]string{item.Department, board}),
			})
		}

		jobs = append(jobs, batch...)
		emitBatch(opts, batch)
	}

	s.logger.Info().Int("jobs", len(jobs)).Int("boards", len(s.boards)).Msg("Workable search complete")
	return jobs, nil
}
