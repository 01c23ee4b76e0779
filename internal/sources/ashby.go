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

// Well-known Ashby board names (jobs.ashbyhq.com/<name>); extra boards
// come from configuration
var ashbyDefaultBoards = []string{
	"Anthropic", "Perplexity", "Stability", "Cohere",
	"Character", "ElevenLabs",
	"Linear", "Vercel", "Railway", "Fly", "Resend",
	"Neon", "Turso", "Convex", "Inngest",
	"Ramp", "Brex", "Mercury",
	"Wiz", "Huntress", "Materialize",
	"Fivetran", "Census", "Hightouch", "Hex",
	"Alma", "Spring Health", "Headway",
	"Deel", "Ashby", "Gusto", "Rippling",
	"Faire", "Whatnot",
	"Loom", "Pitch", "Rows",
	"Anduril", "Flexport", "Verkada", "Samsara",
	"Plaid", "Retool", "Notion",
	"Figma", "GitLab",
	"Deliveroo", "Away",
	"FerretDB", "FlockSafety",
}

// Ashby walks the public Ashby posting API across a list of board names,
// emitting a batch per board
type Ashby struct {
	client *Client
	boards []string
	logger arbor.ILogger
}

func NewAshby(client *Client, boards []string, logger arbor.ILogger) *Ashby {
	if len(boards) == 0 {
		boards = ashbyDefaultBoards
	}
	return &Ashby{client: client, boards: boards, logger: logger}
}

func (s *Ashby) Name() string         { return "Ashby" }
func (s *Ashby) RequiresAPIKey() bool { return false }
func (s *Ashby) Available() bool      { return true }

type ashbyCompTier struct {
	Min      interface{} `json:"min"`
	Max      interface{} `json:"max"`
	Currency string      `json:"currency"`
}

type ashbyPosting struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Department     string          `json:"department"`
	Location       json.RawMessage `json:"location"`
	EmploymentType string          `json:"employmentType"`
	IsRemote       bool            `json:"isRemote"`
	Compensation   struct {
		CompensationTierSummary []ashbyCompTier `json:"compensationTierSummary"`
		Tiers                   []ashbyCompTier `json:"tiers"`
		Min                     interface{}     `json:"min"`
		Max                     interface{}     `json:"max"`
		Currency                string          `json:"currency"`
	} `json:"compensation"`
	JobURL           string `json:"jobUrl"`
	ApplyURL         string `json:"applyUrl"`
	PublishedDate    string `json:"publishedDate"`
	PublishedAt      string `json:"publishedAt"`
	DescriptionPlain string `json:"descriptionPlain"`
	DescriptionHTML  string `json:"descriptionHtml"`
}

// ashbyLocation decodes the location field, which Ashby serves either as
// a string or as {"name": ...}
func ashbyLocation(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

func employmentType(raw string) string {
	if raw == "" {
		return ""
	}
	el := strings.ToLower(raw)
	switch {
	case strings.Contains(el, "full"):
		return "Full-time"
	case strings.Contains(el, "part"):
		return "Part-time"
	case strings.Contains(el, "contract"), strings.Contains(el, "freelance"), strings.Contains(el, "temporary"):
		return "Contract"
	case strings.Contains(el, "intern"):
		return "Internship"
	}
	return raw
}

func (s *Ashby) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}
	params := url.Values{"includeCompensation": {"true"}}

	for _, board := range s.boards {
		if len(jobs) >= opts.MaxResults {
			break
		}

		var payload struct {
			Jobs []ashbyPosting `json:"jobs"`
		}
		endpoint := "https://api.ashbyhq.com/posting-api/job-board/" + url.PathEscape(board)
		if err := s.client.GetJSON(ctx, endpoint, params, nil, &payload); err != nil {
			s.logger.Debug().Err(err).Str("board", board).Msg("Ashby board skipped")
			continue
		}

		batch := []*models.Job{}
		for _, item := range payload.Jobs {
			if len(jobs)+len(batch) >= opts.MaxResults {
				break
			}

			location := ashbyLocation(item.Location)
			if !MatchesKeywords(searchable(item.Title, board, location, item.Department), opts.Keywords) {
				continue
			}

			isRemote := item.IsRemote || containsFold(location, "remote")
			if opts.Remote == models.RemoteOnSite && isRemote {
				continue
			}
			if opts.Remote == models.RemoteYes && !isRemote {
				continue
			}

			var sMin, sMax *float64
			currency := ""
			tiers := item.Compensation.CompensationTierSummary
			if len(tiers) == 0 {
				tiers = item.Compensation.Tiers
			}
			if len(tiers) > 0 {
				sMin = htmltext.SafeFloat(tiers[0].Min)
				sMax = htmltext.SafeFloat(tiers[0].Max)
				currency = tiers[0].Currency
				if currency == "" {
					currency = item.Compensation.Currency
				}
			} else {
				sMin = htmltext.SafeFloat(item.Compensation.Min)
				sMax = htmltext.SafeFloat(item.Compensation.Max)
				currency = item.Compensation.Currency
			}
			if salaryExcluded(opts.SalaryMin, sMax) {
				continue
			}

			jobURL := item.JobURL
			if jobURL == "" {
				jobURL = item.ApplyURL
			}
			if jobURL == "" && item.ID != "" {
				jobURL = "https://jobs.ashbyhq.com/" + board + "/" + item.ID
			}

			datePosted := item.PublishedDate
			if datePosted == "" {
				datePosted = item.PublishedAt
			}
			if idx := strings.Index(datePosted, "T"); idx > 0 {
				datePosted = datePosted[:idx]
			}

			company := board
			if strings.Contains(board, "-") {
				company = titleCase(strings.ReplaceAll(board, "-", " "))
			}
			remote := models.RemoteOnSite
			if isRemote {
				remote = models.RemoteYes
			}
			description := item.DescriptionPlain
			if description == "" {
				description = item.DescriptionHTML
			}

			batch = append(batch, &models.Job{
				Title:          item.Title,
				Company:        company,
				Location:       location,
				Description:    htmltext.Sanitize(description),
				URL:            jobURL,
				Source:         s.Name(),
				Remote:         remote,
				SalaryMin:      sMin,
				SalaryMax:      sMax,
				SalaryCurrency: currency,
				JobType:        employmentType(item.EmploymentType),
				DatePosted:     datePosted,
				Tags:           joinList([]string{item.Department, board}),
			})
		}

		jobs = append(jobs, batch...)
		emitBatch(opts, batch)
	}

	s.logger.Info().Int("jobs", len(jobs)).Int("boards", len(s.boards)).Msg("Ashby search complete")
	return jobs, nil
}
