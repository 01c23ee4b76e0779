package sources

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Well-known Lever company slugs (jobs.lever.co/<slug>); extra boards
// come from configuration
var leverDefaultBoards = []string{
	"netflix", "atlassian", "shopify", "twitch",
	"ampla", "clearco", "nuvei", "payoneer", "plaid",
	"grafana", "postman", "snyk", "sentry", "supabase", "render",
	"sourcegraph", "temporal", "hasura", "prisma",
	"openai", "cohere", "weights-and-biases", "jasper",
	"replicate", "huggingface",
	"tailscale", "teleport", "lacework", "orca-security",
	"canva", "miro", "notion", "coda",
	"faire", "whatnot", "goat", "poshmark",
	"deel", "oysterhr", "remotecom", "lattice", "culture-amp",
	"tempus", "color", "ro", "alma", "hims",
	"ramp", "brex", "mercury", "moderntreasury",
	"dbt-labs", "preset", "metabase", "monte-carlo-data",
	"loom", "calendly", "bereal",
	"anduril", "flexport", "abridge", "applied-intuition",
	"cruise", "nuro", "zipline", "relativity",
	"benchling", "samsara", "verkada",
	"lucidmotors", "rivian",
	"wealthsimple", "robinhood",
}

// Lever walks the public Lever Postings API across a list of company
// slugs, emitting a batch per board
type Lever struct {
	client *Client
	boards []string
	logger arbor.ILogger
}

func NewLever(client *Client, boards []string, logger arbor.ILogger) *Lever {
	if len(boards) == 0 {
		boards = leverDefaultBoards
	}
	return &Lever{client: client, boards: boards, logger: logger}
}

func (s *Lever) Name() string         { return "Lever" }
func (s *Lever) RequiresAPIKey() bool { return false }
func (s *Lever) Available() bool      { return true }

type leverPosting struct {
	Text       string `json:"text"`
	Categories struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Department string `json:"department"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	WorkplaceType string `json:"workplaceType"`
	SalaryRange   struct {
		Min      interface{} `json:"min"`
		Max      interface{} `json:"max"`
		Currency string      `json:"currency"`
	} `json:"salaryRange"`
	HostedURL        string `json:"hostedUrl"`
	CreatedAt        int64  `json:"createdAt"`
	Description      string `json:"description"`
	DescriptionPlain string `json:"descriptionPlain"`
}

func leverRemote(item leverPosting) string {
	switch item.WorkplaceType {
	case "remote":
		return models.RemoteYes
	case "hybrid":
		return models.RemoteHybrid
	case "on-site":
		return models.RemoteOnSite
	}
	if containsFold(item.Categories.Location, "remote") {
		return models.RemoteYes
	}
	return "Unknown"
}

func leverJobType(commitment string) string {
	if commitment == "" {
		return ""
	}
	cl := strings.ToLower(commitment)
	switch {
	case strings.Contains(cl, "full"):
		return "Full-time"
	case strings.Contains(cl, "part"):
		return "Part-time"
	case strings.Contains(cl, "contract"), strings.Contains(cl, "freelance"):
		return "Contract"
	case strings.Contains(cl, "intern"):
		return "Internship"
	}
	return commitment
}

func (s *Lever) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}
	for _, board := range s.boards {
		if len(jobs) >= opts.MaxResults {
			break
		}

		var postings []leverPosting
		url := "https://api.lever.co/v0/postings/" + board + "?mode=json"
		if err := s.client.GetJSON(ctx, url, nil, nil, &postings); err != nil {
			s.logger.Debug().Err(err).Str("board", board).Msg("Lever board skipped")
			continue
		}

		batch := []*models.Job{}
		for _, item := range postings {
			if len(jobs)+len(batch) >= opts.MaxResults {
				break
			}

			if !MatchesKeywords(searchable(item.Text, board, item.Categories.Location,
				item.Categories.Team, item.Categories.Department), opts.Keywords) {
				continue
			}

			remote := leverRemote(item)
			if opts.Remote == models.RemoteOnSite && remote == models.RemoteYes {
				continue
			}
			if opts.Remote == models.RemoteYes && remote != models.RemoteYes && remote != "Unknown" {
				continue
			}

			sMin := htmltext.SafeFloat(item.SalaryRange.Min)
			sMax := htmltext.SafeFloat(item.SalaryRange.Max)
			if salaryExcluded(opts.SalaryMin, sMax) {
				continue
			}

			description := item.DescriptionPlain
			if description == "" {
				description = item.Description
			}
			datePosted := ""
			if item.CreatedAt > 0 {
				datePosted = time.UnixMilli(item.CreatedAt).UTC().Format("2006-01-02")
			}

			batch = append(batch, &models.Job{
				Title:          item.Text,
				Company:        titleCase(strings.ReplaceAll(board, "-", " ")),
				Location:       item.Categories.Location,
				Description:    htmltext.Sanitize(description),
				URL:            item.HostedURL,
				Source:         s.Name(),
				Remote:         remote,
				SalaryMin:      sMin,
				SalaryMax:      sMax,
				SalaryCurrency: item.SalaryRange.Currency,
				JobType:        leverJobType(item.Categories.Commitment),
				DatePosted:     datePosted,
				Tags:           joinList([]string{item.Categories.Team, item.Categories.Department, board}),
			})
		}

		jobs = append(jobs, batch...)
		emitBatch(opts, batch)
	}

	s.logger.Info().Int("jobs", len(jobs)).Int("boards", len(s.boards)).Msg("Lever search complete")
	return jobs, nil
}
