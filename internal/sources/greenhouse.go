package sources

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/models"
)

// Well-known Greenhouse board tokens (boards.greenhouse.io/<token>).
// Boards that 404 after a rename get pruned to keep the logs quiet;
// extra boards come from configuration.
var greenhouseDefaultBoards = []string{
	"stripe", "brex", "robinhood", "chime", "affirm", "marqeta",
	"checkr", "mercury", "remotecom",
	"gitlab", "jetbrains",
	"datadog", "newrelic", "honeycomb", "pagerduty", "launchdarkly",
	"vercel", "netlify", "cloudflare",
	"mongodb", "elastic", "cockroachlabs", "planetscale",
	"twilio", "mixpanel", "amplitude", "braze", "customerio",
	"figma", "asana", "airtable", "webflow",
	"anthropic", "databricks", "fivetran",
	"instacart", "gopuff", "getir", "gorillas",
	"flexport", "shipbob", "fabric", "bolt",
	"discord", "reddit", "pinterest", "snap", "spotify", "soundcloud",
	"twitch", "kick",
	"automattic", "canonical", "dropbox", "box", "zapier", "hubspot",
	"salesforce", "servicenow", "workday", "okta", "crowdstrike", "paloaltonetworks",
	"lattice", "rippling", "gusto", "justworks", "remote",
	"superhuman", "loom", "calendly", "cal", "front", "intercom", "zendesk",
	"contentful", "sanity", "builderio",
	"1password", "bitwarden", "dashlane",
	"nvidia", "amd", "qualcomm", "intel",
	"rivian", "lucid", "nuro", "waymo", "cruise", "aurora", "zoox",
	"spacex", "relativityspace", "blueorigin", "planet",
	"oscar", "devoted", "clover", "brighthealth", "alignment",
	"coursera", "udemy", "duolingo", "quizlet", "chegg", "coursehero",
	"niantic", "roblox", "unity", "epicgames", "scopely",
	"vimeo", "dailymotion",
	"yelp", "tripadvisor", "expedia", "booking",
	"bloomberg", "reuters", "theguardian",
	"nytimes", "washingtonpost", "voxmedia", "vice", "buzzfeed",
	"warbyparker", "allbirds", "glossier", "casper", "away",
	"nordstrom", "target", "walmart", "bestbuy", "homedepot",
	"imgur", "stackoverflow", "quora",
	"circleci", "travisci",
	"samsara", "convoy", "project44",
	"carta", "capshare", "pulley", "ledgy",
	"lendable", "prosper", "sofi", "better", "blend",
	"cerebras", "sambanova", "graphcore",
	"scale", "labelbox", "scaleai", "outlier",
	"anduril", "palantir", "shieldai",
	"zenefits", "namely", "bamboohr",
	"figment", "chainalysis", "circle", "coinbase", "kraken", "gemini",
	"stability", "midjourney", "runway",
	"coda", "clickup",
	"fastly", "akamai",
	"vonage", "bandwidth", "messagebird",
	"mparticle", "heap",
	"freshdesk", "helpscout", "crisp",
	"snyk", "sonarqube", "veracode", "checkmarx",
	"drata", "secureframe", "vanta", "thoropass",
}

// Greenhouse walks the public Greenhouse board API across a list of
// company board tokens. No key needed.
type Greenhouse struct {
	client *Client
	boards []string
	logger arbor.ILogger
}

func NewGreenhouse(client *Client, boards []string, logger arbor.ILogger) *Greenhouse {
	if len(boards) == 0 {
		boards = greenhouseDefaultBoards
	}
	return &Greenhouse{client: client, boards: boards, logger: logger}
}

func (s *Greenhouse) Name() string         { return "Greenhouse" }
func (s *Greenhouse) RequiresAPIKey() bool { return false }
func (s *Greenhouse) Available() bool      { return true }

type greenhouseListing struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	AbsoluteURL string `json:"absolute_url"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	FirstPublished string `json:"first_published"`
}

func (s *Greenhouse) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}
	for _, board := range s.boards {
		if len(jobs) >= opts.MaxResults {
			break
		}

		var payload struct {
			Jobs []greenhouseListing `json:"jobs"`
		}
		url := "https://boards-api.greenhouse.io/v1/boards/" + board + "/jobs"
		if err := s.client.GetJSON(ctx, url, nil, nil, &payload); err != nil {
			s.logger.Debug().Err(err).Str("board", board).Msg("Greenhouse board skipped")
			continue
		}

		for _, item := range payload.Jobs {
			if len(jobs) >= opts.MaxResults {
				break
			}

			company := item.CompanyName
			if company == "" {
				company = titleCase(board)
			}
			if !MatchesKeywords(searchable(item.Title, company, item.Location.Name), opts.Keywords) {
				continue
			}

			isRemote := containsFold(item.Location.Name, "remote")
			if opts.Remote == models.RemoteOnSite && isRemote {
				continue
			}
			if opts.Remote == models.RemoteYes && !isRemote {
				continue
			}

			remote := models.RemoteOnSite
			if isRemote {
				remote = models.RemoteYes
			}
			datePosted := item.FirstPublished
			if len(datePosted) > 10 {
				datePosted = datePosted[:10]
			}

			jobs = append(jobs, &models.Job{
				Title:      item.Title,
				Company:    company,
				Location:   item.Location.Name,
				URL:        item.AbsoluteURL,
				Source:     s.Name(),
				Remote:     remote,
				DatePosted: datePosted,
				Tags:       board,
			})
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Greenhouse search complete")
	return jobs, nil
}
