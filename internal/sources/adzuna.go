package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Adzuna fetches the Adzuna search API. Needs the free app_id/app_key
// pair from developer.adzuna.com.
type Adzuna struct {
	client *Client
	config *common.AdzunaConfig
	logger arbor.ILogger
}

func NewAdzuna(client *Client, config *common.AdzunaConfig, logger arbor.ILogger) *Adzuna {
	return &Adzuna{client: client, config: config, logger: logger}
}

func (s *Adzuna) Name() string         { return "Adzuna" }
func (s *Adzuna) RequiresAPIKey() bool { return true }
func (s *Adzuna) Available() bool      { return s.config.AppID != "" && s.config.AppKey != "" }

type adzunaResult struct {
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		Area        []string `json:"area"`
		DisplayName string   `json:"display_name"`
	} `json:"location"`
	Description string      `json:"description"`
	RedirectURL string      `json:"redirect_url"`
	SalaryMin   interface{} `json:"salary_min"`
	SalaryMax   interface{} `json:"salary_max"`
	Category    struct {
		Label string `json:"label"`
	} `json:"category"`
	ContractTime string `json:"contract_time"`
	Created      string `json:"created"`
}

func (s *Adzuna) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	if !s.Available() {
		s.logger.Info().Msg("Adzuna skipped, API keys not configured")
		return nil, nil
	}

	country := s.config.Country
	if country == "" {
		country = "gb"
	}
	currency := "USD"
	if country == "gb" {
		currency = "GBP"
	}

	jobs := []*models.Job{}
	seen := map[string]bool{}
	const resultsPerPage = 50
	maxPages := opts.MaxResults / resultsPerPage
	if maxPages < 1 {
		maxPages = 1
	}

	for _, keyword := range NormalizeKeywords(opts.Keywords, nil) {
		before := len(jobs)

		for page := 1; page <= maxPages; page++ {
			if len(jobs)-before >= opts.MaxResults {
				break
			}

			params := url.Values{
				"app_id":           {s.config.AppID},
				"app_key":          {s.config.AppKey},
				"what":             {keyword},
				"results_per_page": {strconv.Itoa(resultsPerPage)},
				"content-type":     {"application/json"},
			}
			if opts.Location != "" {
				params.Set("where", opts.Location)
			}
			if opts.SalaryMin != nil {
				params.Set("salary_min", strconv.Itoa(int(*opts.SalaryMin)))
			}

			var payload struct {
				Results []adzunaResult `json:"results"`
			}
			endpoint := "https://api.adzuna.com/v1/api/jobs/" + country + "/search/" + strconv.Itoa(page)
			if err := s.client.GetJSON(ctx, endpoint, params, nil, &payload); err != nil {
				s.logger.Error().Err(err).Str("keyword", keyword).Int("page", page).Msg("Adzuna page failed")
				break
			}
			if len(payload.Results) == 0 {
				break
			}

			for _, item := range payload.Results {
				if len(jobs)-before >= opts.MaxResults {
					break
				}
				if item.RedirectURL != "" {
					if seen[item.RedirectURL] {
						continue
					}
					seen[item.RedirectURL] = true
				}

				location := item.Location.DisplayName
				if len(item.Location.Area) > 0 {
					location = strings.Join(item.Location.Area, ", ")
				}

				isRemote := containsFold(item.Title+" "+item.Description, "remote")
				if opts.Remote == models.RemoteYes && !isRemote {
					continue
				}
				if opts.Remote == models.RemoteOnSite && isRemote {
					continue
				}

				jobType := ""
				if item.ContractTime != "" {
					jobType = titleCase(strings.ReplaceAll(item.ContractTime, "_", " "))
				}
				remote := models.RemoteOnSite
				if isRemote {
					remote = models.RemoteYes
				}

				jobs = append(jobs, &models.Job{
					Title:          htmltext.StripTags(item.Title),
					Company:        item.Company.DisplayName,
					Location:       location,
					Description:    htmltext.Sanitize(item.Description),
					URL:            item.RedirectURL,
					Source:         s.Name(),
					Remote:         remote,
					SalaryMin:      htmltext.SafeFloat(item.SalaryMin),
					SalaryMax:      htmltext.SafeFloat(item.SalaryMax),
					SalaryCurrency: currency,
					JobType:        jobType,
					DatePosted:     item.Created,
					Tags:           item.Category.Label,
				})
			}
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Adzuna search complete")
	return jobs, nil
}
