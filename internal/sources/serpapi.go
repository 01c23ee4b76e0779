package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// GoogleJobs searches Google's job aggregation through SerpAPI. Free
// tier is 100 searches a month, so pagination stays conservative.
type GoogleJobs struct {
	client *Client
	apiKey string
	logger arbor.ILogger
}

func NewGoogleJobs(client *Client, apiKey string, logger arbor.ILogger) *GoogleJobs {
	return &GoogleJobs{client: client, apiKey: apiKey, logger: logger}
}

func (s *GoogleJobs) Name() string         { return "Google Jobs" }
func (s *GoogleJobs) RequiresAPIKey() bool { return true }
func (s *GoogleJobs) Available() bool      { return s.apiKey != "" }

type serpJobResult struct {
	Title              string `json:"title"`
	CompanyName        string `json:"company_name"`
	Location           string `json:"location"`
	Description        string `json:"description"`
	Via                string `json:"via"`
	Thumbnail          string `json:"thumbnail"`
	ShareLink          string `json:"share_link"`
	DetectedExtensions struct {
		PostedAt     string `json:"posted_at"`
		ScheduleType string `json:"schedule_type"`
		WorkFromHome bool   `json:"work_from_home"`
		Salary       string `json:"salary"`
	} `json:"detected_extensions"`
	ApplyOptions []struct {
		Link string `json:"link"`
	} `json:"apply_options"`
	RelatedLinks []struct {
		Link string `json:"link"`
	} `json:"related_links"`
	JobHighlights []struct {
		Title string `json:"title"`
	} `json:"job_highlights"`
}

func serpChips(remote, jobType string) string {
	chips := []string{}
	if remote == models.RemoteYes {
		chips = append(chips, "city:Anywhere")
	}
	if jobType != "" {
		switch jt := strings.ToLower(jobType); {
		case strings.Contains(jt, "full"):
			chips = append(chips, "employment_type:FULLTIME")
		case strings.Contains(jt, "part"):
			chips = append(chips, "employment_type:PARTTIME")
		case strings.Contains(jt, "contract"):
			chips = append(chips, "employment_type:CONTRACTOR")
		case strings.Contains(jt, "intern"):
			chips = append(chips, "employment_type:INTERN")
		}
	}
	return strings.Join(chips, ",")
}

func (s *GoogleJobs) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	if !s.Available() {
		s.logger.Info().Msg("Google Jobs skipped, SerpAPI key not configured")
		return nil, nil
	}

	jobs := []*models.Job{}
	for _, keyword := range opts.Keywords {
		before := len(jobs)

		query := keyword
		if opts.Location != "" {
			query += " in " + opts.Location
		}
		if opts.Remote == models.RemoteYes {
			query += " remote"
		}

		params := url.Values{
			"engine":  {"google_jobs"},
			"q":       {query},
			"api_key": {s.apiKey},
		}
		if chips := serpChips(opts.Remote, opts.JobType); chips != "" {
			params.Set("chips", chips)
		}

		// Google Jobs returns roughly 10 results per page behind a
		// start token
		for start := 0; len(jobs)-before < opts.MaxResults; start += 10 {
			if start > 0 {
				params.Set("start", strconv.Itoa(start))
			}
			num := opts.MaxResults - (len(jobs) - before)
			if num > 10 {
				num = 10
			}
			params.Set("num", strconv.Itoa(num))

			var payload struct {
				JobsResults       []serpJobResult `json:"jobs_results"`
				SerpAPIPagination struct {
					Next string `json:"next"`
				} `json:"serpapi_pagination"`
			}
			if err := s.client.GetJSON(ctx, "https://serpapi.com/search.json", params, nil, &payload); err != nil {
				s.logger.Error().Err(err).Str("keyword", keyword).Msg("Google Jobs search failed")
				break
			}
			if len(payload.JobsResults) == 0 {
				break
			}

			for _, item := range payload.JobsResults {
				if len(jobs)-before >= opts.MaxResults {
					break
				}

				sMin, sMax := htmltext.ParseSalary(item.DetectedExtensions.Salary)
				if salaryExcluded(opts.SalaryMin, sMax) {
					continue
				}

				isRemote := item.DetectedExtensions.WorkFromHome || containsFold(item.Location, "remote")
				if opts.Remote == models.RemoteYes && !isRemote {
					continue
				}
				if opts.Remote == models.RemoteOnSite && isRemote {
					continue
				}

				applyURL := ""
				if len(item.ApplyOptions) > 0 {
					applyURL = item.ApplyOptions[0].Link
				}
				if applyURL == "" {
					applyURL = item.ShareLink
				}
				if applyURL == "" && len(item.RelatedLinks) > 0 {
					applyURL = item.RelatedLinks[0].Link
				}

				tagsParts := []string{}
				if item.Via != "" {
					tagsParts = append(tagsParts, strings.TrimPrefix(item.Via, "via "))
				}
				for _, hl := range item.JobHighlights {
					tagsParts = append(tagsParts, hl.Title)
				}

				jobType := item.DetectedExtensions.ScheduleType
				if jobType == "" {
					jobType = opts.JobType
				}
				remote := models.RemoteOnSite
				if isRemote {
					remote = models.RemoteYes
				}

				jobs = append(jobs, &models.Job{
					Title:           item.Title,
					Company:         item.CompanyName,
					Location:        item.Location,
					Description:     item.Description,
					URL:             applyURL,
					Source:          s.Name(),
					Remote:          remote,
					SalaryMin:       sMin,
					SalaryMax:       sMax,
					SalaryCurrency:  "USD",
					JobType:         jobType,
					ExperienceLevel: opts.ExperienceLevel,
					DatePosted:      item.DetectedExtensions.PostedAt,
					Tags:            joinList(tagsParts),
					CompanyLogo:     item.Thumbnail,
				})
			}

			if payload.SerpAPIPagination.Next == "" {
				break
			}
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("Google Jobs search complete")
	return jobs, nil
}
