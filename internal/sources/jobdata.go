package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

// Anonymous access allows roughly 10 requests an hour. Timestamps
// persist on disk so the limit holds across runs.
const jobdataAnonPerHour = 10

var jobdataLevels = map[string]string{
	"entry":     "EN",
	"mid":       "MI",
	"senior":    "SE",
	"lead":      "SE",
	"executive": "EX",
}

var jobdataLevelNames = map[string]string{
	"EN": "Entry",
	"MI": "Mid",
	"SE": "Senior",
	"EX": "Executive",
}

// JobData fetches jobdataapi.com. Works without a key under a strict
// anonymous budget; an API key removes the hourly limit and enables
// pagination.
type JobData struct {
	client     *Client
	config     *common.JobDataConfig
	ledgerPath string
	logger     arbor.ILogger
}

func NewJobData(client *Client, config *common.JobDataConfig, ledgerPath string, logger arbor.ILogger) *JobData {
	return &JobData{client: client, config: config, ledgerPath: ledgerPath, logger: logger}
}

func (s *JobData) Name() string         { return "JobData" }
func (s *JobData) RequiresAPIKey() bool { return false }
func (s *JobData) Available() bool      { return true }

type jobdataResult struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Company struct {
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"company"`
	Location          string      `json:"location"`
	ApplicationURL    string      `json:"application_url"`
	DescriptionString string      `json:"description_string"`
	Description       string      `json:"description"`
	Published         string      `json:"published"`
	HasRemote         bool        `json:"has_remote"`
	SalaryMin         interface{} `json:"salary_min"`
	SalaryMax         interface{} `json:"salary_max"`
	SalaryCurrency    string      `json:"salary_currency"`
	ExperienceLevel   string      `json:"experience_level"`
}

// anonBudget consumes one anonymous request from the hourly window,
// returning false when the window is spent
func (s *JobData) anonBudget() bool {
	type ledger struct {
		Timestamps []float64 `json:"timestamps"`
	}

	now := float64(time.Now().Unix())
	var data ledger
	if raw, err := os.ReadFile(s.ledgerPath); err == nil {
		_ = json.Unmarshal(raw, &data)
	}

	kept := data.Timestamps[:0]
	for _, t := range data.Timestamps {
		if now-t < 3600 {
			kept = append(kept, t)
		}
	}
	if len(kept) >= jobdataAnonPerHour {
		s.logger.Warn().Int("requests", len(kept)).
			Msg("JobData anonymous limit reached, set JOBDATA_API_KEY for more")
		return false
	}

	data.Timestamps = append(kept, now)
	if raw, err := json.Marshal(data); err == nil {
		_ = os.MkdirAll(filepath.Dir(s.ledgerPath), 0755)
		if err := os.WriteFile(s.ledgerPath, raw, 0644); err != nil {
			s.logger.Warn().Err(err).Msg("JobData could not write rate-limit file")
		}
	}
	return true
}

func (s *JobData) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	apiKey := s.config.APIKey

	baseParams := url.Values{"description_str": {"true"}}
	if loc := strings.TrimSpace(opts.Location); len(loc) >= 3 {
		baseParams.Set("location", loc)
	}
	if opts.Remote == models.RemoteYes {
		baseParams.Set("has_remote", "true")
	}
	if opts.SalaryMin != nil {
		baseParams.Set("min_salary", strconv.Itoa(int(*opts.SalaryMin)))
	}
	if opts.PostedInLastDays > 0 {
		maxAge := opts.PostedInLastDays
		if maxAge > 999 {
			maxAge = 999
		}
		baseParams.Set("max_age", strconv.Itoa(maxAge))
	}
	if opts.ExperienceLevel != "" {
		if code, ok := jobdataLevels[strings.ToLower(strings.TrimSpace(opts.ExperienceLevel))]; ok {
			baseParams.Set("experience_level", code)
		}
	}
	for _, country := range s.config.Countries {
		baseParams.Add("country_code", country)
	}

	headers := map[string]string{}
	if apiKey != "" {
		headers["Authorization"] = "Api-Key " + apiKey
		pageSize := opts.MaxResults
		if pageSize > 5000 {
			pageSize = 5000
		}
		if pageSize < 1 {
			pageSize = 1
		}
		baseParams.Set("page_size", strconv.Itoa(pageSize))
	}

	jobs := []*models.Job{}
	seen := map[string]bool{}
	const maxPagesPerKeyword = 20

	for _, keyword := range NormalizeKeywords(opts.Keywords, []string{"developer"}) {
		before := len(jobs)
		if apiKey == "" && !s.anonBudget() {
			break
		}

		params := url.Values{}
		for k, v := range baseParams {
			params[k] = v
		}
		title := keyword
		if len(title) < 3 {
			title = "developer"
		}
		params.Set("title", title)

		for page := 1; len(jobs)-before < opts.MaxResults && page <= maxPagesPerKeyword; page++ {
			if apiKey != "" {
				params.Set("page", strconv.Itoa(page))
			}

			var payload struct {
				Results []jobdataResult `json:"results"`
				Next    string          `json:"next"`
			}
			if err := s.client.GetJSON(ctx, "https://jobdataapi.com/api/jobs/", params, headers, &payload); err != nil {
				s.logger.Error().Err(err).Str("keyword", keyword).Msg("JobData search failed")
				return jobs, nil
			}
			if len(payload.Results) == 0 {
				break
			}

			for _, item := range payload.Results {
				if len(jobs)-before >= opts.MaxResults {
					break
				}
				job := s.itemToJob(item)
				if job == nil || job.URL == "" || seen[job.URL] {
					continue
				}
				seen[job.URL] = true
				jobs = append(jobs, job)
			}

			// Anonymous access gets a single page per keyword
			if apiKey == "" || payload.Next == "" {
				break
			}
		}
	}

	// The API has no sort parameter; return dated jobs newest first,
	// undated last
	sort.SliceStable(jobs, func(i, j int) bool {
		di, dj := jobdataSortKey(jobs[i]), jobdataSortKey(jobs[j])
		return di > dj
	})

	s.logger.Info().Int("jobs", len(jobs)).Msg("JobData search complete")
	return jobs, nil
}

func jobdataSortKey(j *models.Job) string {
	d := strings.TrimSpace(j.DatePosted)
	if len(d) >= 10 {
		if _, err := time.Parse("2006-01-02", d[:10]); err == nil {
			return "1" + d[:10]
		}
	}
	return "0"
}

func (s *JobData) itemToJob(item jobdataResult) *models.Job {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	jobURL := strings.TrimSpace(item.ApplicationURL)
	if jobURL == "" {
		jobURL = "https://jobdataapi.com/api/jobs/" + strconv.FormatInt(item.ID, 10) + "/"
	}

	description := strings.TrimSpace(item.DescriptionString)
	if description == "" {
		description = strings.TrimSpace(item.Description)
	}
	if len(description) > 5000 {
		description = description[:5000]
	}

	datePosted := ""
	if len(item.Published) >= 10 {
		datePosted = item.Published[:10]
	}

	company := strings.TrimSpace(item.Company.Name)
	if company == "" {
		company = "Unknown"
	}
	remote := models.RemoteOnSite
	if item.HasRemote {
		remote = models.RemoteYes
	}
	currency := strings.TrimSpace(item.SalaryCurrency)
	if currency == "" {
		currency = "USD"
	}
	level := strings.TrimSpace(item.ExperienceLevel)
	if name, ok := jobdataLevelNames[strings.ToUpper(level)]; ok {
		level = name
	}

	return &models.Job{
		Title:           title,
		Company:         company,
		Location:        strings.TrimSpace(item.Location),
		Description:     description,
		URL:             jobURL,
		Source:          s.Name(),
		Remote:          remote,
		SalaryMin:       htmltext.SafeFloat(item.SalaryMin),
		SalaryMax:       htmltext.SafeFloat(item.SalaryMax),
		SalaryCurrency:  currency,
		ExperienceLevel: level,
		DatePosted:      datePosted,
		CompanyLogo:     strings.TrimSpace(item.Company.Logo),
	}
}
