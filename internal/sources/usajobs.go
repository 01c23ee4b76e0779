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

// USAJobs fetches the federal USAJobs search API. Auth is the free
// Authorization-Key plus the registered email as User-Agent.
type USAJobs struct {
	client *Client
	config *common.USAJobsConfig
	logger arbor.ILogger
}

func NewUSAJobs(client *Client, config *common.USAJobsConfig, logger arbor.ILogger) *USAJobs {
	return &USAJobs{client: client, config: config, logger: logger}
}

func (s *USAJobs) Name() string         { return "USAJobs" }
func (s *USAJobs) RequiresAPIKey() bool { return true }
func (s *USAJobs) Available() bool      { return s.config.APIKey != "" && s.config.Email != "" }

type usajobsDescriptor struct {
	PositionTitle    string `json:"PositionTitle"`
	OrganizationName string `json:"OrganizationName"`
	DepartmentName   string `json:"DepartmentName"`
	PositionLocation []struct {
		LocationName string `json:"LocationName"`
	} `json:"PositionLocation"`
	QualificationSummary string `json:"QualificationSummary"`
	UserArea             struct {
		Details struct {
			MajorDuties      interface{} `json:"MajorDuties"`
			TeleworkEligible string      `json:"TeleworkEligible"`
		} `json:"Details"`
	} `json:"UserArea"`
	PositionURI          string   `json:"PositionURI"`
	ApplyURI             []string `json:"ApplyURI"`
	PositionRemuneration []struct {
		MinimumRange interface{} `json:"MinimumRange"`
		MaximumRange interface{} `json:"MaximumRange"`
	} `json:"PositionRemuneration"`
	PositionSchedule []struct {
		Name string `json:"Name"`
	} `json:"PositionSchedule"`
	PublicationStartDate string `json:"PublicationStartDate"`
	JobCategory          []struct {
		Name string `json:"Name"`
	} `json:"JobCategory"`
}

// majorDuties flattens the MajorDuties field, served either as a string
// or as a list of strings
func majorDuties(v interface{}) string {
	switch d := v.(type) {
	case string:
		return d
	case []interface{}:
		parts := make([]string, 0, len(d))
		for _, item := range d {
			if str, ok := item.(string); ok {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func (s *USAJobs) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	if !s.Available() {
		s.logger.Info().Msg("USAJobs skipped, API key not configured")
		return nil, nil
	}

	headers := map[string]string{
		"Authorization-Key": s.config.APIKey,
		"User-Agent":        s.config.Email,
	}

	jobs := []*models.Job{}
	for _, keyword := range opts.Keywords {
		before := len(jobs)

		params := url.Values{
			"Keyword":        {keyword},
			"ResultsPerPage": {"50"},
		}
		if opts.Location != "" {
			params.Set("LocationName", opts.Location)
		}
		if opts.SalaryMin != nil {
			params.Set("RemunerationMinimumAmount", strconv.Itoa(int(*opts.SalaryMin)))
		}
		if opts.Remote == models.RemoteYes {
			params.Set("RemoteIndicator", "True")
		}

		var payload struct {
			SearchResult struct {
				SearchResultItems []struct {
					MatchedObjectDescriptor usajobsDescriptor `json:"MatchedObjectDescriptor"`
				} `json:"SearchResultItems"`
			} `json:"SearchResult"`
		}
		if err := s.client.GetJSON(ctx, "https://data.usajobs.gov/api/Search", params, headers, &payload); err != nil {
			s.logger.Error().Err(err).Str("keyword", keyword).Msg("USAJobs search failed")
			continue
		}

		for _, entry := range payload.SearchResult.SearchResultItems {
			if len(jobs)-before >= opts.MaxResults {
				break
			}
			item := entry.MatchedObjectDescriptor

			locParts := make([]string, 0, 3)
			for _, pl := range item.PositionLocation {
				if len(locParts) >= 3 {
					break
				}
				locParts = append(locParts, pl.LocationName)
			}

			description := strings.TrimSpace(item.QualificationSummary + " " + majorDuties(item.UserArea.Details.MajorDuties))

			jobURL := item.PositionURI
			if len(item.ApplyURI) > 0 {
				jobURL = item.ApplyURI[0]
			}

			var sMin, sMax *float64
			if len(item.PositionRemuneration) > 0 {
				sMin = htmltext.SafeFloat(item.PositionRemuneration[0].MinimumRange)
				sMax = htmltext.SafeFloat(item.PositionRemuneration[0].MaximumRange)
			}

			schedule := ""
			if len(item.PositionSchedule) > 0 {
				schedule = item.PositionSchedule[0].Name
			}

			isRemote := item.UserArea.Details.TeleworkEligible == "True"
			if opts.Remote == models.RemoteYes && !isRemote {
				continue
			}
			if opts.Remote == models.RemoteOnSite && isRemote {
				continue
			}

			company := item.OrganizationName
			if item.DepartmentName != "" {
				company = item.OrganizationName + " - " + item.DepartmentName
			}
			remote := models.RemoteOnSite
			if isRemote {
				remote = models.RemoteYes
			}
			tags := ""
			if len(item.JobCategory) > 0 {
				tags = item.JobCategory[0].Name
			}

			jobs = append(jobs, &models.Job{
				Title:          item.PositionTitle,
				Company:        company,
				Location:       strings.Join(locParts, "; "),
				Description:    htmltext.Sanitize(description),
				URL:            jobURL,
				Source:         s.Name(),
				Remote:         remote,
				SalaryMin:      sMin,
				SalaryMax:      sMax,
				SalaryCurrency: "USD",
				JobType:        schedule,
				DatePosted:     item.PublicationStartDate,
				Tags:           tags,
			})
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("USAJobs search complete")
	return jobs, nil
}
