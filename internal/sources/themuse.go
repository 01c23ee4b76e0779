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

// experience levels mapped to The Muse's level taxonomy
var museLevels = map[string]string{
	"entry":     "Entry Level",
	"mid":       "Mid Level",
	"senior":    "Senior Level",
	"lead":      "Senior Level",
	"executive": "Senior Level",
}

// TheMuse fetches from The Muse public jobs API. Level and location are
// filtered server-side, keywords client-side.
type TheMuse struct {
	client *Client
	logger arbor.ILogger
}

func NewTheMuse(client *Client, logger arbor.ILogger) *TheMuse {
	return &TheMuse{client: client, logger: logger}
}

func (s *TheMuse) Name() string         { return "The Muse" }
func (s *TheMuse) RequiresAPIKey() bool { return false }
func (s *TheMuse) Available() bool      { return true }

type museResult struct {
	Name    string `json:"name"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	Locations []struct {
		Name string `json:"name"`
	} `json:"locations"`
	Contents   string `json:"contents"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Levels []struct {
		Name string `json:"name"`
	} `json:"levels"`
	Refs struct {
		LandingPage string `json:"landing_page"`
	} `json:"refs"`
	PublicationDate string `json:"publication_date"`
}

func (s *TheMuse) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	jobs := []*models.Job{}
	const maxPages = 5

	params := url.Values{}
	if opts.ExperienceLevel != "" {
		if level, ok := museLevels[strings.ToLower(opts.ExperienceLevel)]; ok {
			params.Set("level", level)
		}
	}
	if opts.Location != "" {
		params.Set("location", opts.Location)
	}

	for page := 0; page < maxPages && len(jobs) < opts.MaxResults; page++ {
		params.Set("page", strconv.Itoa(page))

		var payload struct {
			Results []museResult `json:"results"`
		}
		if err := s.client.GetJSON(ctx, "https://www.themuse.com/api/public/jobs", params, nil, &payload); err != nil {
			s.logger.Error().Err(err).Int("page", page).Msg("The Muse page failed")
			break
		}
		if len(payload.Results) == 0 {
			break
		}

		for _, item := range payload.Results {
			if len(jobs) >= opts.MaxResults {
				break
			}

			locNames := make([]string, 0, len(item.Locations))
			for _, loc := range item.Locations {
				locNames = append(locNames, loc.Name)
			}
			location := strings.Join(locNames, "; ")

			locLower := strings.ToLower(location)
			isRemote := strings.Contains(locLower, "flexible") || strings.Contains(locLower, "remote")
			if opts.Remote == models.RemoteYes && !isRemote {
				continue
			}
			if opts.Remote == models.RemoteOnSite && isRemote {
				continue
			}

			description := ""
			if item.Contents != "" {
				description = htmltext.Sanitize(item.Contents)
			}

			catNames := make([]string, 0, len(item.Categories))
			for _, cat := range item.Categories {
				catNames = append(catNames, cat.Name)
			}
			levelNames := make([]string, 0, len(item.Levels))
			for _, lv := range item.Levels {
				levelNames = append(levelNames, lv.Name)
			}

			if !MatchesKeywords(searchable(item.Name, item.Company.Name, description, strings.Join(catNames, " ")), opts.Keywords) {
				continue
			}

			remote := models.RemoteOnSite
			if isRemote {
				remote = models.RemoteYes
			}

			jobs = append(jobs, &models.Job{
				Title:           item.Name,
				Company:         item.Company.Name,
				Location:        location,
				Description:     description,
				URL:             item.Refs.LandingPage,
				Source:          s.Name(),
				Remote:          remote,
				ExperienceLevel: joinList(levelNames),
				Tags:            joinList(catNames),
				DatePosted:      item.PublicationDate,
			})
		}
	}

	s.logger.Info().Int("jobs", len(jobs)).Msg("The Muse search complete")
	return jobs, nil
}
