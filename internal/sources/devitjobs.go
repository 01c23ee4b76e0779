package sources

import (
	"context"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

var devitSalaryPattern = regexp.MustCompile(`[£$€]\s*([\d,]+)\s*(?:-|–|to)+\s*[£$€]?\s*([\d,]+)`)

// DevITJobs parses the DevITjobs UK XML feed. The author element carries
// the company name.
type DevITJobs struct {
	client *Client
	logger arbor.ILogger
}

func NewDevITJobs(client *Client, logger arbor.ILogger) *DevITJobs {
	return &DevITJobs{client: client, logger: logger}
}

func (s *DevITJobs) Name() string         { return "DevITjobs" }
func (s *DevITJobs) RequiresAPIKey() bool { return false }
func (s *DevITJobs) Available() bool      { return true }

func (s *DevITJobs) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	data, err := s.client.GetBytes(ctx, "https://devitjobs.uk/job_feed.xml", nil, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("DevITjobs feed failed")
		return nil, err
	}
	items, err := parseRSS(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("DevITjobs feed unparseable")
		return nil, err
	}

	jobs := []*models.Job{}
	for _, entry := range items {
		if len(jobs) >= opts.MaxResults {
			break
		}

		company := entry.Author
		if company == "" {
			company = entry.Creator
		}
		location := entry.Location
		if location == "" {
			location = "United Kingdom"
		}
		tags := joinList(entry.Categories)

		haystack := searchable(entry.Title, company, entry.Description, tags)
		if !MatchesKeywords(haystack, opts.Keywords) {
			continue
		}

		remote := models.RemoteOnSite
		if strings.Contains(strings.ToLower(haystack), "remote") {
			remote = models.RemoteYes
		}
		if opts.Remote == models.RemoteOnSite && remote == models.RemoteYes {
			continue
		}
		if opts.Remote == models.RemoteYes && remote != models.RemoteYes {
			continue
		}

		var sMin, sMax *float64
		currency := ""
		salaryText := entry.Title + " " + entry.Description
		if m := devitSalaryPattern.FindStringSubmatch(salaryText); m != nil {
			sMin = htmltext.SafeFloat(strings.ReplaceAll(m[1], ",", ""))
			sMax = htmltext.SafeFloat(strings.ReplaceAll(m[2], ",", ""))
			switch {
			case strings.Contains(salaryText, "€"):
				currency = "EUR"
			case strings.Contains(salaryText, "$"):
				currency = "USD"
			default:
				currency = "GBP"
			}
		}
		if salaryExcluded(opts.SalaryMin, sMax) {
			continue
		}
		if sMin == nil && sMax == nil {
			currency = ""
		}

		jobs = append(jobs, &models.Job{
			Title:          entry.Title,
			Company:        company,
			Location:       location,
			Description:    htmltext.Sanitize(entry.Description),
			URL:            entry.Link,
			Source:         s.Name(),
			Remote:         remote,
			SalaryMin:      sMin,
			SalaryMax:      sMax,
			SalaryCurrency: currency,
			DatePosted:     rssDate(entry.PubDate),
			Tags:           tags,
		})
	}

	emitBatch(opts, jobs)
	s.logger.Info().Int("jobs", len(jobs)).Msg("DevITjobs search complete")
	return jobs, nil
}
