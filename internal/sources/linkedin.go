package sources

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/models"
)

const (
	linkedinBaseURL = "https://www.linkedin.com"
	// The jobs-guest endpoint returns HTML job cards to a plain HTTP
	// client; the /jobs/search/ page itself is JS-rendered and empty
	// without a browser.
	linkedinGuestAPI = linkedinBaseURL + "/jobs-guest/jobs/api/seeMoreJobPostings/search"

	linkedinPageSize = 25
	// Fewer cards than this on a page means the result set is exhausted
	linkedinMinCardsToContinue = 20

	linkedinUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var (
	linkedinRemotePattern = regexp.MustCompile(`(?i)(remote|wfh|work from home)`)
	linkedinJobIDPattern  = regexp.MustCompile(`/jobs/view/(\d+)`)
	relativeDatePrefix    = regexp.MustCompile(`(?i)^(reposted|posted)\s+`)
	relativeDateKeyword   = regexp.MustCompile(`(?i)(just now|moment|today|second|minute|hour|day|week|month|year|ago)`)
	relativeDateNow       = regexp.MustCompile(`(?i)(just now|moment|today)|\d+\s*(second|minute|hour)`)
	relativeDateUnits     = []struct {
		pattern *regexp.Regexp
		days    int
	}{
		{regexp.MustCompile(`(\d+)\s*day`), 1},
		{regexp.MustCompile(`(\d+)\s*week`), 7},
		{regexp.MustCompile(`(\d+)\s*month`), 30},
		{regexp.MustCompile(`(\d+)\s*year`), 365},
	}
)

// LinkedInDirect scrapes LinkedIn job search without an API key. The
// default path hits the jobs-guest API; browser mode drives headless
// Chrome against the real search page, which allows an authenticated
// session through a persistent profile.
type LinkedInDirect struct {
	client *Client
	config *common.LinkedInConfig
	logger arbor.ILogger
}

func NewLinkedInDirect(client *Client, config *common.LinkedInConfig, logger arbor.ILogger) *LinkedInDirect {
	return &LinkedInDirect{client: client, config: config, logger: logger}
}

func (s *LinkedInDirect) Name() string         { return "LinkedIn (Direct)" }
func (s *LinkedInDirect) RequiresAPIKey() bool { return false }
func (s *LinkedInDirect) Available() bool      { return true }

// fTPR maps a posted-within-days filter to LinkedIn's time filter values
func fTPR(postedInLastDays int) string {
	switch {
	case postedInLastDays <= 0:
		return ""
	case postedInLastDays <= 1:
		return "r86400"
	case postedInLastDays <= 7:
		return "r604800"
	default:
		return "r2592000"
	}
}

// resolveRelativeDate converts LinkedIn's relative timestamps ("3 hours
// ago", "Reposted 2 days ago") to YYYY-MM-DD. Anything unrecognisable
// resolves to today, which guards against garbled card text.
func resolveRelativeDate(text string) string {
	today := time.Now().Format("2006-01-02")
	clean := strings.ToLower(strings.TrimSpace(text))
	if clean == "" {
		return today
	}
	clean = relativeDatePrefix.ReplaceAllString(clean, "")

	if len(clean) >= 10 {
		if _, err := time.Parse("2006-01-02", clean[:10]); err == nil {
			return clean[:10]
		}
	}
	if !relativeDateKeyword.MatchString(clean) {
		return today
	}
	if relativeDateNow.MatchString(clean) {
		return today
	}
	for _, unit := range relativeDateUnits {
		if m := unit.pattern.FindStringSubmatch(clean); m != nil {
			n, _ := strconv.Atoi(m[1])
			return time.Now().AddDate(0, 0, -n*unit.days).Format("2006-01-02")
		}
	}
	return today
}

// dedupeDoubledTitle collapses "TitleTitle" to "Title", an artifact of
// screen-reader-only spans duplicating the visible text
func dedupeDoubledTitle(title string) string {
	if n := len(title); n >= 2 && n%2 == 0 && title[:n/2] == title[n/2:] {
		return title[:n/2]
	}
	return title
}

func (s *LinkedInDirect) searchLocations(location string) []string {
	if loc := strings.TrimSpace(location); loc != "" {
		return []string{loc}
	}
	if len(s.config.Locations) > 0 {
		return s.config.Locations
	}
	return []string{"United States"}
}

// maxPagesPerCombo caps pagination per keyword+location pair so one
// keyword never exceeds its max_results share
func maxPagesPerCombo(maxResults, locations int) int {
	if locations < 1 {
		locations = 1
	}
	pages := ((maxResults + linkedinPageSize - 1) / linkedinPageSize) / locations
	if pages < 5 {
		pages = 5
	}
	if pages > 50 {
		pages = 50
	}
	return pages
}

func (s *LinkedInDirect) Fetch(ctx context.Context, opts FetchOptions) ([]*models.Job, error) {
	keywords := NormalizeKeywords(opts.Keywords, []string{"jobs"})
	locations := s.searchLocations(opts.Location)

	if s.config.UseBrowser {
		jobs, err := s.fetchBrowser(ctx, keywords, locations, opts)
		if err != nil {
			s.logger.Warn().Err(err).Msg("LinkedIn browser mode failed, falling back to guest API")
		} else {
			s.logger.Info().Int("jobs", len(jobs)).Msg("LinkedIn search complete (browser mode)")
			return jobs, nil
		}
	}

	jobs := s.fetchGuestAPI(ctx, keywords, locations, opts)
	s.logger.Info().Int("jobs", len(jobs)).Msg("LinkedIn search complete")
	return jobs, nil
}

func (s *LinkedInDirect) fetchGuestAPI(ctx context.Context, keywords, locations []string, opts FetchOptions) []*models.Job {
	headers := map[string]string{
		"User-Agent":      linkedinUserAgent,
		"Accept-Language": "en-US,en;q=0.9",
	}

	jobs := []*models.Job{}
	seen := map[string]bool{}
	maxPages := maxPagesPerCombo(opts.MaxResults, len(locations))

	for _, keyword := range keywords {
		before := len(jobs)
		for _, searchLocation := range locations {
			if len(jobs)-before >= opts.MaxResults {
				break
			}

			params := url.Values{
				"keywords": {keyword},
				"location": {strings.TrimSpace(searchLocation)},
			}
			if params.Get("location") == "" {
				params.Set("location", "United States")
			}
			if opts.Remote == models.RemoteYes {
				params.Set("f_WT", "2")
			}
			if tpr := fTPR(opts.PostedInLastDays); tpr != "" {
				params.Set("f_TPR", tpr)
			}

			for page, start := 0, 0; page < maxPages && len(jobs)-before < opts.MaxResults; page, start = page+1, start+linkedinPageSize {
				params.Set("start", strconv.Itoa(start))

				body, err := s.client.GetBytes(ctx, linkedinGuestAPI, params, headers)
				if err != nil {
					s.logger.Warn().Err(err).Int("start", start).Msg("LinkedIn guest API request failed")
					break
				}
				doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
				if err != nil {
					break
				}
				cards := findLinkedInCards(doc)
				if len(cards) == 0 {
					if page == 0 {
						s.logger.Warn().Str("keyword", keyword).Str("location", searchLocation).
							Msg("LinkedIn returned no job cards, the guest API may have changed")
					}
					break
				}

				batch := []*models.Job{}
				for _, card := range cards {
					if len(jobs)-before >= opts.MaxResults {
						break
					}
					job := s.parseCard(card, keyword, opts.Remote)
					if job == nil || seen[job.URL] {
						continue
					}
					seen[job.URL] = true
					jobs = append(jobs, job)
					batch = append(batch, job)
				}
				s.logger.Debug().Str("keyword", keyword).Str("location", searchLocation).
					Int("start", start).Int("cards", len(cards)).Int("new", len(batch)).
					Msg("LinkedIn page parsed")
				emitBatch(opts, batch)

				// A full page of cards with nothing new means we are
				// looping over results already seen
				if len(batch) == 0 && len(cards) > 0 {
					break
				}
				if len(cards) < linkedinMinCardsToContinue {
					break
				}
			}
		}
	}
	return jobs
}

// fetchBrowser renders the real search page in headless Chrome and
// parses the hydrated job cards. A persistent profile directory keeps
// an authenticated session between runs; headed mode pauses on the
// LinkedIn homepage first so the user can log in.
func (s *LinkedInDirect) fetchBrowser(ctx context.Context, keywords, locations []string, opts FetchOptions) ([]*models.Job, error) {
	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !s.config.BrowserHeaded),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(linkedinUserAgent),
	)
	if s.config.BrowserProfile != "" {
		allocatorOpts = append(allocatorOpts, chromedp.UserDataDir(s.config.BrowserProfile))
	}

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, allocatorOpts...)
	defer allocatorCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	defer browserCancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	if s.config.BrowserHeaded {
		s.logger.Info().Msg("Browser open: log in to LinkedIn if needed, search continues in 25s")
		if err := chromedp.Run(browserCtx,
			chromedp.Navigate(linkedinBaseURL),
			chromedp.Sleep(25*time.Second),
		); err != nil {
			s.logger.Warn().Err(err).Msg("LinkedIn homepage navigation failed")
		}
	}

	const cardSelector = "li.jobs-search-results__list-item, li.scaffold-layout__list-item, div.job-search-card, li div.base-card"

	jobs := []*models.Job{}
	seen := map[string]bool{}
	maxPages := maxPagesPerCombo(opts.MaxResults, len(locations))

	for _, keyword := range keywords {
		before := len(jobs)
		for _, searchLocation := range locations {
			if len(jobs)-before >= opts.MaxResults {
				break
			}

			for page, start := 0, 0; page < maxPages && len(jobs)-before < opts.MaxResults; page, start = page+1, start+linkedinPageSize {
				if page > 0 {
					time.Sleep(s.config.Delay)
				}
				pageURL := s.websiteSearchURL(keyword, searchLocation, opts, start)
				s.logger.Debug().Str("url", pageURL).Msg("LinkedIn browser navigation")

				var html string
				err := chromedp.Run(browserCtx,
					chromedp.Navigate(pageURL),
					// Give the SPA a moment to hydrate before waiting on cards
					chromedp.Sleep(2*time.Second),
					chromedp.WaitVisible(cardSelector, chromedp.ByQuery),
					chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
					chromedp.Sleep(time.Second),
					chromedp.OuterHTML("html", &html),
				)
				if err != nil {
					if page == 0 {
						s.logger.Warn().Err(err).Str("keyword", keyword).Str("location", searchLocation).
							Msg("LinkedIn browser found no job cards")
					}
					break
				}

				doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
				if err != nil {
					break
				}
				cards := findLinkedInCards(doc)
				if len(cards) == 0 {
					break
				}

				batch := []*models.Job{}
				for _, card := range cards {
					if len(jobs)-before >= opts.MaxResults {
						break
					}
					job := s.parseCard(card, keyword, opts.Remote)
					if job == nil || seen[job.URL] {
						continue
					}
					seen[job.URL] = true
					jobs = append(jobs, job)
					batch = append(batch, job)
				}
				emitBatch(opts, batch)

				if len(cards) < linkedinMinCardsToContinue {
					break
				}
			}
		}
	}
	return jobs, nil
}

func (s *LinkedInDirect) websiteSearchURL(keyword, location string, opts FetchOptions, start int) string {
	params := url.Values{
		"keywords": {keyword},
		"location": {strings.TrimSpace(location)},
		"sortBy":   {"DD"},
	}
	if params.Get("location") == "" {
		params.Set("location", "United States")
	}
	if opts.Remote == models.RemoteYes {
		params.Set("f_WT", "2")
	}
	if tpr := fTPR(opts.PostedInLastDays); tpr != "" {
		params.Set("f_TPR", tpr)
	}
	params.Set("start", strconv.Itoa(start))
	return linkedinBaseURL + "/jobs/search/?" + params.Encode()
}

// findLinkedInCards locates job card elements, preferring the
// logged-in list layout, then guest cards, then loose job links
func findLinkedInCards(doc *goquery.Document) []*goquery.Selection {
	collect := func(sel string) []*goquery.Selection {
		var cards []*goquery.Selection
		doc.Find(sel).Each(func(_ int, card *goquery.Selection) {
			cards = append(cards, card)
		})
		return cards
	}

	if cards := collect("li.jobs-search-results__list-item, li.scaffold-layout__list-item"); len(cards) > 0 {
		return cards
	}
	for _, sel := range []string{"div.job-search-card", "div.base-card", "li div.base-card", "a.base-card__full-link"} {
		if cards := collect(sel); len(cards) > 0 {
			return cards
		}
	}
	for _, sel := range []string{"a[href*='/jobs/view/']", "a[href*='currentJobId']"} {
		var cards []*goquery.Selection
		doc.Find(sel).Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			if strings.Contains(href, "premium/products") || strings.Contains(href, "login") {
				return
			}
			cards = append(cards, link)
		})
		if len(cards) > 0 {
			return cards
		}
	}
	return nil
}

func (s *LinkedInDirect) parseCard(card *goquery.Selection, fallbackTitle, remoteFilter string) *models.Job {
	titleEl := card.Find(".job-card-list__title, .artdeco-entity-lockup__title, .base-search-card__title, h3.base-search-card__title, a.job-card-container__link strong").First()
	// Screen-reader spans duplicate the visible title text
	titleEl.Find(`.sr-only, .visually-hidden, [aria-hidden="true"]`).Remove()
	title := dedupeDoubledTitle(strings.TrimSpace(titleEl.Text()))
	if title == "" {
		title = fallbackTitle
	}

	href := ""
	if linkEl := card.Find("a.job-card-container__link, a.base-card__full-link, a[href*='/jobs/view/'], a[href*='currentJobId']").First(); linkEl.Length() > 0 {
		href, _ = linkEl.Attr("href")
	} else if goquery.NodeName(card) == "a" {
		href, _ = card.Attr("href")
	}
	href = strings.TrimSpace(href)
	if href != "" && !strings.HasPrefix(href, "http") {
		href = linkedinBaseURL + href
	}
	if m := linkedinJobIDPattern.FindStringSubmatch(href); m != nil {
		href = linkedinBaseURL + "/jobs/view/" + m[1] + "/"
	}
	if href == "" || !strings.Contains(href, "/jobs/") || strings.Contains(href, "premium/products") {
		return nil
	}

	company := strings.TrimSpace(card.Find(".job-card-container__primary-description, .artdeco-entity-lockup__subtitle, .base-search-card__subtitle, h4.base-search-card__subtitle").First().Text())
	if company == "" {
		company = "Unknown"
	}
	location := strings.TrimSpace(card.Find(".job-card-container__metadata-item, .artdeco-entity-lockup__caption, .job-search-card__location").First().Text())

	isRemote := linkedinRemotePattern.MatchString(location) || linkedinRemotePattern.MatchString(title)
	if remoteFilter == models.RemoteYes && !isRemote {
		return nil
	}

	datePosted := ""
	if timeEl := card.Find("time").First(); timeEl.Length() > 0 {
		if dt, ok := timeEl.Attr("datetime"); ok && len(dt) >= 10 {
			if _, err := time.Parse("2006-01-02", dt[:10]); err == nil {
				datePosted = dt[:10]
			}
		}
		if datePosted == "" {
			datePosted = resolveRelativeDate(strings.TrimSpace(timeEl.Text()))
		}
	}
	if datePosted == "" {
		datePosted = time.Now().Format("2006-01-02")
	}

	remote := models.RemoteOnSite
	if isRemote {
		remote = models.RemoteYes
	}

	return &models.Job{
		Title:      title,
		Company:    company,
		Location:   location,
		URL:        href,
		Source:     s.Name(),
		Remote:     remote,
		DatePosted: datePosted,
	}
}
