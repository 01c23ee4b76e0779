package sources

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/models"
)

func TestFTPR(t *testing.T) {
	assert.Equal(t, "", fTPR(0))
	assert.Equal(t, "r86400", fTPR(1))
	assert.Equal(t, "r604800", fTPR(3))
	assert.Equal(t, "r604800", fTPR(7))
	assert.Equal(t, "r2592000", fTPR(30))
	assert.Equal(t, "r2592000", fTPR(90))
}

func TestResolveRelativeDate(t *testing.T) {
	today := time.Now().Format("2006-01-02")

	tests := []struct {
		input    string
		expected string
	}{
		{"", today},
		{"just now", today},
		{"3 hours ago", today},
		{"45 minutes ago", today},
		{"Reposted 2 days ago", time.Now().AddDate(0, 0, -2).Format("2006-01-02")},
		{"1 week ago", time.Now().AddDate(0, 0, -7).Format("2006-01-02")},
		{"2 months ago", time.Now().AddDate(0, 0, -60).Format("2006-01-02")},
		{"2026-08-10T00:00:00Z", "2026-08-10"},
		// Garbled card text must not produce a bogus old date
		{"Company re", today},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveRelativeDate(tt.input))
		})
	}
}

func TestDedupeDoubledTitle(t *testing.T) {
	assert.Equal(t, "Go Engineer", dedupeDoubledTitle("Go EngineerGo Engineer"))
	assert.Equal(t, "Go Engineer", dedupeDoubledTitle("Go Engineer"))
	assert.Equal(t, "abab", dedupeDoubledTitle("ababab")[:4])
}

func TestMaxPagesPerCombo(t *testing.T) {
	assert.Equal(t, 5, maxPagesPerCombo(50, 1))
	assert.Equal(t, 8, maxPagesPerCombo(200, 1))
	assert.Equal(t, 5, maxPagesPerCombo(200, 2))
	assert.Equal(t, 50, maxPagesPerCombo(100000, 1))
}

const linkedinGuestHTML = `
<ul>
  <li><div class="base-card">
    <h3 class="base-search-card__title">Senior Go Engineer</h3>
    <h4 class="base-search-card__subtitle">Acme Ltd</h4>
    <span class="job-search-card__location">London, England, United Kingdom</span>
    <time datetime="2026-08-18">5 days ago</time>
    <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/4012345678/?position=1"></a>
  </div></li>
  <li><div class="base-card">
    <h3 class="base-search-card__title">Platform Engineer (Remote)</h3>
    <h4 class="base-search-card__subtitle">Beta Inc</h4>
    <span class="job-search-card__location">United Kingdom</span>
    <time>2 weeks ago</time>
    <a class="base-card__full-link" href="/jobs/view/4098765432"></a>
  </div></li>
</ul>`

func TestFindLinkedInCards(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(linkedinGuestHTML))
	require.NoError(t, err)
	assert.Len(t, findLinkedInCards(doc), 2)
}

func TestParseLinkedInCard(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(linkedinGuestHTML))
	require.NoError(t, err)
	source := NewLinkedInDirect(nil, &common.LinkedInConfig{}, common.GetLogger())

	cards := findLinkedInCards(doc)
	require.Len(t, cards, 2)

	first := source.parseCard(cards[0], "fallback", models.RemoteAny)
	require.NotNil(t, first)
	assert.Equal(t, "Senior Go Engineer", first.Title)
	assert.Equal(t, "Acme Ltd", first.Company)
	assert.Equal(t, "London, England, United Kingdom", first.Location)
	// Canonical job URL, tracking params stripped
	assert.Equal(t, "https://www.linkedin.com/jobs/view/4012345678/", first.URL)
	assert.Equal(t, "2026-08-18", first.DatePosted)
	assert.Equal(t, models.RemoteOnSite, first.Remote)

	second := source.parseCard(cards[1], "fallback", models.RemoteAny)
	require.NotNil(t, second)
	assert.Equal(t, models.RemoteYes, second.Remote)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/4098765432/", second.URL)
	assert.Equal(t, time.Now().AddDate(0, 0, -14).Format("2006-01-02"), second.DatePosted)
}

func TestParseLinkedInCardRemoteFilter(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(linkedinGuestHTML))
	require.NoError(t, err)
	source := NewLinkedInDirect(nil, &common.LinkedInConfig{}, common.GetLogger())

	cards := findLinkedInCards(doc)
	require.Len(t, cards, 2)

	assert.Nil(t, source.parseCard(cards[0], "fallback", models.RemoteYes))
	assert.NotNil(t, source.parseCard(cards[1], "fallback", models.RemoteYes))
}

func TestParseLinkedInCardRejectsNonJobLinks(t *testing.T) {
	html := `<div class="base-card">
		<h3 class="base-search-card__title">Premium</h3>
		<a class="base-card__full-link" href="https://www.linkedin.com/premium/products"></a>
	</div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	source := NewLinkedInDirect(nil, &common.LinkedInConfig{}, common.GetLogger())

	card := doc.Find("div.base-card").First()
	assert.Nil(t, source.parseCard(card, "fallback", models.RemoteAny))
}
