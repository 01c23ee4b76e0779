package sources

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/models"
)

func TestRemoteOKFetch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"legal": "API terms of service"},
			{"position": "Senior Go Developer", "company": "Acme", "location": "",
			 "description": "<p>Build services</p><script>alert(1)</script>", "tags": ["golang", "backend"],
			 "salary_min": 90000, "salary_max": 120000,
			 "apply_url": "/remote-jobs/123", "date": "2026-08-20"},
			{"position": "Marketing Manager", "company": "Acme",
			 "description": "Campaigns", "url": "https://remoteok.com/remote-jobs/456"}
		]`))
	})
	source := NewRemoteOK(client, common.GetLogger())

	jobs, err := source.Fetch(context.Background(), FetchOptions{
		Keywords:   []string{"go developer"},
		MaxResults: 50,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "Senior Go Developer", job.Title)
	assert.Equal(t, "https://remoteok.com/remote-jobs/123", job.URL)
	assert.Equal(t, "Remote", job.Location)
	assert.Equal(t, models.RemoteYes, job.Remote)
	assert.Equal(t, "Full-time", job.JobType)
	require.NotNil(t, job.SalaryMax)
	assert.Equal(t, float64(120000), *job.SalaryMax)
	assert.Contains(t, job.Description, "Build services")
	assert.NotContains(t, job.Description, "<script>")
}

func TestRemoteOKSkipsOnSiteRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("on-site search should not hit a remote-only board")
	})
	source := NewRemoteOK(client, common.GetLogger())

	jobs, err := source.Fetch(context.Background(), FetchOptions{
		Keywords:   []string{"developer"},
		Remote:     models.RemoteOnSite,
		MaxResults: 50,
	})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRemoteOKSalaryFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"legal": "notice"},
			{"position": "Go Developer", "company": "LowPay",
			 "salary_max": 40000, "url": "https://remoteok.com/remote-jobs/1"},
			{"position": "Go Developer", "company": "NoSalary",
			 "url": "https://remoteok.com/remote-jobs/2"}
		]`))
	})
	source := NewRemoteOK(client, common.GetLogger())

	wanted := 60000.0
	jobs, err := source.Fetch(context.Background(), FetchOptions{
		Keywords:   []string{"go developer"},
		SalaryMin:  &wanted,
		MaxResults: 50,
	})
	require.NoError(t, err)

	// A known salary below the floor is excluded; unknown salary passes
	require.Len(t, jobs, 1)
	assert.Equal(t, "NoSalary", jobs[0].Company)
}

func TestLeverFetch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"text": "Go Backend Engineer",
			 "categories": {"location": "London", "team": "Platform", "commitment": "Full-time"},
			 "workplaceType": "remote",
			 "salaryRange": {"min": 80000, "max": 110000, "currency": "GBP"},
			 "hostedUrl": "https://jobs.lever.co/acme/1",
			 "createdAt": 1787184000000,
			 "descriptionPlain": "Ship Go services"},
			{"text": "Office Manager",
			 "categories": {"location": "London"},
			 "workplaceType": "on-site",
			 "hostedUrl": "https://jobs.lever.co/acme/2"}
		]`))
	})
	source := NewLever(client, []string{"acme-corp"}, common.GetLogger())

	var batches int
	jobs, err := source.Fetch(context.Background(), FetchOptions{
		Keywords:   []string{"backend engineer"},
		Remote:     models.RemoteYes,
		MaxResults: 50,
		OnBatch:    func(batch []*models.Job) { batches++ },
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, batches)

	job := jobs[0]
	assert.Equal(t, "Go Backend Engineer", job.Title)
	assert.Equal(t, "Acme Corp", job.Company)
	assert.Equal(t, models.RemoteYes, job.Remote)
	assert.Equal(t, "Full-time", job.JobType)
	assert.Equal(t, "GBP", job.SalaryCurrency)
	assert.Equal(t, "2026-08-20", job.DatePosted)
	assert.Contains(t, job.Tags, "Platform")
}

func TestLeverRemoteMapping(t *testing.T) {
	tests := []struct {
		name     string
		posting  leverPosting
		expected string
	}{
		{"explicit remote", leverPosting{WorkplaceType: "remote"}, models.RemoteYes},
		{"hybrid", leverPosting{WorkplaceType: "hybrid"}, models.RemoteHybrid},
		{"on-site", leverPosting{WorkplaceType: "on-site"}, models.RemoteOnSite},
		{"remote location", leverPosting{Categories: struct {
			Location   string `json:"location"`
			Team       string `json:"team"`
			Department string `json:"department"`
			Commitment string `json:"commitment"`
		}{Location: "Remote - EMEA"}}, models.RemoteYes},
		{"unknown", leverPosting{Categories: struct {
			Location   string `json:"location"`
			Team       string `json:"team"`
			Department string `json:"department"`
			Commitment string `json:"commitment"`
		}{Location: "Berlin"}}, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, leverRemote(tt.posting))
		})
	}
}

func TestArbeitnowFetch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": [
				{"title": "Go Engineer", "company_name": "Hafen",
				 "location": "Hamburg", "remote": true,
				 "url": "https://www.arbeitnow.com/jobs/1",
				 "description": "Go services", "tags": ["golang"],
				 "job_types": ["full time"], "created_at": 1787184000},
				{"title": "Go Engineer (Office)", "company_name": "Hafen",
				 "location": "Hamburg", "remote": false,
				 "url": "https://www.arbeitnow.com/jobs/2",
				 "description": "Go services on site"}
			],
			"links": {"next": null}
		}`))
	})
	source := NewArbeitnow(client, common.GetLogger())

	jobs, err := source.Fetch(context.Background(), FetchOptions{
		Keywords:   []string{"go engineer"},
		Remote:     models.RemoteYes,
		MaxResults: 50,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Go Engineer", jobs[0].Title)
	assert.Equal(t, "2026-08-20", jobs[0].DatePosted)
}

func TestParseRSS(t *testing.T) {
	feed := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel>
    <title>Jobs</title>
    <item>
      <title>Acme: Staff Engineer</title>
      <link>https://example.com/jobs/1</link>
      <description>Distributed systems role</description>
      <pubDate>Thu, 20 Aug 2026 09:30:00 +0000</pubDate>
      <category>golang</category>
      <category>remote</category>
    </item>
  </channel>
</rss>`)

	items, err := parseRSS(feed)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme: Staff Engineer", items[0].Title)
	assert.Equal(t, []string{"golang", "remote"}, items[0].Categories)
	assert.Equal(t, "2026-08-20", rssDate(items[0].PubDate))
}

func TestRSSDateFallsThroughLayouts(t *testing.T) {
	assert.Equal(t, "2026-08-20", rssDate("2026-08-20T09:30:00Z"))
	// Unparseable values pass through for the storage layer to floor
	assert.Equal(t, "yesterday-ish", rssDate("yesterday-ish"))
}
