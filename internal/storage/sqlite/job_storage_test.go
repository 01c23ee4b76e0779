package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
)

func newTestManager(t *testing.T) interfaces.StorageManager {
	t.Helper()
	cfg := &common.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	mgr, err := NewManager(common.GetLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func sampleJob(source, url, title string) *models.Job {
	j := &models.Job{
		Title:       title,
		Company:     "Acme",
		Location:    "London, UK",
		Description: "Build things in Go",
		URL:         url,
		Source:      source,
		Remote:      models.RemoteYes,
	}
	j.Normalize()
	return j
}

func TestSaveJobs_DedupesOnJobID(t *testing.T) {
	mgr := newTestManager(t)
	jobs := mgr.JobStorage()

	batch := []*models.Job{
		sampleJob("RemoteOK", "https://x/1", "Go Engineer"),
		sampleJob("RemoteOK", "https://x/2", "Backend Engineer"),
	}

	n, err := jobs.SaveJobs(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Second save of the same batch writes nothing
	n, err = jobs.SaveJobs(batch)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	results, err := jobs.Search(interfaces.JobSearchOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSaveJobs_SameURLDifferentSource(t *testing.T) {
	mgr := newTestManager(t)

	n, err := mgr.JobStorage().SaveJobs([]*models.Job{
		sampleJob("SourceA", "https://x/y", "Data Engineer"),
		sampleJob("SourceB", "https://x/y", "Data Engineer"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSearch_FullTextPrefix(t *testing.T) {
	mgr := newTestManager(t)
	jobs := mgr.JobStorage()

	_, err := jobs.SaveJobs([]*models.Job{
		sampleJob("S", "https://x/1", "Machine Learning Engineer"),
		sampleJob("S", "https://x/2", "Gardener"),
	})
	require.NoError(t, err)

	results, err := jobs.Search(interfaces.JobSearchOptions{Query: "machine learn"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Machine Learning Engineer", results[0]["title"])
}

func TestSearch_RegionFilter(t *testing.T) {
	mgr := newTestManager(t)
	jobs := mgr.JobStorage()

	london := sampleJob("S", "https://x/1", "Engineer")
	berlin := sampleJob("S", "https://x/2", "Engineer")
	berlin.Location = "Berlin, Germany"
	remote := sampleJob("S", "https://x/3", "Engineer")
	remote.Location = "Remote"

	_, err := jobs.SaveJobs([]*models.Job{london, berlin, remote})
	require.NoError(t, err)

	results, err := jobs.Search(interfaces.JobSearchOptions{Region: "united kingdom"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "London, UK", results[0]["location"])
}

func TestSearch_SalaryMinExcludesUnknown(t *testing.T) {
	mgr := newTestManager(t)
	jobs := mgr.JobStorage()

	min := 80000.0
	paid := sampleJob("S", "https://x/1", "Engineer")
	paid.SalaryMin = &min
	unknown := sampleJob("S", "https://x/2", "Engineer")

	_, err := jobs.SaveJobs([]*models.Job{paid, unknown})
	require.NoError(t, err)

	threshold := 70000.0
	results, err := jobs.Search(interfaces.JobSearchOptions{SalaryMin: &threshold})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 80000.0, results[0]["salary_min"])
}

func TestSearch_ExcludeNotInterested(t *testing.T) {
	mgr := newTestManager(t)

	a := sampleJob("S", "https://x/1", "Engineer")
	b := sampleJob("S", "https://x/2", "Engineer")
	_, err := mgr.JobStorage().SaveJobs([]*models.Job{a, b})
	require.NoError(t, err)

	added, err := mgr.TriageStorage().AddNotInterested(a.JobID)
	require.NoError(t, err)
	assert.True(t, added)

	results, err := mgr.JobStorage().Search(interfaces.JobSearchOptions{ExcludeNotInterested: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, b.JobID, results[0]["job_id"])
}

func TestSearch_DatePostedSortFloorsInvalid(t *testing.T) {
	mgr := newTestManager(t)
	jobs := mgr.JobStorage()

	dated := sampleJob("S", "https://x/1", "Dated")
	dated.DatePosted = "2026-08-10"
	undated := sampleJob("S", "https://x/2", "Undated")
	undated.DatePosted = "about a week ago"

	_, err := jobs.SaveJobs([]*models.Job{undated, dated})
	require.NoError(t, err)

	results, err := jobs.Search(interfaces.JobSearchOptions{SortBy: "date_posted"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Dated", results[0]["title"])
}

func TestGetJob_StatusDecoration(t *testing.T) {
	mgr := newTestManager(t)

	j := sampleJob("S", "https://x/1", "Engineer")
	_, err := mgr.JobStorage().SaveJobs([]*models.Job{j})
	require.NoError(t, err)

	_, err = mgr.TriageStorage().AddFavourite(j.JobID)
	require.NoError(t, err)
	_, err = mgr.TriageStorage().AddApplication(j.JobID, "sent CV")
	require.NoError(t, err)

	got, err := mgr.JobStorage().GetJob(j.JobID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, true, got["is_favourite"])
	assert.Equal(t, true, got["is_applied"])
	assert.Equal(t, false, got["is_not_interested"])
	assert.Equal(t, "sent CV", got["application_notes"])

	missing, err := mgr.JobStorage().GetJob("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetJobStatuses_Bulk(t *testing.T) {
	mgr := newTestManager(t)

	a := sampleJob("S", "https://x/1", "A")
	b := sampleJob("S", "https://x/2", "B")
	_, err := mgr.JobStorage().SaveJobs([]*models.Job{a, b})
	require.NoError(t, err)
	_, err = mgr.TriageStorage().AddFavourite(a.JobID)
	require.NoError(t, err)

	statuses, err := mgr.JobStorage().GetJobStatuses([]string{a.JobID, b.JobID})
	require.NoError(t, err)
	assert.True(t, statuses[a.JobID].IsFavourite)
	assert.False(t, statuses[b.JobID].IsFavourite)
}

func TestExportCSV_HeaderAndRows(t *testing.T) {
	mgr := newTestManager(t)

	out, err := mgr.JobStorage().ExportCSV()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, strings.Join(models.CSVColumns, ","), lines[0])

	_, err = mgr.JobStorage().SaveJobs([]*models.Job{sampleJob("S", "https://x/1", "Engineer")})
	require.NoError(t, err)

	out, err = mgr.JobStorage().ExportCSV()
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
}

func TestGetStats(t *testing.T) {
	mgr := newTestManager(t)

	stats, err := mgr.JobStorage().GetStats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats["total_jobs"])

	_, err = mgr.JobStorage().SaveJobs([]*models.Job{
		sampleJob("RemoteOK", "https://x/1", "A"),
		sampleJob("Reed", "https://x/2", "B"),
	})
	require.NoError(t, err)

	stats, err = mgr.JobStorage().GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats["total_jobs"])
	assert.Equal(t, map[string]int{"RemoteOK": 1, "Reed": 1}, stats["sources"])
	assert.Equal(t, 2, stats["remote_count"])
}
