package search

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/models"
	"github.com/ternarybob/venari/internal/sources"
	"github.com/ternarybob/venari/internal/storage/sqlite"
)

type fakeSource struct {
	name      string
	available bool
	jobs      []*models.Job
	err       error
	useBatch  bool
	delay     time.Duration
}

func (f *fakeSource) Name() string         { return f.name }
func (f *fakeSource) RequiresAPIKey() bool { return false }
func (f *fakeSource) Available() bool      { return f.available }

func (f *fakeSource) Fetch(ctx context.Context, opts sources.FetchOptions) ([]*models.Job, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.useBatch && opts.OnBatch != nil {
		opts.OnBatch(f.jobs)
	}
	return f.jobs, nil
}

type fakeRegistry struct {
	sources []*fakeSource
}

func (r *fakeRegistry) Get(name string) (sources.Source, bool) {
	for _, s := range r.sources {
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

func (r *fakeRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.name)
	}
	return names
}

func fakeJobs(source string, n int) []*models.Job {
	jobs := make([]*models.Job, 0, n)
	for i := 0; i < n; i++ {
		j := &models.Job{
			Title:   fmt.Sprintf("Engineer %d", i),
			Company: "Acme",
			URL:     fmt.Sprintf("https://example.com/%s/%d", source, i),
			Source:  source,
		}
		j.Normalize()
		jobs = append(jobs, j)
	}
	return jobs
}

func newTestManager(t *testing.T, registry SourceRegistry) *Manager {
	t.Helper()
	cfg := &common.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	storage, err := sqlite.NewManager(common.GetLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })
	return NewManager(storage, registry, 4, 100, common.GetLogger())
}

func waitForTask(t *testing.T, m *Manager, id string) map[string]interface{} {
	t.Helper()
	task, ok := m.GetTask(id)
	require.True(t, ok)

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		switch task.Status() {
		case StatusCompleted, StatusFailed, StatusCancelled:
			return task.Snapshot()
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s did not finish: %v", id, task.Snapshot())
	return nil
}

func TestStartSearchSavesAndCounts(t *testing.T) {
	registry := &fakeRegistry{sources: []*fakeSource{
		{name: "Alpha", available: true, jobs: fakeJobs("Alpha", 3)},
		{name: "Beta", available: true, jobs: fakeJobs("Beta", 2)},
	}}
	m := newTestManager(t, registry)

	id := m.StartSearch(Request{Keywords: []string{"engineer"}})
	assert.Len(t, id, 12)

	snapshot := waitForTask(t, m, id)
	assert.Equal(t, StatusCompleted, snapshot["status"])
	assert.Equal(t, 2, snapshot["total_sources"])
	assert.Equal(t, 2, snapshot["completed_sources"])
	assert.Equal(t, 5, snapshot["jobs_found"])
	assert.Equal(t, 5, snapshot["new_jobs_saved"])
	assert.Empty(t, snapshot["errors"])

	results := snapshot["source_results"].(map[string]int)
	assert.Equal(t, 3, results["Alpha"])
	assert.Equal(t, 2, results["Beta"])
}

func TestStartSearchBatchSourcesNotDoubleSaved(t *testing.T) {
	registry := &fakeRegistry{sources: []*fakeSource{
		{name: "Batchy", available: true, jobs: fakeJobs("Batchy", 4), useBatch: true},
	}}
	m := newTestManager(t, registry)

	snapshot := waitForTask(t, m, m.StartSearch(Request{}))
	assert.Equal(t, StatusCompleted, snapshot["status"])
	assert.Equal(t, 4, snapshot["jobs_found"])
	assert.Equal(t, 4, snapshot["new_jobs_saved"])
}

func TestStartSearchNoSourcesAvailable(t *testing.T) {
	registry := &fakeRegistry{sources: []*fakeSource{
		{name: "Keyed", available: false},
	}}
	m := newTestManager(t, registry)

	snapshot := waitForTask(t, m, m.StartSearch(Request{}))
	assert.Equal(t, StatusFailed, snapshot["status"])
	errs := snapshot["errors"].([]string)
	require.Len(t, errs, 1)
	assert.Equal(t, "No sources available. Check API key configuration.", errs[0])
}

func TestStartSearchSourceErrorStillCompletes(t *testing.T) {
	registry := &fakeRegistry{sources: []*fakeSource{
		{name: "Good", available: true, jobs: fakeJobs("Good", 1)},
		{name: "Broken", available: true, err: errors.New("boom")},
	}}
	m := newTestManager(t, registry)

	snapshot := waitForTask(t, m, m.StartSearch(Request{}))
	assert.Equal(t, StatusCompleted, snapshot["status"])
	assert.Equal(t, 1, snapshot["jobs_found"])
	errs := snapshot["errors"].([]string)
	require.Len(t, errs, 1)
	assert.Equal(t, "Broken: boom", errs[0])

	status := snapshot["source_status"].(map[string]interface{})
	broken := status["Broken"].(map[string]interface{})
	assert.Equal(t, "error", broken["status"])
}

func TestStartSearchDedupesRequestedSources(t *testing.T) {
	alpha := &fakeSource{name: "Alpha", available: true, jobs: fakeJobs("Alpha", 1)}
	registry := &fakeRegistry{sources: []*fakeSource{alpha}}
	m := newTestManager(t, registry)

	snapshot := waitForTask(t, m, m.StartSearch(Request{
		Sources: []string{"Alpha", "Alpha", "", "Unknown"},
	}))
	assert.Equal(t, StatusCompleted, snapshot["status"])
	assert.Equal(t, 1, snapshot["total_sources"])
	assert.Equal(t, 1, snapshot["jobs_found"])
}

func TestStartSearchMapsLegacyLinkedInName(t *testing.T) {
	direct := &fakeSource{name: "LinkedIn (Direct)", available: true, jobs: fakeJobs("LinkedIn (Direct)", 2)}
	registry := &fakeRegistry{sources: []*fakeSource{direct}}
	m := newTestManager(t, registry)

	snapshot := waitForTask(t, m, m.StartSearch(Request{Sources: []string{"LinkedIn"}}))
	assert.Equal(t, StatusCompleted, snapshot["status"])
	assert.Equal(t, 2, snapshot["jobs_found"])
}

func TestCancelSearch(t *testing.T) {
	slow := []*fakeSource{}
	for i := 0; i < 8; i++ {
		slow = append(slow, &fakeSource{
			name:      fmt.Sprintf("Slow%d", i),
			available: true,
			jobs:      fakeJobs(fmt.Sprintf("Slow%d", i), 1),
			delay:     200 * time.Millisecond,
		})
	}
	m := newTestManager(t, &fakeRegistry{sources: slow})

	id := m.StartSearch(Request{})
	time.Sleep(50 * time.Millisecond)
	assert.True(t, m.CancelSearch(id))

	snapshot := waitForTask(t, m, id)
	assert.Equal(t, StatusCancelled, snapshot["status"])
	assert.Equal(t, true, snapshot["cancelled"])

	// Cancelling a finished task reports false
	assert.False(t, m.CancelSearch(id))
	assert.False(t, m.CancelSearch("missing"))
}

func TestGetTaskMissing(t *testing.T) {
	m := newTestManager(t, &fakeRegistry{})
	_, ok := m.GetTask("nope")
	assert.False(t, ok)
}
