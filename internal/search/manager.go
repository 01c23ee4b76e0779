package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/common"
	"github.com/ternarybob/venari/internal/interfaces"
	"github.com/ternarybob/venari/internal/models"
	"github.com/ternarybob/venari/internal/sources"
)

// SourceRegistry is the slice of the source registry the orchestrator
// needs
type SourceRegistry interface {
	Get(name string) (sources.Source, bool)
	Names() []string
}

// Request carries the parameters of one search run
type Request struct {
	Keywords            []string `json:"keywords"`
	Location            string   `json:"location"`
	Remote              string   `json:"remote"`
	JobType             string   `json:"job_type"`
	SalaryMin           *float64 `json:"salary_min"`
	ExperienceLevel     string   `json:"experience_level"`
	Sources             []string `json:"sources"`
	MaxResultsPerSource int      `json:"max_results_per_source"`
	PostedInLastDays    int      `json:"posted_in_last_days"`
}

// Manager coordinates searches: it fans source fetches out over a
// bounded worker pool and persists results as they arrive, so a crash
// mid-search keeps everything already fetched.
type Manager struct {
	storage    interfaces.StorageManager
	registry   SourceRegistry
	workers    int
	defaultMax int
	logger     arbor.ILogger

	mu    sync.RWMutex
	tasks map[string]*Task
}

func NewManager(storage interfaces.StorageManager, registry SourceRegistry, workers, defaultMaxResults int, logger arbor.ILogger) *Manager {
	if workers < 1 {
		workers = 4
	}
	if defaultMaxResults < 1 {
		defaultMaxResults = 100
	}
	return &Manager{
		storage:    storage,
		registry:   registry,
		workers:    workers,
		defaultMax: defaultMaxResults,
		logger:     logger,
		tasks:      map[string]*Task{},
	}
}

// StartSearch kicks off a background search and returns a task ID for
// polling
func (m *Manager) StartSearch(req Request) string {
	task := newTask(common.NewTaskID())

	m.mu.Lock()
	m.tasks[task.ID()] = task
	m.mu.Unlock()

	go m.run(task, req)
	return task.ID()
}

// GetTask returns the task registered under id
func (m *Manager) GetTask(id string) (*Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[id]
	return task, ok
}

// CancelSearch requests cancellation of a running search
func (m *Manager) CancelSearch(id string) bool {
	task, ok := m.GetTask(id)
	if !ok {
		return false
	}
	return task.Cancel()
}

// resolveSources dedupes the requested names preserving order and drops
// unknown ones. "LinkedIn" from older saved searches maps to the direct
// scraper.
func (m *Manager) resolveSources(requested []string) []sources.Source {
	names := requested
	if len(names) == 0 {
		names = m.registry.Names()
	}

	seen := map[string]bool{}
	active := []sources.Source{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "LinkedIn" {
			name = "LinkedIn (Direct)"
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		source, ok := m.registry.Get(name)
		if !ok {
			continue
		}
		if !source.Available() {
			m.logger.Info().Str("source", name).Msg("Source skipped, not available or no API key")
			continue
		}
		active = append(active, source)
	}
	return active
}

func (m *Manager) run(task *Task, req Request) {
	if req.MaxResultsPerSource < 1 {
		req.MaxResultsPerSource = m.defaultMax
	}

	active := m.resolveSources(req.Sources)
	task.start(len(active))

	if len(active) == 0 {
		task.fail("No sources available. Check API key configuration.")
		return
	}
	for _, source := range active {
		task.sourcePending(source.Name())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Buffered and pre-filled so workers that bail out on cancellation
	// never strand the producer
	queue := make(chan sources.Source, len(active))
	for _, source := range active {
		queue <- source
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range queue {
				if task.isCancelled() {
					cancel()
					return
				}
				m.fetchSource(ctx, task, source, req)

				if running := task.runningSources(); len(running) > 0 {
					snapshot := task.Snapshot()
					m.logger.Info().
						Int("completed", snapshot["completed_sources"].(int)).
						Int("total", snapshot["total_sources"].(int)).
						Str("still_running", strings.Join(running, ", ")).
						Msg("Search progress")
				}
			}
		}()
	}
	wg.Wait()

	task.finish(task.isCancelled())
	m.logSummary(task)
}

// fetchSource runs one source to completion. Sources that flush pages
// through OnBatch are not bulk-saved again at the end.
func (m *Manager) fetchSource(ctx context.Context, task *Task, source sources.Source, req Request) {
	name := source.Name()
	task.sourceStarted(name)
	m.logger.Info().Str("source", name).Msg("Source started")

	usedBatch := false
	opts := sources.FetchOptions{
		Keywords:         req.Keywords,
		Location:         req.Location,
		Remote:           req.Remote,
		JobType:          req.JobType,
		SalaryMin:        req.SalaryMin,
		ExperienceLevel:  req.ExperienceLevel,
		MaxResults:       req.MaxResultsPerSource,
		PostedInLastDays: req.PostedInLastDays,
		OnBatch: func(batch []*models.Job) {
			if len(batch) == 0 {
				return
			}
			usedBatch = true
			task.addFound(len(batch))
			saved, err := m.storage.JobStorage().SaveJobs(batch)
			if err != nil {
				task.addError(fmt.Sprintf("Storage error (batch): %v", err))
				return
			}
			task.addSaved(saved)
		},
	}

	results, err := source.Fetch(ctx, opts)
	if err != nil {
		task.sourceFailed(name, err)
		m.logger.Error().Err(err).Str("source", name).Msg("Source failed")
		return
	}

	task.sourceCompleted(name, len(results))
	m.logger.Info().Str("source", name).Int("jobs", len(results)).Msg("Source finished")

	if !usedBatch {
		task.addFound(len(results))
		saved, err := m.storage.JobStorage().SaveJobs(results)
		if err != nil {
			task.addError(fmt.Sprintf("Storage error (%s): %v", name, err))
			return
		}
		task.addSaved(saved)
	}
}

func (m *Manager) logSummary(task *Task) {
	snapshot := task.Snapshot()
	results := snapshot["source_results"].(map[string]int)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return results[names[i]] > results[names[j]] })

	m.logger.Info().
		Str("task_id", task.ID()).
		Str("status", snapshot["status"].(string)).
		Float64("elapsed_seconds", snapshot["elapsed_seconds"].(float64)).
		Int("jobs_found", snapshot["jobs_found"].(int)).
		Int("new_jobs_saved", snapshot["new_jobs_saved"].(int)).
		Msg("Search complete")
	for _, name := range names {
		m.logger.Info().Str("source", name).Int("jobs", results[name]).Msg("Source result")
	}
	for _, errMsg := range snapshot["errors"].([]string) {
		m.logger.Warn().Str("error", errMsg).Msg("Search error")
	}
}
