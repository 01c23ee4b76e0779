package search

import (
	"sync"
	"time"
)

// Task statuses
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// sourceState tracks one source's progress within a search
type sourceState struct {
	status     string
	startedAt  time.Time
	finishedAt time.Time
	jobs       int
	err        string
}

// Task tracks the state of a running or finished search. All fields are
// guarded by the mutex; readers go through Snapshot.
type Task struct {
	mu sync.Mutex

	id               string
	status           string
	cancelled        bool
	totalSources     int
	completedSources int
	currentSource    string
	jobsFound        int
	newJobsSaved     int
	errors           []string
	startedAt        time.Time
	finishedAt       time.Time
	sourceResults    map[string]int
	sourceStatus     map[string]*sourceState
}

func newTask(id string) *Task {
	return &Task{
		id:            id,
		status:        StatusPending,
		sourceResults: map[string]int{},
		sourceStatus:  map[string]*sourceState{},
	}
}

// ID returns the task identifier
func (t *Task) ID() string {
	return t.id
}

// Status returns the current lifecycle status
func (t *Task) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Cancel requests cancellation of a running search. Returns false when
// the task already finished.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusRunning {
		return false
	}
	t.cancelled = true
	return true
}

func (t *Task) isCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

func (t *Task) start(totalSources int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusRunning
	t.startedAt = time.Now()
	t.totalSources = totalSources
}

func (t *Task) fail(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = StatusFailed
	t.errors = append(t.errors, message)
	t.finishedAt = time.Now()
}

func (t *Task) finish(cancelled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cancelled {
		t.status = StatusCancelled
	} else {
		// Errors from individual sources do not fail the search
		t.status = StatusCompleted
	}
	t.finishedAt = time.Now()
}

func (t *Task) sourceStarted(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentSource = name
	t.sourceStatus[name] = &sourceState{status: StatusRunning, startedAt: time.Now()}
}

func (t *Task) sourcePending(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sourceStatus[name] = &sourceState{status: StatusPending}
}

func (t *Task) sourceCompleted(name string, jobs int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completedSources++
	t.sourceResults[name] = jobs
	if state, ok := t.sourceStatus[name]; ok {
		state.status = StatusCompleted
		state.finishedAt = time.Now()
		state.jobs = jobs
	}
}

func (t *Task) sourceFailed(name string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completedSources++
	t.sourceResults[name] = 0
	t.errors = append(t.errors, name+": "+err.Error())
	if state, ok := t.sourceStatus[name]; ok {
		state.status = "error"
		state.finishedAt = time.Now()
		state.err = err.Error()
	}
}

func (t *Task) addFound(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobsFound += n
}

func (t *Task) addSaved(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.newJobsSaved += n
}

func (t *Task) addError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, message)
}

func (t *Task) runningSources() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := []string{}
	for name, state := range t.sourceStatus {
		if state.status == StatusRunning {
			names = append(names, name)
		}
	}
	return names
}

func elapsedSeconds(start, end time.Time) float64 {
	if start.IsZero() {
		return 0
	}
	if end.IsZero() {
		end = time.Now()
	}
	return float64(int(end.Sub(start).Seconds()*10)) / 10
}

// Snapshot returns the task state in the shape the status endpoint
// serves, safe to marshal while the search keeps running
func (t *Task) Snapshot() map[string]interface{} {
	t.mu.Lock()
	defer t.mu.Unlock()

	sourceInfo := map[string]interface{}{}
	for name, state := range t.sourceStatus {
		entry := map[string]interface{}{"status": state.status}
		if !state.startedAt.IsZero() {
			entry["elapsed_seconds"] = elapsedSeconds(state.startedAt, state.finishedAt)
		}
		if state.jobs > 0 {
			entry["jobs"] = state.jobs
		}
		if state.err != "" {
			entry["error"] = state.err
		}
		sourceInfo[name] = entry
	}

	errors := make([]string, len(t.errors))
	copy(errors, t.errors)
	results := make(map[string]int, len(t.sourceResults))
	for name, count := range t.sourceResults {
		results[name] = count
	}

	return map[string]interface{}{
		"task_id":           t.id,
		"status":            t.status,
		"cancelled":         t.cancelled,
		"total_sources":     t.totalSources,
		"completed_sources": t.completedSources,
		"current_source":    t.currentSource,
		"jobs_found":        t.jobsFound,
		"new_jobs_saved":    t.newJobsSaved,
		"errors":            errors,
		"elapsed_seconds":   elapsedSeconds(t.startedAt, t.finishedAt),
		"source_results":    results,
		"source_status":     sourceInfo,
	}
}
