// Package state tracks digest generation runs. Each run gets its own status
// record keyed by a run ID, so concurrent runs never clobber each other's
// progress.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run states.
const (
	StateRunning  = "running"
	StateComplete = "complete"
	StateError    = "error"
)

// RunStatus is a snapshot of one generation run.
type RunStatus struct {
	RunID      string `json:"run_id"`
	State      string `json:"state"`
	Articles   int    `json:"articles"`
	Images     int    `json:"images"`
	Insights   int    `json:"insights"`
	Date       string `json:"date,omitempty"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}

// Tracker holds run statuses with thread-safe access.
type Tracker struct {
	mu     sync.RWMutex
	runs   map[string]*RunStatus
	latest string
}

// NewTracker creates an empty run tracker.
func NewTracker() *Tracker {
	return &Tracker{runs: make(map[string]*RunStatus)}
}

// Start registers a new run and returns its ID.
func (t *Tracker) Start() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := uuid.NewString()
	t.runs[id] = &RunStatus{
		RunID:     id,
		State:     StateRunning,
		StartedAt: time.Now().Format(time.RFC3339),
	}
	t.latest = id
	return id
}

// SetArticles records how many articles the run fetched.
func (t *Tracker) SetArticles(runID string, n int) {
	t.update(runID, func(r *RunStatus) { r.Articles = n })
}

// SetImages records how many articles have a resolved image.
func (t *Tracker) SetImages(runID string, n int) {
	t.update(runID, func(r *RunStatus) { r.Images = n })
}

// SetInsights records how many insights have been generated.
func (t *Tracker) SetInsights(runID string, n int) {
	t.update(runID, func(r *RunStatus) { r.Insights = n })
}

// Complete marks the run finished with the digest date it produced.
func (t *Tracker) Complete(runID, date string) {
	t.update(runID, func(r *RunStatus) {
		r.State = StateComplete
		r.Date = date
		r.FinishedAt = time.Now().Format(time.RFC3339)
	})
}

// Fail marks the run finished with an error.
func (t *Tracker) Fail(runID string, err error) {
	t.update(runID, func(r *RunStatus) {
		r.State = StateError
		r.Error = err.Error()
		r.FinishedAt = time.Now().Format(time.RFC3339)
	})
}

// Get returns a snapshot of the run, or false if the ID is unknown.
func (t *Tracker) Get(runID string) (RunStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.runs[runID]
	if !ok {
		return RunStatus{}, false
	}
	return *r, true
}

// Latest returns a snapshot of the most recently started run, or false if no
// run has started yet.
func (t *Tracker) Latest() (RunStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.runs[t.latest]
	if !ok {
		return RunStatus{}, false
	}
	return *r, true
}

func (t *Tracker) update(runID string, fn func(*RunStatus)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, ok := t.runs[runID]; ok {
		fn(r)
	}
}
