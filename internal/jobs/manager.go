// Package jobs tracks background work, primarily index rebuilds, so HTTP
// clients can start a job and poll its status.
package jobs

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/AnggaPuspa/GatotKACASEARCH-ENGINE/internal/errors"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Type names what a job does.
type Type string

const (
	// TypeReindex rebuilds the search index from the corpus folder.
	TypeReindex Type = "reindex"
)

// Job is one tracked unit of background work. Result holds the document
// count for completed reindex jobs.
type Job struct {
	ID          string     `json:"id"`
	Type        Type       `json:"type"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Result      int        `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// terminal reports whether the job reached a final state.
func (j *Job) terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed || j.Status == StatusCancelled
}

// Manager runs jobs on a bounded worker pool and retains their records
// for polling until cleanup.
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*Job
	workers  chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	log      *slog.Logger
}

// NewManager creates a manager allowing maxWorkers concurrent jobs.
func NewManager(maxWorkers int, log *slog.Logger) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		jobs:     make(map[string]*Job),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
		log:      log,
	}
}

// Start launches the periodic cleanup of old finished jobs.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.cleanupLoop()
}

// Stop waits for running jobs and background routines to finish.
func (m *Manager) Stop() {
	close(m.stopChan)
	m.wg.Wait()
}

// Submit registers a job and runs fn on a worker slot. It returns the job
// ID immediately; fn's outcome is recorded on the job record. fn returns
// the reindex document count.
func (m *Manager) Submit(jobType Type, fn func(ctx context.Context) (int, error)) string {
	job := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(job.ID, fn)

	m.log.Info("job submitted", "job_id", job.ID, "type", string(jobType))
	return job.ID
}

// Get returns a copy of the job record.
func (m *Manager) Get(id string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, apperrors.JobNotFound(id)
	}
	copied := *job
	return &copied, nil
}

// List returns copies of all tracked jobs, newest first.
func (m *Manager) List() []*Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		copied := *job
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// run waits for a worker slot, executes fn, and records the outcome.
func (m *Manager) run(id string, fn func(ctx context.Context) (int, error)) {
	defer m.wg.Done()

	select {
	case m.workers <- struct{}{}:
	case <-m.stopChan:
		m.finish(id, StatusCancelled, 0, "manager shutting down")
		return
	}
	defer func() { <-m.workers }()

	m.transition(id, StatusRunning)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-m.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	count, err := fn(ctx)
	if err != nil {
		m.finish(id, StatusFailed, 0, err.Error())
		m.log.Warn("job failed", "job_id", id, "duration", time.Since(start).String(), "error", err)
		return
	}
	m.finish(id, StatusCompleted, count, "")
	m.log.Info("job completed", "job_id", id, "duration", time.Since(start).String(), "result", count)
}

// transition marks a job as started.
func (m *Manager) transition(id string, status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	now := time.Now()
	job.StartedAt = &now
}

// finish records a terminal state.
func (m *Manager) finish(id string, status Status, result int, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	job.Result = result
	job.Error = errMsg
	now := time.Now()
	job.CompletedAt = &now
}

// CleanupOldJobs drops finished jobs older than maxAge and returns how
// many were removed.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, job := range m.jobs {
		if job.terminal() && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := m.CleanupOldJobs(24 * time.Hour); removed > 0 {
				m.log.Debug("cleaned up old jobs", "removed", removed)
			}
		case <-m.stopChan:
			return
		}
	}
}
