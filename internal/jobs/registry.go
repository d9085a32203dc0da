package jobs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"competitive-analysis/internal/domain"
)

// ErrJobNotFound is returned for unknown job identifiers.
var ErrJobNotFound = errors.New("job not found")

// stageOrder fixes the forward-only progression of active stages.
var stageOrder = map[domain.JobStatus]int{
	domain.JobStatusStarted:       0,
	domain.JobStatusSearching:     1,
	domain.JobStatusScraping:      2,
	domain.JobStatusAnalyzing:     3,
	domain.JobStatusGeneratingPDF: 4,
}

// Registry owns all job records for the process lifetime. Records are
// mutated only through registry methods and always replaced whole, so
// readers never observe a partially updated job. Jobs are never evicted.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
	now  func() time.Time
}

// NewRegistry creates an empty in-memory job registry.
func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]domain.Job),
		now:  time.Now,
	}
}

// Create registers a new job in started state and returns a snapshot.
func (r *Registry) Create(businessIdea, location string) domain.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	job := domain.Job{
		ID:           uuid.NewString(),
		BusinessIdea: businessIdea,
		Location:     location,
		Status:       domain.JobStatusStarted,
		Progress:     "Initializing analysis...",
		CreatedAt:    r.now().UTC(),
	}
	r.jobs[job.ID] = job
	return job
}

// Get returns a snapshot of one job or ErrJobNotFound.
func (r *Registry) Get(id string) (domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, ErrJobNotFound
	}
	return job, nil
}

// Update advances a job to a later active stage with new progress text.
// Backward moves and moves out of terminal states are rejected.
func (r *Registry) Update(id string, status domain.JobStatus, progress string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if !isValidTransition(job.Status, status) {
		return fmt.Errorf("invalid transition: %s -> %s", job.Status, status)
	}

	job.Status = status
	job.Progress = progress
	r.jobs[id] = job
	return nil
}

// Complete moves a job to its completed terminal state with results.
func (r *Registry) Complete(id string, competitors []domain.Competitor, analysis, pdfPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status.IsTerminal() {
		return fmt.Errorf("invalid transition: %s -> %s", job.Status, domain.JobStatusCompleted)
	}

	completedAt := r.now().UTC()
	job.Status = domain.JobStatusCompleted
	job.Progress = "Analysis completed successfully"
	job.Competitors = competitors
	job.Analysis = analysis
	job.PDFPath = pdfPath
	job.CompletedAt = &completedAt
	r.jobs[id] = job
	return nil
}

// Fail moves a job to its failed terminal state with an error message.
func (r *Registry) Fail(id, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status.IsTerminal() {
		return fmt.Errorf("invalid transition: %s -> %s", job.Status, domain.JobStatusFailed)
	}

	completedAt := r.now().UTC()
	job.Status = domain.JobStatusFailed
	job.Progress = "Analysis failed"
	job.Error = message
	job.CompletedAt = &completedAt
	r.jobs[id] = job
	return nil
}

// Len reports how many jobs the registry currently tracks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// isValidTransition enforces forward-only movement through active stages.
// Terminal states accept no further transitions.
func isValidTransition(from, to domain.JobStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to.IsTerminal() {
		return true
	}

	fromIdx, ok := stageOrder[from]
	if !ok {
		return false
	}
	toIdx, ok := stageOrder[to]
	if !ok {
		return false
	}
	return toIdx > fromIdx
}
