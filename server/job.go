package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"scherzo/codegen"
)

// Status is a job's lifecycle state, mirroring the original server's
// JobStatus enum (Uploaded/Running/Completed/Failed); its Enqueued state
// has no counterpart here.
type Status string

const (
	StatusUploaded  Status = "uploaded"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job is one compiled G-code job and its run-time status.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`

	mu       sync.Mutex
	status   Status
	progress float64 // 0..1, only meaningful while Running
	errMsg   string

	source  string
	program *codegen.Program
}

// Snapshot returns the job's current status, progress fraction, and error
// message (non-empty only if Status is Failed).
func (j *Job) Snapshot() (Status, float64, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, j.progress, j.errMsg
}

func (j *Job) setStatus(s Status) {
	j.mu.Lock()
	j.status = s
	j.mu.Unlock()
}

func (j *Job) setProgress(p float64) {
	j.mu.Lock()
	j.progress = p
	j.mu.Unlock()
}

func (j *Job) fail(err error) {
	j.mu.Lock()
	j.status = StatusFailed
	j.errMsg = err.Error()
	j.mu.Unlock()
}

// Store is an in-memory job registry, the Go equivalent of the original
// server's JobStore (a HashMap<Uuid, JobMetadata> behind an RwLock).
type Store struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
}

// NewStore returns an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[uuid.UUID]*Job)}
}

// Add registers a newly compiled job under a fresh ID.
func (s *Store) Add(name, source string, program *codegen.Program) *Job {
	job := &Job{
		ID:        uuid.New(),
		Name:      name,
		SizeBytes: len(source),
		CreatedAt: time.Now(),
		status:    StatusUploaded,
		source:    source,
		program:   program,
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

// Get looks up a job by ID.
func (s *Store) Get(id uuid.UUID) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

// List returns every job, unordered.
func (s *Store) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out
}
