package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/family-budget/internal/domain"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeReceiptScan extracts transaction drafts from a receipt image.
	JobTypeReceiptScan JobType = "receipt_scan"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
)

var (
	// ErrJobNotFound is returned when no job has the requested ID.
	ErrJobNotFound = errors.New("job not found")
	// ErrNotApplicable is returned when drafts of a job cannot be applied.
	ErrNotApplicable = errors.New("job has no drafts to apply")
	// ErrQueueClosed is returned when publishing to a stopped queue.
	ErrQueueClosed = errors.New("queue is closed")
)

// ReceiptScanJob represents a job to analyze an uploaded receipt image.
type ReceiptScanJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// ImageKey is the blob key of the normalized receipt image.
	ImageKey string `json:"image_key"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// Drafts are the transactions recognized on the receipt. They are not
	// saved until the job is applied.
	Drafts []domain.TransactionInput `json:"drafts,omitempty"`

	// Applied is set once the drafts were written to the record store.
	Applied bool `json:"applied"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`
}

// Job is a generic interface for all job types.
type Job interface {
	// GetID returns the unique job identifier.
	GetID() string

	// GetType returns the job type.
	GetType() JobType

	// GetStatus returns the current job status.
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *ReceiptScanJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *ReceiptScanJob) GetType() JobType {
	return JobTypeReceiptScan
}

// GetStatus implements the Job interface.
func (j *ReceiptScanJob) GetStatus() JobStatus {
	return j.Status
}

// Clone returns a copy that shares no mutable state with j.
func (j *ReceiptScanJob) Clone() *ReceiptScanJob {
	c := *j
	if j.Drafts != nil {
		c.Drafts = make([]domain.TransactionInput, len(j.Drafts))
		copy(c.Drafts, j.Drafts)
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishReceiptScan publishes a receipt analysis job.
	PublishReceiptScan(ctx context.Context, job *ReceiptScanJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job. A returned error marks the
// job failed; receipt jobs are not retried.
type JobHandler func(ctx context.Context, job Job) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *ReceiptScanJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ReceiptScanJob, error)

	// ListJobs retrieves jobs with optional filtering, newest first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*ReceiptScanJob, error)

	// MarkApplied flags a completed job's drafts as applied and returns the job.
	// It fails with ErrNotApplicable if the job is not completed or was already applied.
	MarkApplied(ctx context.Context, jobID string) (*ReceiptScanJob, error)

	// ReleaseApplied clears the applied flag after the drafts could not be saved,
	// so the job can be applied again.
	ReleaseApplied(ctx context.Context, jobID string) error
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
