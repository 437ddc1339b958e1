package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/family-budget/internal/domain"
	"github.com/dvloznov/family-budget/internal/jobs"
)

func waitForStatus(t *testing.T, s *Store, jobID string, want jobs.JobStatus) *jobs.ReceiptScanJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := s.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach status %s", jobID, want)
	return nil
}

func TestQueue_ProcessesJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := NewQueue(4, 2, store)
	defer q.Close()

	err := q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		scan := job.(*jobs.ReceiptScanJob)
		scan.Drafts = []domain.TransactionInput{{Description: "Einkauf " + scan.ImageKey}}
		return nil
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.ReceiptScanJob{ImageKey: "receipts/x.jpg"}
	if err := q.PublishReceiptScan(ctx, job); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if job.JobID == "" || job.CreatedAt.IsZero() {
		t.Fatal("expected publish to assign id and creation time")
	}

	done := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if len(done.Drafts) != 1 || done.Drafts[0].Description != "Einkauf receipts/x.jpg" {
		t.Errorf("unexpected drafts: %+v", done.Drafts)
	}
	if done.StartedAt == nil || done.CompletedAt == nil {
		t.Error("expected timestamps to be set")
	}
}

func TestQueue_FailedJobIsNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore()
	q := NewQueue(4, 1, store)
	defer q.Close()

	calls := make(chan struct{}, 10)
	_ = q.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		calls <- struct{}{}
		return errors.New("no drafts recognized")
	})

	job := &jobs.ReceiptScanJob{JobID: "fail", ImageKey: "receipts/y.jpg"}
	if err := q.PublishReceiptScan(ctx, job); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	failed := waitForStatus(t, store, "fail", jobs.JobStatusFailed)
	if failed.Error != "no drafts recognized" {
		t.Errorf("Error = %q", failed.Error)
	}

	time.Sleep(50 * time.Millisecond)
	if n := len(calls); n != 1 {
		t.Errorf("handler called %d times, want 1", n)
	}
}

func TestQueue_PublishAfterStop(t *testing.T) {
	q := NewQueue(1, 1, NewStore())
	if err := q.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// Stopping twice is fine.
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	err := q.PublishReceiptScan(context.Background(), &jobs.ReceiptScanJob{})
	if !errors.Is(err, jobs.ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
	if err := q.Start(context.Background(), nil); !errors.Is(err, jobs.ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed from Start, got %v", err)
	}
}
