package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/advisor"
	"github.com/dvloznov/family-budget/internal/api/middleware"
	"github.com/dvloznov/family-budget/internal/domain"
	"github.com/dvloznov/family-budget/internal/jobs"
)

// ReceiptsHandler accepts receipt photos for asynchronous analysis.
type ReceiptsHandler struct {
	store     RecordStore
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(store RecordStore, publisher jobs.Publisher, log zerolog.Logger) *ReceiptsHandler {
	return &ReceiptsHandler{
		store:     store,
		publisher: publisher,
		log:       log,
	}
}

// UploadReceipt handles POST /api/receipts. The body is the raw image.
func (h *ReceiptsHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Receipt scanning not configured")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, advisor.MaxReceiptSize+1))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	jpeg, err := advisor.PrepareReceiptImage(data)
	switch {
	case errors.Is(err, advisor.ErrImageTooLarge):
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "Image too large")
		return
	case err != nil:
		middleware.WriteError(w, http.StatusBadRequest, "Invalid image")
		return
	}

	ctx := r.Context()
	key, err := h.store.SaveReceiptImage(ctx, jpeg)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to store receipt image")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	job := &jobs.ReceiptScanJob{ImageKey: key}
	if err := h.publisher.PublishReceiptScan(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue receipt job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue receipt job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("image_key", key).Msg("Receipt job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id":    job.JobID,
		"image_key": key,
		"status":    string(jobs.JobStatusPending),
	})
}

// ReceiptImages loads stored receipt images for the worker.
type ReceiptImages interface {
	ReceiptImage(ctx context.Context, key string) ([]byte, error)
	Categories() []string
}

// ReceiptAnalyzer extracts drafts from a receipt image.
type ReceiptAnalyzer interface {
	RequestReceiptAnalysis(ctx context.Context, image []byte, categories []string) []domain.TransactionInput
}

// ErrNoDrafts marks a receipt on which nothing usable was recognized.
var ErrNoDrafts = errors.New("no transactions recognized on receipt")

// ReceiptJobHandler returns the worker function for receipt scan jobs.
func ReceiptJobHandler(images ReceiptImages, analyzer ReceiptAnalyzer, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
		scan, ok := job.(*jobs.ReceiptScanJob)
		if !ok {
			return errors.New("unexpected job type")
		}

		log.Info().Str("job_id", scan.JobID).Str("image_key", scan.ImageKey).Msg("Processing receipt job")

		image, err := images.ReceiptImage(ctx, scan.ImageKey)
		if err != nil {
			log.Error().Err(err).Str("job_id", scan.JobID).Msg("Failed to load receipt image")
			return err
		}

		drafts := analyzer.RequestReceiptAnalysis(ctx, image, images.Categories())
		if drafts == nil {
			return ErrNoDrafts
		}

		scan.Drafts = drafts
		log.Info().Str("job_id", scan.JobID).Int("drafts", len(drafts)).Msg("Receipt job completed")
		return nil
	}
}
