package workflow

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/obs"
)

// FileUpload is one document submitted at the kiosk.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
	Options     models.PrintOptions
}

// CreateJobResult carries the persisted job plus any per-file warnings, such
// as documents that could not be parsed for a page count.
type CreateJobResult struct {
	Job      *models.Job
	Warnings []string
}

// CreateJob stores every file in the object stash, computes the page totals
// and persists the job in PENDING_PAYMENT. If any file fails to store, the
// whole creation is aborted and no job record is written.
func (e *Engine) CreateJob(ctx context.Context, kioskID string, uploads []FileUpload) (*CreateJobResult, error) {
	if kioskID == "" {
		return nil, fmt.Errorf("%w: kioskId is required", ErrValidation)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required", ErrValidation)
	}

	jobID := uuid.New()
	job := &models.Job{
		ID:      jobID,
		KioskID: kioskID,
		Status:  models.JobStatusPendingPayment,
	}

	var warnings []string
	storedKeys := make([]string, 0, len(uploads))
	for i, upload := range uploads {
		key, err := e.stash.Upload(kioskID, upload.Name, upload.Data, upload.ContentType)
		if err != nil {
			// Abort: orphan anything already stored rather than persist a
			// partial job. Keys are random, so leftovers are unreachable.
			for _, stored := range storedKeys {
				if derr := e.stash.Delete(stored); derr != nil {
					log.Printf("Warning: failed to clean up stored file %s: %v", stored, derr)
				}
			}
			return nil, fmt.Errorf("%w: storing %q: %v", ErrStorageFailure, upload.Name, err)
		}
		storedKeys = append(storedKeys, key)

		opts := upload.Options.Normalize()
		pageCount := e.pages.Count(upload.Data)
		if pageCount == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: could not determine page count, billed as blank", upload.Name))
		}

		job.Files = append(job.Files, models.JobFile{
			ID:           uuid.New(),
			JobID:        jobID,
			Position:     i,
			StorageKey:   key,
			OriginalName: upload.Name,
			PageCount:    pageCount,
			Copies:       opts.Copies,
			ColorMode:    opts.ColorMode,
			Duplex:       opts.Duplex,
			PageRange:    opts.PageRange,
		})
		job.TotalPages += pageCount * opts.Copies
	}

	if err := e.jobs.CreateJob(ctx, job); err != nil {
		for _, stored := range storedKeys {
			if derr := e.stash.Delete(stored); derr != nil {
				log.Printf("Warning: failed to clean up stored file %s: %v", stored, derr)
			}
		}
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	obs.RecordJobCreated()
	return &CreateJobResult{Job: job, Warnings: warnings}, nil
}
