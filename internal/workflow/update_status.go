package workflow

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
)

// UpdateJobStatus records the print outcome the kiosk reports after
// redemption. Only paid jobs move; a job still awaiting payment cannot jump
// to a print state.
func (e *Engine) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	switch status {
	case models.JobStatusPrinting, models.JobStatusCompleted, models.JobStatusFailed:
	default:
		return fmt.Errorf("%w: status must be one of PRINTING, COMPLETED, FAILED", ErrValidation)
	}

	job, err := e.jobs.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status == models.JobStatusPendingPayment {
		return fmt.Errorf("%w: job has not been paid", ErrValidation)
	}

	if err := e.jobs.UpdateJobStatus(ctx, jobID, status); err != nil {
		return err
	}

	if err := e.notifier.PublishKioskEvent(job.KioskID, "job_status_changed",
		map[string]interface{}{"job_id": jobID.String(), "status": status}); err != nil {
		log.Printf("Warning: failed to publish job_status_changed event: %v", err)
	}

	return nil
}
