package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
)

// CreateJob persists a job and its file rows in one transaction. Either the
// whole job becomes visible or nothing does.
func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO jobs (id, kiosk_id, status, total_pages)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, job.ID, job.KioskID, job.Status, job.TotalPages).Scan(&job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	for i := range job.Files {
		f := &job.Files[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO job_files (id, job_id, position, storage_key, original_name, page_count, copies, color_mode, duplex, page_range)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, f.ID, f.JobID, f.Position, f.StorageKey, f.OriginalName, f.PageCount, f.Copies, f.ColorMode, f.Duplex, f.PageRange)
		if err != nil {
			return fmt.Errorf("failed to insert job file %q: %w", f.OriginalName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit job: %w", err)
	}

	return nil
}

// GetJob loads a job with its files in upload order.
func (s *Store) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kiosk_id, status, total_pages, razorpay_order_id, razorpay_payment_id, paid_at, created_at
		FROM jobs
		WHERE id = $1
	`, jobID).Scan(
		&job.ID, &job.KioskID, &job.Status, &job.TotalPages,
		&job.RazorpayOrderID, &job.RazorpayPaymentID, &job.PaidAt, &job.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, position, storage_key, original_name, page_count, copies, color_mode, duplex, page_range
		FROM job_files
		WHERE job_id = $1
		ORDER BY position ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f models.JobFile
		err := rows.Scan(
			&f.ID, &f.JobID, &f.Position, &f.StorageKey, &f.OriginalName,
			&f.PageCount, &f.Copies, &f.ColorMode, &f.Duplex, &f.PageRange,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job file: %w", err)
		}
		job.Files = append(job.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job files: %w", err)
	}

	return &job, nil
}

// MarkJobPaid transitions a job from PENDING_PAYMENT to PAID. The status
// predicate makes the transition single-winner: the return value reports
// whether this call performed the first confirmation.
func (s *Store) MarkJobPaid(ctx context.Context, jobID uuid.UUID, orderID, paymentID string, paidAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = $1, razorpay_order_id = $2, razorpay_payment_id = $3, paid_at = $4
		WHERE id = $5 AND status = $6
	`, models.JobStatusPaid, orderID, paymentID, paidAt, jobID, models.JobStatusPendingPayment)
	if err != nil {
		return false, fmt.Errorf("failed to mark job paid: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected == 1, nil
}

// UpdateJobStatus moves a job into one of the post-PAID states reported by
// the kiosk.
func (s *Store) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = $1
		WHERE id = $2
	`, status, jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrJobNotFound
	}
	return nil
}
