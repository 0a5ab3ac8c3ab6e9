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

func (s *Store) CreateOTP(ctx context.Context, otp *models.OTP) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO otps (id, code, job_id, kiosk_id, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING created_at
	`, otp.ID, otp.Code, otp.JobID, otp.KioskID, otp.ExpiresAt).Scan(&otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert otp: %w", err)
	}
	return nil
}

// GetOTP looks up a code for a kiosk. Codes are not globally unique, so the
// newest record wins if the code space ever collides within a kiosk.
func (s *Store) GetOTP(ctx context.Context, code, kioskID string) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, job_id, kiosk_id, expires_at, used, created_at
		FROM otps
		WHERE code = $1 AND kiosk_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, code, kioskID).Scan(
		&otp.ID, &otp.Code, &otp.JobID, &otp.KioskID, &otp.ExpiresAt, &otp.Used, &otp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	return &otp, nil
}

// FindActiveOTP returns the newest unused, unexpired code for a job, so a
// retried payment confirmation hands back the same code instead of minting
// another one.
func (s *Store) FindActiveOTP(ctx context.Context, jobID uuid.UUID, now time.Time) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, job_id, kiosk_id, expires_at, used, created_at
		FROM otps
		WHERE job_id = $1 AND used = false AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`, jobID, now).Scan(
		&otp.ID, &otp.Code, &otp.JobID, &otp.KioskID, &otp.ExpiresAt, &otp.Used, &otp.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active otp: %w", err)
	}
	return &otp, nil
}

// RedeemOTP burns a code. The used = false predicate is the point of no
// return: of two concurrent redemptions exactly one updates the row, the
// other gets ErrOTPAlreadyUsed.
func (s *Store) RedeemOTP(ctx context.Context, otpID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE otps
		SET used = true
		WHERE id = $1 AND used = false
	`, otpID)
	if err != nil {
		return fmt.Errorf("failed to redeem otp: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOTPAlreadyUsed
	}

	return nil
}
