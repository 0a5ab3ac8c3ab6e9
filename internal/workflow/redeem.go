package workflow

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/obs"
	"print-kiosk-backend/internal/store"
)

type RedeemResult struct {
	JobID      uuid.UUID
	TotalPages int
	Files      []models.RedeemedFile
}

// RedeemOTP validates and burns a one-time code, then hands back signed
// download URLs for every file in the linked job. The burn is the point of no
// return: once it succeeds the code is spent even if the caller never fetches
// the URLs, and a concurrent attempt on the same code fails with
// ErrOTPAlreadyUsed.
func (e *Engine) RedeemOTP(ctx context.Context, code, kioskID string) (*RedeemResult, error) {
	if code == "" || kioskID == "" {
		return nil, fmt.Errorf("%w: otp and kioskId are required", ErrValidation)
	}

	otp, err := e.otps.GetOTP(ctx, code, kioskID)
	if err != nil {
		obs.RecordOTPRedemption("invalid")
		return nil, err
	}
	if otp.Used {
		obs.RecordOTPRedemption("already_used")
		return nil, store.ErrOTPAlreadyUsed
	}
	if otp.Expired(e.now()) {
		obs.RecordOTPRedemption("expired")
		return nil, ErrOTPExpired
	}

	if err := e.otps.RedeemOTP(ctx, otp.ID); err != nil {
		obs.RecordOTPRedemption("already_used")
		return nil, err
	}

	job, err := e.jobs.GetJob(ctx, otp.JobID)
	if err != nil {
		obs.RecordOTPRedemption("error")
		return nil, err
	}

	files := make([]models.RedeemedFile, 0, len(job.Files))
	for _, f := range job.Files {
		url, err := e.stash.SignedURL(f.StorageKey, e.signedURLTTL)
		if err != nil {
			obs.RecordOTPRedemption("error")
			return nil, fmt.Errorf("failed to sign url for %q: %w", f.OriginalName, err)
		}
		files = append(files, models.RedeemedFile{
			URL:          url,
			OriginalName: f.OriginalName,
			PageCount:    f.PageCount,
			PrintOptions: models.PrintOptions{
				Copies:    f.Copies,
				ColorMode: f.ColorMode,
				Duplex:    f.Duplex,
				PageRange: f.PageRange,
			},
		})
	}

	if err := e.notifier.PublishKioskEvent(kioskID, "otp_redeemed",
		otpRedeemedPayload(job.ID, len(files), job.TotalPages)); err != nil {
		log.Printf("Warning: failed to publish otp_redeemed event: %v", err)
	}

	obs.RecordOTPRedemption("success")
	return &RedeemResult{
		JobID:      job.ID,
		TotalPages: job.TotalPages,
		Files:      files,
	}, nil
}

func otpRedeemedPayload(jobID uuid.UUID, fileCount, totalPages int) map[string]interface{} {
	return map[string]interface{}{
		"job_id":      jobID.String(),
		"file_count":  fileCount,
		"total_pages": totalPages,
	}
}
