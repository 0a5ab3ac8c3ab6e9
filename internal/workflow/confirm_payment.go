package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/obs"
	"print-kiosk-backend/internal/payment"
	"print-kiosk-backend/internal/store"
)

type ConfirmPaymentInput struct {
	OrderID       string
	PaymentID     string
	Signature     string
	Amount        int64
	Currency      string
	CustomerEmail string
	CustomerPhone string
	PaymentMethod string
	Metadata      map[string]string
}

type ConfirmPaymentResult struct {
	OTP         string
	AlreadyPaid bool
	// LedgerWarning is set when the payment succeeded but the ledger write
	// did not; the entry needs manual reconciliation.
	LedgerWarning string
}

// ConfirmPayment verifies the gateway signature and transitions the job to
// PAID exactly once. Re-invocations and concurrent calls converge on the
// already-paid branch: they return a valid OTP without a second ledger write.
func (e *Engine) ConfirmPayment(ctx context.Context, jobID uuid.UUID, in ConfirmPaymentInput) (*ConfirmPaymentResult, error) {
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, fmt.Errorf("%w: razorpayOrderId, razorpayPaymentId and razorpaySignature are required", ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive integer", ErrValidation)
	}
	if in.Currency == "" {
		in.Currency = "INR"
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "unknown"
	}

	if !payment.VerifySignature(in.OrderID, in.PaymentID, in.Signature, e.gatewaySecret) {
		e.recordFailedPayment(ctx, jobID, in)
		obs.RecordPaymentConfirmed("signature_invalid")
		return nil, ErrSignatureInvalid
	}

	job, err := e.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status != models.JobStatusPendingPayment {
		otp, err := e.reuseOrMintOTP(ctx, job)
		if err != nil {
			return nil, err
		}
		obs.RecordPaymentConfirmed("already_paid")
		return &ConfirmPaymentResult{OTP: otp.Code, AlreadyPaid: true}, nil
	}

	first, err := e.jobs.MarkJobPaid(ctx, jobID, in.OrderID, in.PaymentID, e.now())
	if err != nil {
		return nil, err
	}
	if !first {
		// Lost the race against a concurrent confirmation; that call owns
		// the ledger write.
		otp, err := e.reuseOrMintOTP(ctx, job)
		if err != nil {
			return nil, err
		}
		obs.RecordPaymentConfirmed("already_paid")
		return &ConfirmPaymentResult{OTP: otp.Code, AlreadyPaid: true}, nil
	}

	otp, err := e.mintOTP(ctx, job)
	if err != nil {
		return nil, err
	}

	result := &ConfirmPaymentResult{OTP: otp.Code}
	tx := e.buildTransaction(job, in, models.TransactionStatusSuccess)
	tx.OTPGenerated = sql.NullString{String: otp.Code, Valid: true}
	if err := e.ledger.CreateTransaction(ctx, tx); err != nil {
		// The customer has paid and holds a valid OTP; never fail the
		// confirmation over the ledger. Flag for reconciliation instead.
		log.Printf("ERROR: ledger write failed for job %s, needs reconciliation: %v", job.ID, err)
		obs.RecordLedgerWriteFailure()
		result.LedgerWarning = "payment recorded, but the transaction ledger entry could not be written"
	}

	if err := e.notifier.PublishKioskEvent(job.KioskID, "payment_confirmed",
		paymentConfirmedPayload(job.ID)); err != nil {
		log.Printf("Warning: failed to publish payment_confirmed event: %v", err)
	}

	obs.RecordPaymentConfirmed("success")
	return result, nil
}

// reuseOrMintOTP returns the newest live code for the job, minting a fresh
// one only if none is valid anymore.
func (e *Engine) reuseOrMintOTP(ctx context.Context, job *models.Job) (*models.OTP, error) {
	otp, err := e.otps.FindActiveOTP(ctx, job.ID, e.now())
	if err == nil {
		return otp, nil
	}
	if !errors.Is(err, store.ErrOTPNotFound) {
		return nil, err
	}
	return e.mintOTP(ctx, job)
}

// recordFailedPayment writes a FAILED ledger entry for a rejected signature.
// Best-effort: a ledger outage must not change the error the caller sees.
func (e *Engine) recordFailedPayment(ctx context.Context, jobID uuid.UUID, in ConfirmPaymentInput) {
	job, err := e.jobs.GetJob(ctx, jobID)
	if err != nil {
		log.Printf("Warning: cannot record failed payment, job %s not loadable: %v", jobID, err)
		return
	}

	tx := e.buildTransaction(job, in, models.TransactionStatusFailed)
	meta := map[string]string{"failure_reason": "signature verification failed"}
	for k, v := range in.Metadata {
		meta[k] = v
	}
	if raw, err := json.Marshal(meta); err == nil {
		tx.Metadata = raw
	}

	if err := e.ledger.CreateTransaction(ctx, tx); err != nil {
		log.Printf("Warning: failed to record FAILED ledger entry for job %s: %v", jobID, err)
	}
}

func (e *Engine) buildTransaction(job *models.Job, in ConfirmPaymentInput, status string) *models.Transaction {
	tx := &models.Transaction{
		TransactionID:     "TXN_" + uuid.New().String(),
		KioskID:           job.KioskID,
		JobID:             job.ID,
		RazorpayOrderID:   in.OrderID,
		RazorpayPaymentID: in.PaymentID,
		RazorpaySignature: in.Signature,
		Amount:            in.Amount,
		Currency:          in.Currency,
		TotalPages:        job.TotalPages,
		FilesCount:        len(job.Files),
		PrintDetails:      models.PrintDetailsFromJob(job),
		Status:            status,
		PaymentMethod:     in.PaymentMethod,
	}
	if in.CustomerEmail != "" {
		tx.CustomerEmail = sql.NullString{String: in.CustomerEmail, Valid: true}
	}
	if in.CustomerPhone != "" {
		tx.CustomerPhone = sql.NullString{String: in.CustomerPhone, Valid: true}
	}
	if len(in.Metadata) > 0 && tx.Metadata == nil {
		if raw, err := json.Marshal(in.Metadata); err == nil {
			tx.Metadata = raw
		}
	}
	return tx
}

func paymentConfirmedPayload(jobID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"job_id":     jobID.String(),
		"status":     models.JobStatusPaid,
		"otp_issued": true,
	}
}
