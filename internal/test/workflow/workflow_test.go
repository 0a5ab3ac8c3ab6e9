package workflow_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/store"
	"print-kiosk-backend/internal/test/fakes"
	"print-kiosk-backend/internal/workflow"
)

const testSecret = "test-gateway-secret"

type env struct {
	jobs     *fakes.JobStore
	otps     *fakes.OTPStore
	ledger   *fakes.Ledger
	stash    *fakes.Stash
	pages    *fakes.PageCounter
	codes    *fakes.CodeGenerator
	notifier *fakes.Notifier
	engine   *workflow.Engine
}

func newEnv() *env {
	e := &env{
		jobs:     fakes.NewJobStore(),
		otps:     fakes.NewOTPStore(),
		ledger:   fakes.NewLedger(),
		stash:    fakes.NewStash(),
		pages:    &fakes.PageCounter{Pages: map[string]int{}},
		codes:    &fakes.CodeGenerator{Codes: []string{"111111", "222222", "333333"}},
		notifier: &fakes.Notifier{},
	}
	e.engine = workflow.NewEngine(e.jobs, e.otps, e.ledger, e.stash, e.pages, e.codes, e.notifier,
		workflow.EngineConfig{GatewaySecret: testSecret})
	return e
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (e *env) createPaidJob(t *testing.T) (*models.Job, string) {
	t.Helper()
	e.pages.Pages["doc"] = 3
	result, err := e.engine.CreateJob(context.Background(), "KIOSK_A", []workflow.FileUpload{
		{Name: "doc.pdf", Data: []byte("doc")},
	})
	require.NoError(t, err)

	confirm, err := e.engine.ConfirmPayment(context.Background(), result.Job.ID, workflow.ConfirmPaymentInput{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: sign("order_1", "pay_1"),
		Amount:    1500,
	})
	require.NoError(t, err)
	return result.Job, confirm.OTP
}

func TestCreateJobComputesPageTotals(t *testing.T) {
	e := newEnv()
	e.pages.Pages["five"] = 5
	e.pages.Pages["four"] = 4

	result, err := e.engine.CreateJob(context.Background(), "KIOSK_A", []workflow.FileUpload{
		{Name: "a.pdf", Data: []byte("five"), Options: models.PrintOptions{Copies: 1}},
		{Name: "b.pdf", Data: []byte("four"), Options: models.PrintOptions{Copies: 2, ColorMode: "monochrome"}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusPendingPayment, result.Job.Status)
	assert.Equal(t, 13, result.Job.TotalPages)
	assert.Empty(t, result.Warnings)
	require.Len(t, result.Job.Files, 2)
	assert.Equal(t, 0, result.Job.Files[0].Position)
	assert.Equal(t, "monochrome", result.Job.Files[1].ColorMode)
	assert.True(t, strings.HasPrefix(result.Job.Files[0].StorageKey, "uploads/KIOSK_A/"))
}

func TestCreateJobUnparsableFileBilledAsBlank(t *testing.T) {
	e := newEnv()

	result, err := e.engine.CreateJob(context.Background(), "KIOSK_A", []workflow.FileUpload{
		{Name: "garbage.pdf", Data: []byte("not a pdf")},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Job.TotalPages)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "billed as blank")
}

func TestCreateJobStorageFailureCleansUp(t *testing.T) {
	e := newEnv()
	e.pages.Pages["ok"] = 1
	e.stash.FailOn = "b.pdf"

	_, err := e.engine.CreateJob(context.Background(), "KIOSK_A", []workflow.FileUpload{
		{Name: "a.pdf", Data: []byte("ok")},
		{Name: "b.pdf", Data: []byte("ok")},
	})
	require.ErrorIs(t, err, workflow.ErrStorageFailure)

	assert.Equal(t, 0, e.stash.ObjectCount())
	assert.Len(t, e.stash.Deleted(), 1)
}

func TestCreateJobValidation(t *testing.T) {
	e := newEnv()

	_, err := e.engine.CreateJob(context.Background(), "", []workflow.FileUpload{{Name: "a.pdf"}})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = e.engine.CreateJob(context.Background(), "KIOSK_A", nil)
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestConfirmPaymentIssuesOTPAndLedgerEntry(t *testing.T) {
	e := newEnv()
	job, otp := e.createPaidJob(t)

	assert.Equal(t, "111111", otp)
	assert.Equal(t, models.JobStatusPaid, e.jobs.Status(job.ID))

	entries := e.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.TransactionStatusSuccess, entries[0].Status)
	assert.Equal(t, int64(1500), entries[0].Amount)
	assert.Equal(t, "INR", entries[0].Currency)
	assert.Equal(t, "111111", entries[0].OTPGenerated.String)
	assert.True(t, strings.HasPrefix(entries[0].TransactionID, "TXN_"))

	events := e.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "payment_confirmed", events[0].Name)
	assert.Equal(t, "KIOSK_A", events[0].KioskID)
}

func TestConfirmPaymentSignatureMismatch(t *testing.T) {
	e := newEnv()
	e.pages.Pages["doc"] = 2
	result, err := e.engine.CreateJob(context.Background(), "KIOSK_A", []workflow.FileUpload{
		{Name: "doc.pdf", Data: []byte("doc")},
	})
	require.NoError(t, err)

	_, err = e.engine.ConfirmPayment(context.Background(), result.Job.ID, workflow.ConfirmPaymentInput{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: "tampered",
		Amount:    1000,
	})
	require.ErrorIs(t, err, workflow.ErrSignatureInvalid)

	assert.Equal(t, models.JobStatusPendingPayment, e.jobs.Status(result.Job.ID))
	assert.Equal(t, 0, e.otps.Count())

	failed := e.ledger.EntriesWithStatus(models.TransactionStatusFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, result.Job.ID, failed[0].JobID)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	e := newEnv()
	job, otp := e.createPaidJob(t)

	again, err := e.engine.ConfirmPayment(context.Background(), job.ID, workflow.ConfirmPaymentInput{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: sign("order_1", "pay_1"),
		Amount:    1500,
	})
	require.NoError(t, err)

	assert.True(t, again.AlreadyPaid)
	assert.Equal(t, otp, again.OTP)
	assert.Len(t, e.ledger.EntriesWithStatus(models.TransactionStatusSuccess), 1)
}

func TestConfirmPaymentConcurrentSingleLedgerEntry(t *testing.T) {
	e := newEnv()
	e.pages.Pages["doc"] = 1
	result, err := e.engine.CreateJob(context.Background(), "KIOSK_A", []workflow.FileUpload{
		{Name: "doc.pdf", Data: []byte("doc")},
	})
	require.NoError(t, err)

	input := workflow.ConfirmPaymentInput{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: sign("order_1", "pay_1"),
		Amount:    500,
	}

	var wg sync.WaitGroup
	results := make([]*workflow.ConfirmPaymentResult, 4)
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.engine.ConfirmPayment(context.Background(), result.Job.ID, input)
		}(i)
	}
	wg.Wait()

	firsts := 0
	for i, r := range results {
		require.NoError(t, errs[i])
		require.NotNil(t, r)
		assert.NotEmpty(t, r.OTP)
		if !r.AlreadyPaid {
			firsts++
		}
	}
	assert.Equal(t, 1, firsts)
	assert.Len(t, e.ledger.EntriesWithStatus(models.TransactionStatusSuccess), 1)
}

func TestConfirmPaymentLedgerOutageDoesNotFailConfirmation(t *testing.T) {
	e := newEnv()
	e.pages.Pages["doc"] = 1
	result, err := e.engine.CreateJob(context.Background(), "KIOSK_A", []workflow.FileUpload{
		{Name: "doc.pdf", Data: []byte("doc")},
	})
	require.NoError(t, err)

	e.ledger.CreateErr = context.DeadlineExceeded
	confirm, err := e.engine.ConfirmPayment(context.Background(), result.Job.ID, workflow.ConfirmPaymentInput{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: sign("order_1", "pay_1"),
		Amount:    500,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, confirm.OTP)
	assert.NotEmpty(t, confirm.LedgerWarning)
	assert.Equal(t, models.JobStatusPaid, e.jobs.Status(result.Job.ID))
}

func TestConfirmPaymentValidation(t *testing.T) {
	e := newEnv()

	_, err := e.engine.ConfirmPayment(context.Background(), uuid.New(), workflow.ConfirmPaymentInput{
		OrderID: "order_1",
	})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = e.engine.ConfirmPayment(context.Background(), uuid.New(), workflow.ConfirmPaymentInput{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: sign("order_1", "pay_1"),
		Amount:    0,
	})
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestRedeemOTPReturnsSignedURLs(t *testing.T) {
	e := newEnv()
	job, otp := e.createPaidJob(t)

	result, err := e.engine.RedeemOTP(context.Background(), otp, "KIOSK_A")
	require.NoError(t, err)

	assert.Equal(t, job.ID, result.JobID)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "doc.pdf", result.Files[0].OriginalName)
	assert.True(t, strings.HasPrefix(result.Files[0].URL, "https://stash.test/signed/uploads/KIOSK_A/"))

	events := e.notifier.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "otp_redeemed", events[1].Name)
}

func TestRedeemOTPSingleUse(t *testing.T) {
	e := newEnv()
	_, otp := e.createPaidJob(t)

	_, err := e.engine.RedeemOTP(context.Background(), otp, "KIOSK_A")
	require.NoError(t, err)

	_, err = e.engine.RedeemOTP(context.Background(), otp, "KIOSK_A")
	assert.ErrorIs(t, err, store.ErrOTPAlreadyUsed)
}

func TestRedeemOTPConcurrentSingleWinner(t *testing.T) {
	e := newEnv()
	_, otp := e.createPaidJob(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.engine.RedeemOTP(context.Background(), otp, "KIOSK_A")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, store.ErrOTPAlreadyUsed)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestRedeemOTPExpired(t *testing.T) {
	e := newEnv()
	job, _ := e.createPaidJob(t)

	expired := &models.OTP{
		ID:        uuid.New(),
		Code:      "999999",
		JobID:     job.ID,
		KioskID:   "KIOSK_A",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, e.otps.CreateOTP(context.Background(), expired))

	_, err := e.engine.RedeemOTP(context.Background(), "999999", "KIOSK_A")
	assert.ErrorIs(t, err, workflow.ErrOTPExpired)
}

func TestRedeemOTPWrongKiosk(t *testing.T) {
	e := newEnv()
	_, otp := e.createPaidJob(t)

	_, err := e.engine.RedeemOTP(context.Background(), otp, "KIOSK_B")
	assert.ErrorIs(t, err, store.ErrOTPNotFound)
}

func TestUpdateJobStatusAfterPayment(t *testing.T) {
	e := newEnv()
	job, _ := e.createPaidJob(t)

	require.NoError(t, e.engine.UpdateJobStatus(context.Background(), job.ID, models.JobStatusPrinting))
	assert.Equal(t, models.JobStatusPrinting, e.jobs.Status(job.ID))

	require.NoError(t, e.engine.UpdateJobStatus(context.Background(), job.ID, models.JobStatusCompleted))
	assert.Equal(t, models.JobStatusCompleted, e.jobs.Status(job.ID))
}

func TestUpdateJobStatusRejectsUnpaidJob(t *testing.T) {
	e := newEnv()
	e.pages.Pages["doc"] = 1
	result, err := e.engine.CreateJob(context.Background(), "KIOSK_A", []workflow.FileUpload{
		{Name: "doc.pdf", Data: []byte("doc")},
	})
	require.NoError(t, err)

	err = e.engine.UpdateJobStatus(context.Background(), result.Job.ID, models.JobStatusPrinting)
	assert.ErrorIs(t, err, workflow.ErrValidation)
	assert.Equal(t, models.JobStatusPendingPayment, e.jobs.Status(result.Job.ID))
}

func TestUpdateJobStatusRejectsUnknownStatus(t *testing.T) {
	e := newEnv()
	job, _ := e.createPaidJob(t)

	err := e.engine.UpdateJobStatus(context.Background(), job.ID, "SHREDDED")
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestRedeemOTPValidation(t *testing.T) {
	e := newEnv()

	_, err := e.engine.RedeemOTP(context.Background(), "", "KIOSK_A")
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = e.engine.RedeemOTP(context.Background(), "123456", "")
	assert.ErrorIs(t, err, workflow.ErrValidation)
}
