// Package workflow orchestrates the print job lifecycle: upload, payment
// confirmation, OTP issuance and redemption. It is the only writer of job
// statuses and OTP used flags; storage, page counting and the payment gateway
// are injected collaborators.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
)

type JobStore interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	MarkJobPaid(ctx context.Context, jobID uuid.UUID, orderID, paymentID string, paidAt time.Time) (bool, error)
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error
}

type OTPStore interface {
	CreateOTP(ctx context.Context, otp *models.OTP) error
	GetOTP(ctx context.Context, code, kioskID string) (*models.OTP, error)
	FindActiveOTP(ctx context.Context, jobID uuid.UUID, now time.Time) (*models.OTP, error)
	RedeemOTP(ctx context.Context, otpID uuid.UUID) error
}

type LedgerStore interface {
	CreateTransaction(ctx context.Context, t *models.Transaction) error
}

type ObjectStash interface {
	Upload(kioskID, filename string, data []byte, contentType string) (string, error)
	SignedURL(key string, ttl time.Duration) (string, error)
	Delete(key string) error
}

type PageCounter interface {
	Count(data []byte) int
}

type CodeGenerator interface {
	Generate() (string, error)
}

type Notifier interface {
	PublishKioskEvent(kioskID string, event string, payload map[string]interface{}) error
}

// Engine is the workflow engine. All configuration is validated at
// construction; request handling never discovers missing secrets.
type Engine struct {
	jobs     JobStore
	otps     OTPStore
	ledger   LedgerStore
	stash    ObjectStash
	pages    PageCounter
	codes    CodeGenerator
	notifier Notifier

	gatewaySecret string
	otpValidity   time.Duration
	signedURLTTL  time.Duration

	now func() time.Time
}

type EngineConfig struct {
	GatewaySecret string
	OTPValidity   time.Duration
	SignedURLTTL  time.Duration
}

func NewEngine(jobs JobStore, otps OTPStore, ledger LedgerStore, stash ObjectStash,
	pages PageCounter, codes CodeGenerator, notifier Notifier, cfg EngineConfig) *Engine {
	if cfg.OTPValidity <= 0 {
		cfg.OTPValidity = 10 * time.Minute
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 10 * time.Minute
	}
	return &Engine{
		jobs:          jobs,
		otps:          otps,
		ledger:        ledger,
		stash:         stash,
		pages:         pages,
		codes:         codes,
		notifier:      notifier,
		gatewaySecret: cfg.GatewaySecret,
		otpValidity:   cfg.OTPValidity,
		signedURLTTL:  cfg.SignedURLTTL,
		now:           time.Now,
	}
}

func (e *Engine) mintOTP(ctx context.Context, job *models.Job) (*models.OTP, error) {
	code, err := e.codes.Generate()
	if err != nil {
		return nil, err
	}
	otp := &models.OTP{
		ID:        uuid.New(),
		Code:      code,
		JobID:     job.ID,
		KioskID:   job.KioskID,
		ExpiresAt: e.now().Add(e.otpValidity),
	}
	if err := e.otps.CreateOTP(ctx, otp); err != nil {
		return nil, err
	}
	return otp, nil
}
