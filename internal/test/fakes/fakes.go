// Package fakes provides in-memory collaborators for workflow and handler
// tests. The stores mirror the conditional-update semantics of the SQL layer:
// MarkJobPaid and RedeemOTP succeed for exactly one caller.
package fakes

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
	"print-kiosk-backend/internal/store"
)

type JobStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*models.Job

	CreateErr error
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[uuid.UUID]*models.Job)}
}

func (s *JobStore) CreateJob(ctx context.Context, job *models.Job) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job.CreatedAt = time.Now()
	s.jobs[job.ID] = job
	return nil
}

func (s *JobStore) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (s *JobStore) MarkJobPaid(ctx context.Context, jobID uuid.UUID, orderID, paymentID string, paidAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return false, store.ErrJobNotFound
	}
	if job.Status != models.JobStatusPendingPayment {
		return false, nil
	}
	job.Status = models.JobStatusPaid
	job.RazorpayOrderID = nullString(orderID)
	job.RazorpayPaymentID = nullString(paymentID)
	job.PaidAt.Time = paidAt
	job.PaidAt.Valid = true
	return true, nil
}

func (s *JobStore) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return store.ErrJobNotFound
	}
	job.Status = status
	return nil
}

// Status reads the live record, not the copy GetJob hands out.
func (s *JobStore) Status(jobID uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		return job.Status
	}
	return ""
}

type OTPStore struct {
	mu   sync.Mutex
	otps map[uuid.UUID]*models.OTP
}

func NewOTPStore() *OTPStore {
	return &OTPStore{otps: make(map[uuid.UUID]*models.OTP)}
}

func (s *OTPStore) CreateOTP(ctx context.Context, otp *models.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now()
	}
	copied := *otp
	s.otps[otp.ID] = &copied
	return nil
}

func (s *OTPStore) GetOTP(ctx context.Context, code, kioskID string) (*models.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var newest *models.OTP
	for _, otp := range s.otps {
		if otp.Code != code || otp.KioskID != kioskID {
			continue
		}
		if newest == nil || otp.CreatedAt.After(newest.CreatedAt) {
			newest = otp
		}
	}
	if newest == nil {
		return nil, store.ErrOTPNotFound
	}
	copied := *newest
	return &copied, nil
}

func (s *OTPStore) FindActiveOTP(ctx context.Context, jobID uuid.UUID, now time.Time) (*models.OTP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var newest *models.OTP
	for _, otp := range s.otps {
		if otp.JobID != jobID || otp.Used || !now.Before(otp.ExpiresAt) {
			continue
		}
		if newest == nil || otp.CreatedAt.After(newest.CreatedAt) {
			newest = otp
		}
	}
	if newest == nil {
		return nil, store.ErrOTPNotFound
	}
	copied := *newest
	return &copied, nil
}

func (s *OTPStore) RedeemOTP(ctx context.Context, otpID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	otp, ok := s.otps[otpID]
	if !ok {
		return store.ErrOTPNotFound
	}
	if otp.Used {
		return store.ErrOTPAlreadyUsed
	}
	otp.Used = true
	return nil
}

func (s *OTPStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.otps)
}

type Ledger struct {
	mu      sync.Mutex
	entries []*models.Transaction

	CreateErr error
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if l.CreateErr != nil {
		return l.CreateErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := *t
	l.entries = append(l.entries, &copied)
	return nil
}

func (l *Ledger) Entries() []*models.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) EntriesWithStatus(status string) []*models.Transaction {
	var out []*models.Transaction
	for _, e := range l.Entries() {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Stash stores uploads in memory under the same key shape the real object
// store uses.
type Stash struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	// FailOn makes Upload fail for a specific filename.
	FailOn string
}

func NewStash() *Stash {
	return &Stash{objects: make(map[string][]byte)}
}

func (s *Stash) Upload(kioskID, filename string, data []byte, contentType string) (string, error) {
	if s.FailOn != "" && filename == s.FailOn {
		return "", fmt.Errorf("upload rejected for %s", filename)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := fmt.Sprintf("uploads/%s/%s-%s", kioskID, uuid.New().String(), filename)
	s.objects[key] = data
	return key, nil
}

func (s *Stash) SignedURL(key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return "https://stash.test/signed/" + key, nil
}

func (s *Stash) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *Stash) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *Stash) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.deleted))
	copy(out, s.deleted)
	return out
}

// PageCounter maps file contents to page counts; unknown contents yield
// Default, mirroring the unparsable-document policy when Default is 0.
type PageCounter struct {
	Pages   map[string]int
	Default int
}

func (p *PageCounter) Count(data []byte) int {
	if n, ok := p.Pages[string(data)]; ok {
		return n
	}
	return p.Default
}

// CodeGenerator hands out a fixed sequence of codes, then repeats the last
// one.
type CodeGenerator struct {
	mu    sync.Mutex
	Codes []string
	next  int
}

func (g *CodeGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Codes) == 0 {
		return "000000", nil
	}
	code := g.Codes[g.next]
	if g.next < len(g.Codes)-1 {
		g.next++
	}
	return code, nil
}

type Notifier struct {
	mu     sync.Mutex
	events []Event
}

type Event struct {
	KioskID string
	Name    string
	Payload map[string]interface{}
}

func (n *Notifier) PublishKioskEvent(kioskID string, event string, payload map[string]interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{KioskID: kioskID, Name: event, Payload: payload})
	return nil
}

func (n *Notifier) Events() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Event, len(n.events))
	copy(out, n.events)
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
