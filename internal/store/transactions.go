package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"print-kiosk-backend/internal/models"
)

// ListTransactionsOptions filters and pages a kiosk's ledger.
type ListTransactionsOptions struct {
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

// CreateTransaction appends a ledger entry. Entries are never updated or
// deleted after creation.
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	printDetails, err := json.Marshal(t.PrintDetails)
	if err != nil {
		return fmt.Errorf("failed to marshal print details: %w", err)
	}

	metadata := t.Metadata
	if metadata == nil {
		metadata = json.RawMessage("{}")
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO transactions (transaction_id, kiosk_id, job_id, razorpay_order_id, razorpay_payment_id, razorpay_signature,
			amount, currency, total_pages, files_count, print_details, status, otp_generated, customer_email, customer_phone,
			payment_method, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at
	`, t.TransactionID, t.KioskID, t.JobID, t.RazorpayOrderID, t.RazorpayPaymentID, t.RazorpaySignature,
		t.Amount, t.Currency, t.TotalPages, t.FilesCount, printDetails, t.Status, t.OTPGenerated,
		t.CustomerEmail, t.CustomerPhone, t.PaymentMethod, metadata).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// HasSuccessfulTransaction reports whether a SUCCESS ledger entry already
// exists for the job.
func (s *Store) HasSuccessfulTransaction(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions WHERE job_id = $1 AND status = $2
	`, jobID, models.TransactionStatusSuccess).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count > 0, nil
}

func (s *Store) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT transaction_id, kiosk_id, job_id, razorpay_order_id, razorpay_payment_id, razorpay_signature,
			amount, currency, total_pages, files_count, print_details, status, otp_generated, customer_email,
			customer_phone, payment_method, metadata, created_at
		FROM transactions
		WHERE transaction_id = $1
	`, transactionID)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// ListTransactionsByKiosk returns one page of a kiosk's ledger, newest first,
// plus the total match count for pagination.
func (s *Store) ListTransactionsByKiosk(ctx context.Context, kioskID string, opts ListTransactionsOptions) ([]models.Transaction, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 50
	}

	where := "WHERE kiosk_id = $1"
	args := []interface{}{kioskID}
	if opts.StartDate != nil {
		args = append(args, *opts.StartDate)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if opts.EndDate != nil {
		args = append(args, *opts.EndDate)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)
	query := fmt.Sprintf(`
		SELECT transaction_id, kiosk_id, job_id, razorpay_order_id, razorpay_payment_id, razorpay_signature,
			amount, currency, total_pages, files_count, print_details, status, otp_generated, customer_email,
			customer_phone, payment_method, metadata, created_at
		FROM transactions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read transactions: %w", err)
	}

	return transactions, total, nil
}

// TransactionStats aggregates a kiosk's ledger, optionally restricted to
// entries created at or after since.
func (s *Store) TransactionStats(ctx context.Context, kioskID string, since *time.Time) (*models.TransactionStats, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0),
			COUNT(*),
			COALESCE(SUM(total_pages), 0),
			COALESCE(AVG(amount), 0),
			COUNT(*) FILTER (WHERE status = 'SUCCESS'),
			COUNT(*) FILTER (WHERE status = 'FAILED')
		FROM transactions
		WHERE kiosk_id = $1
	`
	args := []interface{}{kioskID}
	if since != nil {
		args = append(args, *since)
		query += " AND created_at >= $2"
	}

	var stats models.TransactionStats
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalRevenue, &stats.TotalTransactions, &stats.TotalPages,
		&stats.AvgTransactionValue, &stats.SuccessfulTransactions, &stats.FailedTransactions,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}

	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	var printDetails []byte
	err := row.Scan(
		&t.TransactionID, &t.KioskID, &t.JobID, &t.RazorpayOrderID, &t.RazorpayPaymentID, &t.RazorpaySignature,
		&t.Amount, &t.Currency, &t.TotalPages, &t.FilesCount, &printDetails, &t.Status, &t.OTPGenerated,
		&t.CustomerEmail, &t.CustomerPhone, &t.PaymentMethod, &t.Metadata, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(printDetails) > 0 {
		if err := json.Unmarshal(printDetails, &t.PrintDetails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal print details: %w", err)
		}
	}
	return &t, nil
}
