package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Transaction statuses.
const (
	TransactionStatusSuccess  = "SUCCESS"
	TransactionStatusFailed   = "FAILED"
	TransactionStatusPending  = "PENDING"
	TransactionStatusRefunded = "REFUNDED"
)

// Transaction is the durable record of a payment attempt. PrintDetails is a
// denormalized snapshot of the job at confirmation time so the financial
// record is immune to later job mutation.
type Transaction struct {
	TransactionID     string
	KioskID           string
	JobID             uuid.UUID
	RazorpayOrderID   string
	RazorpayPaymentID string
	RazorpaySignature string
	Amount            int64
	Currency          string
	TotalPages        int
	FilesCount        int
	PrintDetails      []PrintDetail
	Status            string
	OTPGenerated      sql.NullString
	CustomerEmail     sql.NullString
	CustomerPhone     sql.NullString
	PaymentMethod     string
	Metadata          json.RawMessage
	CreatedAt         time.Time
}

type PrintDetail struct {
	FileName  string `json:"file_name"`
	PageCount int    `json:"page_count"`
	Copies    int    `json:"copies"`
	ColorMode string `json:"color_mode"`
	Duplex    string `json:"duplex"`
}

// PrintDetailsFromJob snapshots the job's files for a ledger entry.
func PrintDetailsFromJob(job *Job) []PrintDetail {
	details := make([]PrintDetail, len(job.Files))
	for i, f := range job.Files {
		details[i] = PrintDetail{
			FileName:  f.OriginalName,
			PageCount: f.PageCount,
			Copies:    f.Copies,
			ColorMode: f.ColorMode,
			Duplex:    f.Duplex,
		}
	}
	return details
}

// TransactionStats is an aggregate over a kiosk's transactions.
type TransactionStats struct {
	TotalRevenue           int64   `json:"total_revenue"`
	TotalTransactions      int     `json:"total_transactions"`
	TotalPages             int     `json:"total_pages"`
	AvgTransactionValue    float64 `json:"avg_transaction_value"`
	SuccessfulTransactions int     `json:"successful_transactions"`
	FailedTransactions     int     `json:"failed_transactions"`
}
