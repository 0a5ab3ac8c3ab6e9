package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Job statuses. A job is created in PENDING_PAYMENT and moves to PAID on
// confirmed payment. The terminal states are driven by the kiosk after
// redemption.
const (
	JobStatusPendingPayment = "PENDING_PAYMENT"
	JobStatusPaid           = "PAID"
	JobStatusPrinting       = "PRINTING"
	JobStatusCompleted      = "COMPLETED"
	JobStatusFailed         = "FAILED"
)

// Print option values.
const (
	ColorModeColor      = "color"
	ColorModeMonochrome = "monochrome"

	DuplexSingle = "single"
	DuplexDouble = "double"

	PageRangeAll = "all"
)

type Job struct {
	ID                uuid.UUID
	KioskID           string
	Status            string
	TotalPages        int
	RazorpayOrderID   sql.NullString
	RazorpayPaymentID sql.NullString
	PaidAt            sql.NullTime
	CreatedAt         time.Time
	Files             []JobFile
}

// JobFile is one uploaded document within a job. The file sequence is fixed
// at creation time; only the parent job's status/payment fields change later.
type JobFile struct {
	ID           uuid.UUID
	JobID        uuid.UUID
	Position     int
	StorageKey   string
	OriginalName string
	PageCount    int
	Copies       int
	ColorMode    string
	Duplex       string
	PageRange    string
}

type PrintOptions struct {
	Copies    int    `json:"copies"`
	ColorMode string `json:"colorMode"`
	Duplex    string `json:"duplex"`
	PageRange string `json:"pageRange"`
}

// Normalize fills in the defaults for unset print options.
func (o PrintOptions) Normalize() PrintOptions {
	if o.Copies < 1 {
		o.Copies = 1
	}
	if o.ColorMode != ColorModeMonochrome {
		o.ColorMode = ColorModeColor
	}
	if o.Duplex != DuplexDouble {
		o.Duplex = DuplexSingle
	}
	if o.PageRange == "" {
		o.PageRange = PageRangeAll
	}
	return o
}
