package models

import (
	"database/sql"
	"time"
)

// Kiosk statuses.
const (
	KioskStatusActive   = "ACTIVE"
	KioskStatusInactive = "INACTIVE"
	KioskStatusPending  = "PENDING"
)

// Printer statuses reported by the kiosk device.
const (
	PrinterStatusOnline      = "ONLINE"
	PrinterStatusOffline     = "OFFLINE"
	PrinterStatusError       = "ERROR"
	PrinterStatusMaintenance = "MAINTENANCE"
)

type Kiosk struct {
	KioskID       string
	Username      string
	LocationName  string
	Address       string
	Status        string
	OwnerEmail    string
	OwnerPhone    sql.NullString
	DeviceID      sql.NullString
	PrinterModel  sql.NullString
	PrinterStatus string
	Pricing       KioskPricing
	Stats         KioskStats
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// KioskPricing is per-page pricing in the minor currency unit (paise).
type KioskPricing struct {
	ColorPerPage int64 `json:"color_per_page"`
	BWPerPage    int64 `json:"bw_per_page"`
}

// KioskStats is a periodically refreshed rollup of the kiosk's ledger.
type KioskStats struct {
	TotalRevenue      int64        `json:"total_revenue"`
	TotalTransactions int          `json:"total_transactions"`
	TotalPages        int          `json:"total_pages"`
	LastTransactionAt sql.NullTime `json:"-"`
}
