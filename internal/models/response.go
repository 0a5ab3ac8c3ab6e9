package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type UploadResponse struct {
	JobID      string         `json:"jobId"`
	KioskID    string         `json:"kioskId"`
	Status     string         `json:"status"`
	TotalPages int            `json:"totalPages"`
	Files      []UploadedFile `json:"files"`
	Warnings   []string       `json:"warnings,omitempty"`
}

type UploadedFile struct {
	OriginalName string       `json:"originalName"`
	PageCount    int          `json:"pageCount"`
	PrintOptions PrintOptions `json:"printOptions"`
}

type ConfirmPaymentResponse struct {
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	OTP     string `json:"otp"`
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
}

type VerifyOTPResponse struct {
	JobID      string         `json:"jobId"`
	TotalPages int            `json:"totalPages"`
	Files      []RedeemedFile `json:"files"`
}

type RedeemedFile struct {
	URL          string       `json:"url"`
	OriginalName string       `json:"originalName"`
	PageCount    int          `json:"pageCount"`
	PrintOptions PrintOptions `json:"printOptions"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type KioskResponse struct {
	KioskID       string       `json:"kioskId"`
	Username      string       `json:"username"`
	LocationName  string       `json:"locationName"`
	Address       string       `json:"address"`
	Status        string       `json:"status"`
	OwnerEmail    string       `json:"ownerEmail"`
	OwnerPhone    string       `json:"ownerPhone,omitempty"`
	DeviceID      string       `json:"deviceId,omitempty"`
	PrinterModel  string       `json:"printerModel,omitempty"`
	PrinterStatus string       `json:"printerStatus"`
	Pricing       KioskPricing `json:"pricing"`
	Stats         KioskStats   `json:"stats"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

type KioskListResponse struct {
	Kiosks     []KioskResponse `json:"kiosks"`
	Pagination Pagination      `json:"pagination"`
}

type TransactionResponse struct {
	TransactionID string        `json:"transactionId"`
	KioskID       string        `json:"kioskId"`
	JobID         string        `json:"jobId"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	TotalPages    int           `json:"totalPages"`
	FilesCount    int           `json:"filesCount"`
	PrintDetails  []PrintDetail `json:"printDetails"`
	Status        string        `json:"status"`
	PaymentMethod string        `json:"paymentMethod"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type TransactionListResponse struct {
	KioskID      string                `json:"kioskId"`
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   Pagination            `json:"pagination"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type KioskStatsResponse struct {
	KioskID   string           `json:"kioskId"`
	TimeRange string           `json:"timeRange"`
	Stats     TransactionStats `json:"stats"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
