package models

type ConfirmPaymentRequest struct {
	RazorpayOrderID   string            `json:"razorpayOrderId"`
	RazorpayPaymentID string            `json:"razorpayPaymentId"`
	RazorpaySignature string            `json:"razorpaySignature"`
	Amount            int64             `json:"amount"`
	Currency          string            `json:"currency,omitempty"`
	CustomerEmail     string            `json:"customerEmail,omitempty"`
	CustomerPhone     string            `json:"customerPhone,omitempty"`
	PaymentMethod     string            `json:"paymentMethod,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

type VerifyOTPRequest struct {
	OTP     string `json:"otp"`
	KioskID string `json:"kioskId"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status"`
}

type CreateOrderRequest struct {
	// Amount in the minor currency unit (paise).
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type CreateKioskRequest struct {
	Username     string        `json:"username"`
	LocationName string        `json:"locationName"`
	Address      string        `json:"address"`
	OwnerEmail   string        `json:"ownerEmail"`
	OwnerPhone   string        `json:"ownerPhone,omitempty"`
	DeviceID     string        `json:"deviceId,omitempty"`
	PrinterModel string        `json:"printerModel,omitempty"`
	Pricing      *KioskPricing `json:"pricing,omitempty"`
}

type UpdateKioskRequest struct {
	Username      *string       `json:"username,omitempty"`
	LocationName  *string       `json:"locationName,omitempty"`
	Address       *string       `json:"address,omitempty"`
	OwnerEmail    *string       `json:"ownerEmail,omitempty"`
	OwnerPhone    *string       `json:"ownerPhone,omitempty"`
	PrinterModel  *string       `json:"printerModel,omitempty"`
	PrinterStatus *string       `json:"printerStatus,omitempty"`
	Status        *string       `json:"status,omitempty"`
	Pricing       *KioskPricing `json:"pricing,omitempty"`
}

type UpdatePrinterStatusRequest struct {
	PrinterStatus string `json:"printerStatus"`
}
