package store

import "errors"

// ErrJobNotFound is returned when no job exists for the given id.
var ErrJobNotFound = errors.New("job not found")

// ErrOTPNotFound is returned when no OTP matches the (code, kiosk) pair.
var ErrOTPNotFound = errors.New("otp not found")

// ErrOTPAlreadyUsed is returned when the conditional burn finds the used flag
// already set. Exactly one of two racing redemptions sees this.
var ErrOTPAlreadyUsed = errors.New("otp already used")

// ErrKioskNotFound is returned when no kiosk exists for the given id.
var ErrKioskNotFound = errors.New("kiosk not found")

// ErrTransactionNotFound is returned when no ledger entry exists for the given id.
var ErrTransactionNotFound = errors.New("transaction not found")
