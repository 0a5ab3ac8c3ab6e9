package models

import (
	"time"

	"github.com/google/uuid"
)

// OTP is a one-time code bound to a paid job. It is redeemable while
// used == false and the expiry has not passed; redemption flips used
// exactly once.
type OTP struct {
	ID        uuid.UUID
	Code      string
	JobID     uuid.UUID
	KioskID   string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

func (o *OTP) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
