package workflow

import "errors"

// ErrValidation is returned for missing or malformed caller input. Wrapped
// with detail via fmt.Errorf("%w: ...").
var ErrValidation = errors.New("validation failed")

// ErrSignatureInvalid is returned when the supplied payment signature does
// not match the recomputed one. The job is never mutated on this path.
var ErrSignatureInvalid = errors.New("payment signature invalid")

// ErrOTPExpired is returned when a code's validity window has passed,
// regardless of the used flag.
var ErrOTPExpired = errors.New("otp expired")

// ErrStorageFailure is returned when the object stash rejects an upload. No
// job record is persisted on this path.
var ErrStorageFailure = errors.New("object storage failure")
