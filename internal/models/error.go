package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Login gate outcomes
	ErrValidation         = errors.New("email and password are required")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account temporarily blocked")
)

// Block reasons written into block records
const (
	BlockReasonFailedAttempts = "too many failed attempts"
	BlockReasonSuspicious     = "suspicious activity"
)

// AccountBlockedError is returned while a block record for the email is live.
// It matches ErrAccountBlocked via errors.Is.
type AccountBlockedError struct {
	Reason       string
	BlockedUntil time.Time
	// Fresh is true when the current attempt wrote the block record.
	Fresh bool
}

func (e *AccountBlockedError) Error() string {
	return fmt.Sprintf("account blocked until %s: %s", e.BlockedUntil.UTC().Format(time.RFC3339), e.Reason)
}

func (e *AccountBlockedError) Is(target error) bool {
	return target == ErrAccountBlocked
}
