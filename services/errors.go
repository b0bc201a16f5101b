package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned for lookups of unknown identifiers.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is the storage-level signal for a unique
	// constraint violation (reference code, room number, promo code).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrRoomConflict marks an overlap detected at commit time. Use
	// errors.Is against it; the concrete error is a *ConflictError.
	ErrRoomConflict = errors.New("room already booked for the requested dates")

	// ErrPromoExhausted is returned when a capped promo code has no
	// uses left at consumption time.
	ErrPromoExhausted = errors.New("promo code exhausted")

	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrNotCancellable    = errors.New("booking can no longer be cancelled")
	ErrForbidden         = errors.New("staff privilege required")
)

// ValidationError reports malformed input with the field that caused it.
// It is always recoverable by correcting the request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// IsValidationError unwraps err into a *ValidationError, or nil.
func IsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// ConflictError reports that a room could not be committed for a date
// range because an active booking already holds part of it. Callers
// should retry with a different room or dates rather than fix input.
type ConflictError struct {
	RoomID   uint
	CheckIn  time.Time
	CheckOut time.Time
}

func (e *ConflictError) Error() string {
	if e.RoomID == 0 {
		return fmt.Sprintf("no room available for %s to %s",
			e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"))
	}
	return fmt.Sprintf("room %d already booked between %s and %s",
		e.RoomID, e.CheckIn.Format("2006-01-02"), e.CheckOut.Format("2006-01-02"))
}

func (e *ConflictError) Unwrap() error { return ErrRoomConflict }
