package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrVenueNotFound        = errors.New("venue not found")
	ErrQuoteUnavailable     = errors.New("deposit quote unavailable")
	ErrQuoteStale           = errors.New("deposit quote out of date")
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrSessionCompleted     = errors.New("session already completed")
)

// ValidationError blocks a single step transition and names the field it
// belongs to, for inline per-field display.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// OrderCreationError means the order was not created; the whole
// submission may be retried.
type OrderCreationError struct {
	Err error
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("order creation failed: %v", e.Err)
}

func (e *OrderCreationError) Unwrap() error { return e.Err }

// PaymentCaptureError means the order exists in an unpaid state. A retry
// resumes at the capture stage of the recorded attempt.
type PaymentCaptureError struct {
	OrderID   string
	Reference string
	Err       error
}

func (e *PaymentCaptureError) Error() string {
	return fmt.Sprintf("deposit capture failed for order %s: %v", e.Reference, e.Err)
}

func (e *PaymentCaptureError) Unwrap() error { return e.Err }
