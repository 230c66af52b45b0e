package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderConfirmed OrderStatus = "confirmed"
	OrderPending   OrderStatus = "pending"
	OrderAborted   OrderStatus = "aborted"
)

const SourcePublicBooking = "public_booking"

// OrderSubmission is the normalized payload sent to the backend: venue
// resolved, phone in international form, mixed area already mapped to a
// backend-recognized one.
type OrderSubmission struct {
	VenueID      string
	Type         ActivityType
	Area         Area
	Quantity     int
	EventSubType EventSubType
	CelebrantAge *int
	Date         string
	Time         string
	Participants int
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	Note         string
	Source       string
}

type OrderResult struct {
	OrderID   string
	Reference string
	Status    OrderStatus
	Message   string
}

// Confirmation is the terminal wizard state.
type Confirmation struct {
	Reference       string      `json:"reference"`
	Status          OrderStatus `json:"status"`
	Message         string      `json:"message"`
	DepositAmount   int         `json:"deposit_amount"`
	PaymentCaptured bool        `json:"payment_captured"`
}

type AttemptStage string

const (
	StageOrderCreated     AttemptStage = "order_created"
	StagePaymentAttempted AttemptStage = "payment_attempted"
	StagePaymentCaptured  AttemptStage = "payment_captured"
)

// SubmissionAttempt is the persisted saga cursor for one confirm attempt.
// An attempt stays open until its deposit is captured (or no deposit was
// owed); a retry resumes the open attempt at the capture stage instead of
// creating a second order.
type SubmissionAttempt struct {
	ID            uuid.UUID
	SessionID     uuid.UUID
	Stage         AttemptStage
	OrderID       string
	Reference     string
	OrderStatus   OrderStatus
	OrderMessage  string
	DepositAmount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      *time.Time
}
