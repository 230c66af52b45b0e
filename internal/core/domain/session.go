package domain

import (
	"time"

	"github.com/google/uuid"
)

type Step int

const (
	StepVenue        Step = 1
	StepActivity     Step = 2
	StepArea         Step = 3
	StepDate         Step = 4
	StepTime         Step = 5
	StepContact      Step = 6
	StepPayment      Step = 7
	StepConfirmation Step = 8
)

// TermsContent holds the two externally-fetched legal variants for one
// locale. A nil-equivalent empty string means no content for that variant.
type TermsContent struct {
	Game  string `json:"game"`
	Event string `json:"event"`
}

// Session is the wizard's session-scoped state. QuoteToken increases
// monotonically per quote fetch; only the response matching the latest
// token is applied.
type Session struct {
	ID     uuid.UUID `json:"id"`
	Locale string    `json:"locale"`
	Step   Step      `json:"step"`

	Draft BookingDraft `json:"draft"`

	Quote      *DepositQuote `json:"quote,omitempty"`
	QuoteInput *QuoteInput   `json:"quote_input,omitempty"`
	QuoteToken uint64        `json:"quote_token"`

	Confirmation *Confirmation `json:"confirmation,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClearQuote invalidates the quote; called whenever a pricing-relevant
// field changes at or after the payment step, or on stepping back below it.
func (s *Session) ClearQuote() {
	s.Quote = nil
	s.QuoteInput = nil
}

// EntryStep computes the deep-link entry point for a pre-filled draft:
// the deepest milestone whose predecessors are all satisfied. The one
// exemption is the area: a referral carrying a date may enter past the
// area step, since the date is chosen independently of it.
func EntryStep(d *BookingDraft) Step {
	if d.VenueSlug == "" && d.VenueName == "" {
		return StepVenue
	}

	if d.Type == "" || d.Participants < d.MinParticipants() || d.Participants > MaxPlayers {
		return StepActivity
	}

	step := StepArea
	if d.AreaChosen() {
		step = StepDate
	}

	if d.Date == "" {
		return step
	}

	if d.Time == "" {
		return StepTime
	}

	if d.FirstName == "" || !ValidPhone(d.Phone) {
		return StepContact
	}

	return StepPayment
}
