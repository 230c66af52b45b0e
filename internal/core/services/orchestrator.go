package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/activegames/reservation/internal/core/domain"
	"github.com/activegames/reservation/internal/core/ports"
)

const orderSourceWebsite = "website"

// PaymentOrchestrator runs the submission sequence: resolve the venue,
// create the order, capture the deposit if one is owed, and move the
// session to its terminal confirmation state. The sequence is a saga with
// a persisted stage cursor: a retry after a capture failure resumes at
// capture against the already-created order instead of creating another.
type PaymentOrchestrator struct {
	store   ports.SessionStore
	venues  ports.VenueCatalog
	orders  ports.OrderGateway
	journal ports.AttemptJournal
	terms   *TermsGate

	submitting sync.Map // session id -> in-flight marker
}

func NewPaymentOrchestrator(store ports.SessionStore, venues ports.VenueCatalog, orders ports.OrderGateway, journal ports.AttemptJournal, terms *TermsGate) *PaymentOrchestrator {
	return &PaymentOrchestrator{
		store:   store,
		venues:  venues,
		orders:  orders,
		journal: journal,
		terms:   terms,
	}
}

// Confirm executes one submission attempt for the session. A single
// re-entrancy guard covers the whole sequence: overlapping confirms for
// the same session fail fast with ErrSubmissionInProgress. On any failure
// the draft is preserved and the session stays on the payment step.
func (o *PaymentOrchestrator) Confirm(ctx context.Context, sessionID uuid.UUID, card *domain.CardInput) (*domain.Session, error) {
	if _, busy := o.submitting.LoadOrStore(sessionID, struct{}{}); busy {
		return nil, domain.ErrSubmissionInProgress
	}
	defer o.submitting.Delete(sessionID)

	session, err := o.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step == domain.StepConfirmation {
		return nil, domain.ErrSessionCompleted
	}

	if session.Step != domain.StepPayment {
		return nil, &domain.ValidationError{Field: "step", Message: "complete the earlier steps first"}
	}

	if err := o.terms.Require(&session.Draft); err != nil {
		return nil, err
	}

	venues, err := o.venues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch venue catalog: %w", err)
	}

	venue, err := domain.MatchVenue(venues, session.Draft.VenueSlug, session.Draft.VenueName)
	if err != nil {
		return nil, err
	}

	// A deposit is plausible for every activity classification, so a
	// quote matching the draft's current pricing inputs is required
	// before anything is submitted.
	if session.Quote == nil {
		return nil, domain.ErrQuoteUnavailable
	}

	input := session.Draft.PricingInput(venue.ID, session.Locale)
	if session.QuoteInput == nil || *session.QuoteInput != input {
		return nil, domain.ErrQuoteStale
	}

	// Without the journal we cannot tell whether an earlier attempt
	// already created an order, so proceeding could create a second one.
	attempt, err := o.journal.OpenBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up open submission attempt: %w", err)
	}

	if attempt == nil {
		sub, err := buildSubmission(&session.Draft, venue.ID, orderSourceWebsite)
		if err != nil {
			return nil, err
		}

		result, err := o.orders.CreateOrder(ctx, sub)
		if err != nil {
			return nil, &domain.OrderCreationError{Err: err}
		}

		now := time.Now()
		attempt = &domain.SubmissionAttempt{
			ID:            uuid.New(),
			SessionID:     sessionID,
			Stage:         domain.StageOrderCreated,
			OrderID:       result.OrderID,
			Reference:     result.Reference,
			OrderStatus:   result.Status,
			OrderMessage:  result.Message,
			DepositAmount: session.Quote.Amount,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		// The order exists regardless of whether the cursor persists;
		// a journal failure must not strand the customer.
		if err := o.journal.Create(ctx, attempt); err != nil {
			log.Printf("submission: failed to record attempt for order %s: %v", attempt.Reference, err)
		}
	}

	captured := attempt.Stage == domain.StagePaymentCaptured

	if attempt.DepositAmount > 0 && !captured {
		if card == nil {
			return nil, &domain.ValidationError{Field: "card", Message: "card details are required"}
		}

		if err := card.Validate(); err != nil {
			return nil, err
		}

		if err := o.journal.SetStage(ctx, attempt.ID, domain.StagePaymentAttempted); err != nil {
			log.Printf("submission: failed to advance attempt %s: %v", attempt.ID, err)
		}

		if err := o.orders.CaptureDeposit(ctx, attempt.OrderID, attempt.DepositAmount, card.Normalized()); err != nil {
			return nil, &domain.PaymentCaptureError{
				OrderID:   attempt.OrderID,
				Reference: attempt.Reference,
				Err:       err,
			}
		}

		captured = true

		if err := o.journal.SetStage(ctx, attempt.ID, domain.StagePaymentCaptured); err != nil {
			log.Printf("submission: failed to close out attempt %s: %v", attempt.ID, err)
		}
	}

	if err := o.journal.Close(ctx, attempt.ID); err != nil {
		log.Printf("submission: failed to close attempt %s: %v", attempt.ID, err)
	}

	session.Step = domain.StepConfirmation
	session.Confirmation = &domain.Confirmation{
		Reference:       attempt.Reference,
		Status:          attempt.OrderStatus,
		Message:         attempt.OrderMessage,
		DepositAmount:   attempt.DepositAmount,
		PaymentCaptured: captured && attempt.DepositAmount > 0,
	}
	session.UpdatedAt = time.Now()

	if err := o.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
