package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/activegames/reservation/internal/core/domain"
	"github.com/activegames/reservation/internal/core/ports"
)

// DraftSeed carries the pre-filled fields of an external referral. Invalid
// fields are dropped rather than rejected: the entry step computation only
// credits what actually validates.
type DraftSeed struct {
	VenueName    string `json:"venue_name"`
	VenueSlug    string `json:"venue_slug"`
	Type         string `json:"type"`
	Participants int    `json:"participants"`
	Area         string `json:"area"`
	Quantity     int    `json:"quantity"`
	EventSubType string `json:"event_sub_type"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

type StartSessionRequest struct {
	Locale  string     `json:"locale"`
	Prefill *DraftSeed `json:"prefill,omitempty"`
}

type UpdateDraftRequest struct {
	VenueName     *string `json:"venue_name,omitempty"`
	VenueSlug     *string `json:"venue_slug,omitempty"`
	Type          *string `json:"type,omitempty"`
	Participants  *int    `json:"participants,omitempty"`
	Area          *string `json:"area,omitempty"`
	Quantity      *int    `json:"quantity,omitempty"`
	EventSubType  *string `json:"event_sub_type,omitempty"`
	CelebrantAge  *int    `json:"celebrant_age,omitempty"`
	Date          *string `json:"date,omitempty"`
	Time          *string `json:"time,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Note          *string `json:"note,omitempty"`
	TermsAccepted *bool   `json:"terms_accepted,omitempty"`
}

// WizardService drives the 8-step reservation wizard: step transitions,
// draft mutation, and the deposit-quote lifecycle.
type WizardService struct {
	store       ports.SessionStore
	venues      ports.VenueCatalog
	quotes      ports.QuoteService
	abandonment *AbandonmentTracker
}

func NewWizardService(store ports.SessionStore, venues ports.VenueCatalog, quotes ports.QuoteService, abandonment *AbandonmentTracker) *WizardService {
	return &WizardService{
		store:       store,
		venues:      venues,
		quotes:      quotes,
		abandonment: abandonment,
	}
}

func (s *WizardService) Start(ctx context.Context, req StartSessionRequest) (*domain.Session, error) {
	locale := req.Locale
	if locale == "" {
		locale = "en"
	}

	draft := domain.BookingDraft{}
	if req.Prefill != nil {
		applySeed(&draft, req.Prefill)
	}

	now := time.Now()

	session := &domain.Session{
		ID:        uuid.New(),
		Locale:    locale,
		Step:      domain.EntryStep(&draft),
		Draft:     draft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

func applySeed(draft *domain.BookingDraft, seed *DraftSeed) {
	draft.SelectVenue(seed.VenueName, seed.VenueSlug)

	if seed.Type != "" {
		if err := draft.SelectType(domain.ActivityType(seed.Type)); err != nil {
			return
		}
	}

	if seed.Participants > 0 {
		_ = draft.SetParticipants(seed.Participants)
	}

	if seed.Area != "" {
		_ = draft.SelectArea(domain.Area(seed.Area))
	}

	if seed.Quantity > 0 {
		_ = draft.SetQuantity(seed.Quantity)
	}

	if seed.EventSubType != "" {
		_ = draft.SetEventSubType(domain.EventSubType(seed.EventSubType))
	}

	draft.Date = seed.Date
	draft.Time = seed.Time
	draft.FirstName = seed.FirstName
	draft.LastName = seed.LastName
	draft.Phone = seed.Phone
	draft.Email = seed.Email
}

func (s *WizardService) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.store.LoadSession(ctx, id)
}

func (s *WizardService) UpdateDraft(ctx context.Context, id uuid.UUID, req UpdateDraftRequest) (*domain.Session, error) {
	session, err := s.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step == domain.StepConfirmation {
		return nil, domain.ErrSessionCompleted
	}

	pricingChanged := false
	draft := &session.Draft

	if req.VenueName != nil || req.VenueSlug != nil {
		name, slug := draft.VenueName, draft.VenueSlug
		if req.VenueName != nil {
			name = *req.VenueName
		}
		if req.VenueSlug != nil {
			slug = *req.VenueSlug
		}

		draft.SelectVenue(name, slug)
		pricingChanged = true
	}

	if req.Type != nil {
		if err := draft.SelectType(domain.ActivityType(*req.Type)); err != nil {
			return nil, err
		}
		pricingChanged = true
	}

	if req.Participants != nil {
		if err := draft.SetParticipants(*req.Participants); err != nil {
			return nil, err
		}
		pricingChanged = true
	}

	if req.Area != nil {
		if err := draft.SelectArea(domain.Area(*req.Area)); err != nil {
			return nil, err
		}
		pricingChanged = true
	}

	if req.Quantity != nil {
		if err := draft.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
		pricingChanged = true
	}

	if req.EventSubType != nil {
		if err := draft.SetEventSubType(domain.EventSubType(*req.EventSubType)); err != nil {
			return nil, err
		}
		pricingChanged = true
	}

	if req.CelebrantAge != nil {
		if err := draft.SetCelebrantAge(req.CelebrantAge); err != nil {
			return nil, err
		}
	}

	if req.Date != nil {
		draft.Date = *req.Date
	}

	if req.Time != nil {
		draft.Time = *req.Time
	}

	if req.FirstName != nil {
		draft.FirstName = *req.FirstName
	}

	if req.LastName != nil {
		draft.LastName = *req.LastName
	}

	if req.Phone != nil {
		draft.Phone = *req.Phone
	}

	if req.Email != nil {
		draft.Email = *req.Email
	}

	if req.Note != nil {
		draft.Note = *req.Note
	}

	if req.TermsAccepted != nil {
		draft.TermsAccepted = *req.TermsAccepted
	}

	refetch := pricingChanged && session.Step >= domain.StepPayment
	if refetch {
		session.ClearQuote()
	}

	session.UpdatedAt = time.Now()

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	// The cleared quote is re-fetched for the new inputs right away;
	// on fetch failure the quote simply stays empty.
	if refetch {
		return s.RefreshQuote(ctx, id)
	}

	return session, nil
}

// Advance moves the wizard one step forward after checking the current
// step's precondition. Advancing past the contact step fires the
// abandonment tracker and computes the deposit quote, both best-effort.
func (s *WizardService) Advance(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := s.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step == domain.StepConfirmation {
		return nil, domain.ErrSessionCompleted
	}

	if session.Step == domain.StepPayment {
		return nil, &domain.ValidationError{Field: "step", Message: "confirm the booking to complete it"}
	}

	if err := advanceGate(session); err != nil {
		return nil, err
	}

	leavingContact := session.Step == domain.StepContact

	session.Step++
	session.UpdatedAt = time.Now()

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if leavingContact {
		if s.abandonment != nil {
			s.abandonment.Record(ctx, session)
		}

		return s.RefreshQuote(ctx, id)
	}

	return session, nil
}

func (s *WizardService) Back(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := s.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step == domain.StepConfirmation {
		return nil, domain.ErrSessionCompleted
	}

	if session.Step == domain.StepVenue {
		return session, nil
	}

	if session.Step >= domain.StepPayment && session.Step-1 < domain.StepPayment {
		session.ClearQuote()
	}

	session.Step--
	session.UpdatedAt = time.Now()

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// RefreshQuote re-fetches the deposit quote for the session's current
// pricing inputs. Each fetch carries a monotonically increasing token;
// a response that comes back after a newer fetch started is discarded.
// Fetch failure leaves the quote empty and blocks nothing here: only the
// final submission requires a quote.
func (s *WizardService) RefreshQuote(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := s.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Step != domain.StepPayment {
		return session, nil
	}

	venues, err := s.venues.List(ctx)
	if err != nil {
		log.Printf("quote: venue catalog unavailable for session %s: %v", session.ID, err)
		return session, nil
	}

	venue, err := domain.MatchVenue(venues, session.Draft.VenueSlug, session.Draft.VenueName)
	if err != nil {
		log.Printf("quote: %v for session %s", err, session.ID)
		return session, nil
	}

	token := session.QuoteToken + 1
	session.QuoteToken = token
	session.UpdatedAt = time.Now()

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	input := session.Draft.PricingInput(venue.ID, session.Locale)

	quote, quoteErr := s.quotes.Quote(ctx, input)

	session, err = s.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.QuoteToken != token {
		// A newer fetch superseded this one.
		return session, nil
	}

	if quoteErr != nil {
		log.Printf("quote: fetch failed for session %s: %v", session.ID, quoteErr)
		session.ClearQuote()
	} else {
		session.Quote = quote
		session.QuoteInput = &input
	}

	session.UpdatedAt = time.Now()

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

func advanceGate(session *domain.Session) error {
	draft := &session.Draft

	switch session.Step {
	case domain.StepVenue:
		if draft.VenueSlug == "" && draft.VenueName == "" {
			return &domain.ValidationError{Field: "venue", Message: "choose a venue"}
		}
	case domain.StepActivity:
		if draft.Type == "" {
			return &domain.ValidationError{Field: "type", Message: "choose an activity type"}
		}

		min := draft.MinParticipants()
		if draft.Participants < min {
			return &domain.ValidationError{Field: "participants", Message: fmt.Sprintf("minimum %d participants", min)}
		}

		if draft.Participants > domain.MaxPlayers {
			return &domain.ValidationError{Field: "participants", Message: fmt.Sprintf("maximum %d participants", domain.MaxPlayers)}
		}
	case domain.StepArea:
		if !draft.AreaChosen() {
			if draft.Type == domain.ActivityEvent {
				return &domain.ValidationError{Field: "area", Message: "choose an area and an event type"}
			}

			return &domain.ValidationError{Field: "area", Message: "choose an area"}
		}
	case domain.StepDate:
		if draft.Date == "" {
			return &domain.ValidationError{Field: "date", Message: "choose a date"}
		}
	case domain.StepTime:
		if draft.Time == "" {
			return &domain.ValidationError{Field: "time", Message: "choose a time slot"}
		}
	case domain.StepContact:
		if err := draft.ValidateContact(); err != nil {
			return err
		}
	}

	return nil
}
