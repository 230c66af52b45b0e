package services

import (
	"context"
	"log"

	"github.com/activegames/reservation/internal/core/domain"
	"github.com/activegames/reservation/internal/core/ports"
)

// AbandonmentTracker submits an "aborted" snapshot of the draft the first
// time a session moves from the contact step toward payment, so the
// back office can follow up even if payment never completes. Everything
// here is best-effort: failures are logged and swallowed, and the step
// transition never blocks on it.
type AbandonmentTracker struct {
	store  ports.SessionStore
	venues ports.VenueCatalog
	orders ports.OrderGateway
}

func NewAbandonmentTracker(store ports.SessionStore, venues ports.VenueCatalog, orders ports.OrderGateway) *AbandonmentTracker {
	return &AbandonmentTracker{
		store:  store,
		venues: venues,
		orders: orders,
	}
}

// Record fires at most once per session; repeated back/forward navigation
// across the contact step hits the store guard and returns silently.
func (t *AbandonmentTracker) Record(ctx context.Context, session *domain.Session) {
	first, err := t.store.MarkAbandonmentRecorded(ctx, session.ID)
	if err != nil {
		log.Printf("abandonment: guard check failed for session %s: %v", session.ID, err)
		return
	}

	if !first {
		return
	}

	venues, err := t.venues.List(ctx)
	if err != nil {
		log.Printf("abandonment: venue catalog unavailable for session %s: %v", session.ID, err)
		return
	}

	venue, err := domain.MatchVenue(venues, session.Draft.VenueSlug, session.Draft.VenueName)
	if err != nil {
		log.Printf("abandonment: %v for session %s", err, session.ID)
		return
	}

	sub, err := buildSubmission(&session.Draft, venue.ID, domain.SourcePublicBooking)
	if err != nil {
		log.Printf("abandonment: cannot build marker for session %s: %v", session.ID, err)
		return
	}

	markerID, err := t.orders.CreateAbortedMarker(ctx, sub)
	if err != nil {
		log.Printf("abandonment: marker submission failed for session %s: %v", session.ID, err)
		return
	}

	if err := t.store.SaveAbortedMarker(ctx, session.ID, markerID); err != nil {
		log.Printf("abandonment: failed to store marker id for session %s: %v", session.ID, err)
	}
}
