package services

import (
	"context"
	"log"
	"sync"

	"github.com/activegames/reservation/internal/core/domain"
	"github.com/activegames/reservation/internal/core/ports"
)

// TermsGate serves the externally-fetched legal terms (one variant per
// activity classification) cached per locale, and gates the final confirm
// on the draft's terms-accepted flag.
type TermsGate struct {
	store    ports.SessionStore
	provider ports.TermsProvider

	mu      sync.Mutex
	pending map[string]bool
}

func NewTermsGate(store ports.SessionStore, provider ports.TermsProvider) *TermsGate {
	return &TermsGate{
		store:    store,
		provider: provider,
		pending:  make(map[string]bool),
	}
}

// Loading reports whether a fetch for the locale is in flight.
func (g *TermsGate) Loading(locale string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.pending[locale]
}

func (g *TermsGate) Content(ctx context.Context, locale string) (*domain.TermsContent, error) {
	cached, err := g.store.CachedTerms(ctx, locale)
	if err != nil {
		log.Printf("terms: cache read failed for locale %s: %v", locale, err)
	}

	if cached != nil {
		return cached, nil
	}

	g.mu.Lock()
	g.pending[locale] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.pending, locale)
		g.mu.Unlock()
	}()

	content, err := g.provider.Fetch(ctx, locale)
	if err != nil {
		return nil, err
	}

	if err := g.store.CacheTerms(ctx, locale, content); err != nil {
		log.Printf("terms: cache write failed for locale %s: %v", locale, err)
	}

	return content, nil
}

// Require blocks the final confirm action until terms are accepted,
// independent of whether a deposit is owed.
func (g *TermsGate) Require(draft *domain.BookingDraft) error {
	if !draft.TermsAccepted {
		return &domain.ValidationError{Field: "terms_accepted", Message: "terms must be accepted"}
	}

	return nil
}
