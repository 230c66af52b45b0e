package ports

import (
	"context"

	"github.com/activegames/reservation/internal/core/domain"
)

// VenueCatalog lists the authoritative venue catalog.
type VenueCatalog interface {
	List(ctx context.Context) ([]domain.Venue, error)
}

// QuoteService turns the draft's pricing-relevant fields into a total
// price and required deposit.
type QuoteService interface {
	Quote(ctx context.Context, input domain.QuoteInput) (*domain.DepositQuote, error)
}

// OrderGateway covers the backend order surface: authoritative order
// creation, the best-effort abandonment marker, and deposit capture.
type OrderGateway interface {
	CreateOrder(ctx context.Context, sub domain.OrderSubmission) (*domain.OrderResult, error)
	CreateAbortedMarker(ctx context.Context, sub domain.OrderSubmission) (string, error)
	CaptureDeposit(ctx context.Context, orderID string, amount int, card domain.CardInput) error
}

// TermsProvider fetches the legal terms content variants for a locale.
type TermsProvider interface {
	Fetch(ctx context.Context, locale string) (*domain.TermsContent, error)
}
