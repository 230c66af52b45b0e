package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/activegames/reservation/internal/core/domain"
)

// SessionStore is the session-scoped storage behind the wizard: session
// snapshots, the once-per-session abandonment guard, the marker id kept
// for back-office reconciliation, and the terms-content cache.
type SessionStore interface {
	LoadSession(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	SaveSession(ctx context.Context, session *domain.Session) error

	// MarkAbandonmentRecorded returns true the first time it is called
	// for a session.
	MarkAbandonmentRecorded(ctx context.Context, sessionID uuid.UUID) (bool, error)
	SaveAbortedMarker(ctx context.Context, sessionID uuid.UUID, orderID string) error

	CachedTerms(ctx context.Context, locale string) (*domain.TermsContent, error)
	CacheTerms(ctx context.Context, locale string, content *domain.TermsContent) error
}

// AttemptJournal persists the submission saga cursor.
type AttemptJournal interface {
	Create(ctx context.Context, attempt *domain.SubmissionAttempt) error
	OpenBySession(ctx context.Context, sessionID uuid.UUID) (*domain.SubmissionAttempt, error)
	SetStage(ctx context.Context, id uuid.UUID, stage domain.AttemptStage) error
	Close(ctx context.Context, id uuid.UUID) error
}
