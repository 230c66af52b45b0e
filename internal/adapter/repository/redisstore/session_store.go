package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/activegames/reservation/internal/core/domain"
)

const (
	sessionTTL = 24 * time.Hour
	termsTTL   = 1 * time.Hour
)

// SessionStore keeps all session-scoped wizard state in Redis: session
// snapshots, the once-per-session abandonment guard, marker ids for
// back-office reconciliation, and the terms-content cache.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("wizard:session:%s", id)
}

func abandonmentKey(id uuid.UUID) string {
	return fmt.Sprintf("wizard:abandoned:%s", id)
}

func markerKey(id uuid.UUID) string {
	return fmt.Sprintf("wizard:marker:%s", id)
}

func termsKey(locale string) string {
	return fmt.Sprintf("wizard:terms:%s", locale)
}

func (s *SessionStore) LoadSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}

		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}

	return &session, nil
}

func (s *SessionStore) SaveSession(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}

	return s.client.Set(ctx, sessionKey(session.ID), payload, sessionTTL).Err()
}

// MarkAbandonmentRecorded returns true only for the first call per
// session; SetNX is the guard.
func (s *SessionStore) MarkAbandonmentRecorded(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	return s.client.SetNX(ctx, abandonmentKey(sessionID), "1", sessionTTL).Result()
}

func (s *SessionStore) SaveAbortedMarker(ctx context.Context, sessionID uuid.UUID, orderID string) error {
	return s.client.Set(ctx, markerKey(sessionID), orderID, sessionTTL).Err()
}

func (s *SessionStore) CachedTerms(ctx context.Context, locale string) (*domain.TermsContent, error) {
	payload, err := s.client.Get(ctx, termsKey(locale)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	var content domain.TermsContent
	if err := json.Unmarshal(payload, &content); err != nil {
		return nil, fmt.Errorf("failed to decode terms cache for %s: %w", locale, err)
	}

	return &content, nil
}

func (s *SessionStore) CacheTerms(ctx context.Context, locale string, content *domain.TermsContent) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode terms for %s: %w", locale, err)
	}

	return s.client.Set(ctx, termsKey(locale), payload, termsTTL).Err()
}
