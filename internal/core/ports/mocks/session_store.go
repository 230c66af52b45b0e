package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/activegames/reservation/internal/core/domain"
)

type SessionStore struct {
	mock.Mock
}

func NewSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *SessionStore) LoadSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)

	var session *domain.Session
	if args.Get(0) != nil {
		session = args.Get(0).(*domain.Session)
	}

	return session, args.Error(1)
}

func (m *SessionStore) SaveSession(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)

	return args.Error(0)
}

func (m *SessionStore) MarkAbandonmentRecorded(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, sessionID)

	return args.Bool(0), args.Error(1)
}

func (m *SessionStore) SaveAbortedMarker(ctx context.Context, sessionID uuid.UUID, orderID string) error {
	args := m.Called(ctx, sessionID, orderID)

	return args.Error(0)
}

func (m *SessionStore) CachedTerms(ctx context.Context, locale string) (*domain.TermsContent, error) {
	args := m.Called(ctx, locale)

	var content *domain.TermsContent
	if args.Get(0) != nil {
		content = args.Get(0).(*domain.TermsContent)
	}

	return content, args.Error(1)
}

func (m *SessionStore) CacheTerms(ctx context.Context, locale string, content *domain.TermsContent) error {
	args := m.Called(ctx, locale, content)

	return args.Error(0)
}
