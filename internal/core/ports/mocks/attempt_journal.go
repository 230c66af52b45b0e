package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/activegames/reservation/internal/core/domain"
)

type AttemptJournal struct {
	mock.Mock
}

func NewAttemptJournal(t interface {
	mock.TestingT
	Cleanup(func())
}) *AttemptJournal {
	m := &AttemptJournal{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *AttemptJournal) Create(ctx context.Context, attempt *domain.SubmissionAttempt) error {
	args := m.Called(ctx, attempt)

	return args.Error(0)
}

func (m *AttemptJournal) OpenBySession(ctx context.Context, sessionID uuid.UUID) (*domain.SubmissionAttempt, error) {
	args := m.Called(ctx, sessionID)

	var attempt *domain.SubmissionAttempt
	if args.Get(0) != nil {
		attempt = args.Get(0).(*domain.SubmissionAttempt)
	}

	return attempt, args.Error(1)
}

func (m *AttemptJournal) SetStage(ctx context.Context, id uuid.UUID, stage domain.AttemptStage) error {
	args := m.Called(ctx, id, stage)

	return args.Error(0)
}

func (m *AttemptJournal) Close(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
