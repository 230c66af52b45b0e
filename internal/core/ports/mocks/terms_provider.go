package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/activegames/reservation/internal/core/domain"
)

type TermsProvider struct {
	mock.Mock
}

func NewTermsProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *TermsProvider {
	m := &TermsProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *TermsProvider) Fetch(ctx context.Context, locale string) (*domain.TermsContent, error) {
	args := m.Called(ctx, locale)

	var content *domain.TermsContent
	if args.Get(0) != nil {
		content = args.Get(0).(*domain.TermsContent)
	}

	return content, args.Error(1)
}
