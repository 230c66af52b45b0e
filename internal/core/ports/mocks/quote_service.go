package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/activegames/reservation/internal/core/domain"
)

type QuoteService struct {
	mock.Mock
}

func NewQuoteService(t interface {
	mock.TestingT
	Cleanup(func())
}) *QuoteService {
	m := &QuoteService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *QuoteService) Quote(ctx context.Context, input domain.QuoteInput) (*domain.DepositQuote, error) {
	args := m.Called(ctx, input)

	var quote *domain.DepositQuote
	if args.Get(0) != nil {
		quote = args.Get(0).(*domain.DepositQuote)
	}

	return quote, args.Error(1)
}
