package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/activegames/reservation/internal/core/domain"
)

type OrderGateway struct {
	mock.Mock
}

func NewOrderGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderGateway {
	m := &OrderGateway{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *OrderGateway) CreateOrder(ctx context.Context, sub domain.OrderSubmission) (*domain.OrderResult, error) {
	args := m.Called(ctx, sub)

	var result *domain.OrderResult
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.OrderResult)
	}

	return result, args.Error(1)
}

func (m *OrderGateway) CreateAbortedMarker(ctx context.Context, sub domain.OrderSubmission) (string, error) {
	args := m.Called(ctx, sub)

	return args.String(0), args.Error(1)
}

func (m *OrderGateway) CaptureDeposit(ctx context.Context, orderID string, amount int, card domain.CardInput) error {
	args := m.Called(ctx, orderID, amount, card)

	return args.Error(0)
}
