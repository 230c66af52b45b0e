package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/activegames/reservation/internal/core/domain"
)

type VenueCatalog struct {
	mock.Mock
}

func NewVenueCatalog(t interface {
	mock.TestingT
	Cleanup(func())
}) *VenueCatalog {
	m := &VenueCatalog{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *VenueCatalog) List(ctx context.Context) ([]domain.Venue, error) {
	args := m.Called(ctx)

	var venues []domain.Venue
	if args.Get(0) != nil {
		venues = args.Get(0).([]domain.Venue)
	}

	return venues, args.Error(1)
}
