package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lostfound/internal/service"
)

// MockFeedService is a mock implementation of service.FeedService.
type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) Subscribe(ctx context.Context, q service.FeedQuery) (*service.Subscription, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Subscription), args.Error(1)
}
