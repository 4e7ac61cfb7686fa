package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lostfound/internal/domain"
)

// MockChangeNotifier is a mock implementation of port.ChangeNotifier.
type MockChangeNotifier struct {
	mock.Mock
}

func (m *MockChangeNotifier) Publish(ctx context.Context, change domain.ReportChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockChangeNotifier) Subscribe(ctx context.Context) (<-chan domain.ReportChange, func(), error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(<-chan domain.ReportChange), args.Get(1).(func()), args.Error(2)
}
