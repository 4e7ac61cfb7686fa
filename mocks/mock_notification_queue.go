package mocks

import (
	"github.com/stretchr/testify/mock"

	"lostfound/internal/domain"
)

// MockNotificationQueue is a mock implementation of service.NotificationQueue.
type MockNotificationQueue struct {
	mock.Mock
}

func (m *MockNotificationQueue) Enqueue(n domain.Notification) bool {
	args := m.Called(n)
	return args.Bool(0)
}
