package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lostfound/internal/service"
)

// MockImageService is a mock implementation of service.ImageService.
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Upload(ctx context.Context, file service.ImageFile) (string, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Error(1)
}
