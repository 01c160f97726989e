package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockMailer is a mock of email.Service
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, name, token string, expiresAt time.Time) error {
	args := m.Called(ctx, to, name, token, expiresAt)
	return args.Error(0)
}
