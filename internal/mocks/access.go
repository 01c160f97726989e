package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/practice-api/internal/model"
)

// MockPermissionRepository is a mock of repository.PermissionRepository
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) CreatePermission(ctx context.Context, p *model.Permission) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPermissionRepository) GetPermissionByName(ctx context.Context, name string) (*model.Permission, error) {
	args := m.Called(ctx, name)
	if fn, ok := args.Get(0).(func(context.Context, string) (*model.Permission, error)); ok {
		return fn(ctx, name)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Permission), args.Error(1)
}

func (m *MockPermissionRepository) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Permission), args.Error(1)
}

func (m *MockPermissionRepository) DeletePermission(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPermissionRepository) GrantToRole(ctx context.Context, rp *model.RolePermission) error {
	args := m.Called(ctx, rp)
	return args.Error(0)
}

func (m *MockPermissionRepository) RevokeFromRole(ctx context.Context, role model.Role, permissionID int64) error {
	args := m.Called(ctx, role, permissionID)
	return args.Error(0)
}

func (m *MockPermissionRepository) PermissionsForRole(ctx context.Context, role model.Role) ([]*model.Permission, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Permission), args.Error(1)
}

// MockGoogleTokenRepository is a mock of repository.GoogleTokenRepository
type MockGoogleTokenRepository struct {
	mock.Mock
}

func (m *MockGoogleTokenRepository) Upsert(ctx context.Context, t *model.GoogleToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockGoogleTokenRepository) GetForUser(ctx context.Context, userID int64) (*model.GoogleToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GoogleToken), args.Error(1)
}

func (m *MockGoogleTokenRepository) DeleteForUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockGoogleTokenRepository) ListExpiring(ctx context.Context, before time.Time) ([]*model.GoogleToken, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.GoogleToken), args.Error(1)
}

// MockCalendarEventRepository is a mock of repository.CalendarEventRepository
type MockCalendarEventRepository struct {
	mock.Mock
}

func (m *MockCalendarEventRepository) Link(ctx context.Context, e *model.CalendarEvent) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockCalendarEventRepository) FindForAppointment(ctx context.Context, appointmentID int64) ([]*model.CalendarEvent, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CalendarEvent), args.Error(1)
}

func (m *MockCalendarEventRepository) GetByGoogleEventID(ctx context.Context, googleEventID string) (*model.CalendarEvent, error) {
	args := m.Called(ctx, googleEventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CalendarEvent), args.Error(1)
}

func (m *MockCalendarEventRepository) MarkSynced(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockCalendarEventRepository) ListStale(ctx context.Context, before time.Time) ([]*model.CalendarEvent, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CalendarEvent), args.Error(1)
}

func (m *MockCalendarEventRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPasswordResetTokenRepository is a mock of repository.PasswordResetTokenRepository
type MockPasswordResetTokenRepository struct {
	mock.Mock
}

func (m *MockPasswordResetTokenRepository) Create(ctx context.Context, t *model.PasswordResetToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockPasswordResetTokenRepository) Consume(ctx context.Context, token string, now time.Time) (int64, error) {
	args := m.Called(ctx, token, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPasswordResetTokenRepository) Redeem(ctx context.Context, token string, now time.Time, passwordHash string) (int64, error) {
	args := m.Called(ctx, token, now, passwordHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPasswordResetTokenRepository) DeleteInactive(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
