package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/practice-api/internal/model"
)

// MockUserRepository is a mock of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	return userResult(m.Called(ctx, id))
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return userResult(m.Called(ctx, email))
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return userResult(m.Called(ctx, username))
}

func (m *MockUserRepository) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return userResult(m.Called(ctx, googleID))
}

func (m *MockUserRepository) List(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus, now time.Time) error {
	args := m.Called(ctx, id, status, now)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, now time.Time) error {
	args := m.Called(ctx, id, passwordHash, now)
	return args.Error(0)
}

func (m *MockUserRepository) LinkGoogleID(ctx context.Context, id int64, googleID string, now time.Time) error {
	args := m.Called(ctx, id, googleID, now)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func userResult(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockPsychologistRepository is a mock of repository.PsychologistRepository
type MockPsychologistRepository struct {
	mock.Mock
}

func (m *MockPsychologistRepository) Create(ctx context.Context, p *model.Psychologist) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPsychologistRepository) Get(ctx context.Context, id int64) (*model.Psychologist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Psychologist), args.Error(1)
}

func (m *MockPsychologistRepository) GetByUserID(ctx context.Context, userID int64) (*model.Psychologist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Psychologist), args.Error(1)
}

func (m *MockPsychologistRepository) List(ctx context.Context, page model.Pagination) ([]*model.Psychologist, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Psychologist), args.Error(1)
}

func (m *MockPsychologistRepository) UpdateRate(ctx context.Context, id int64, rate decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, id, rate, now)
	return args.Error(0)
}

func (m *MockPsychologistRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPatientRepository is a mock of repository.PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, p *model.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

func (m *MockPatientRepository) List(ctx context.Context, page model.Pagination) ([]*model.Patient, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Patient), args.Error(1)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
