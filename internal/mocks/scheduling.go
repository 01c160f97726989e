package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/practice-api/internal/model"
)

// MockRoomRepository is a mock of repository.RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Get(ctx context.Context, id int64) (*model.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context) ([]*model.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Room), args.Error(1)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAppointmentRepository is a mock of repository.AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus, now time.Time) (*model.Appointment, error) {
	args := m.Called(ctx, id, from, to, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindForPsychologist(ctx context.Context, psychologistID int64, from, to model.Date) ([]*model.Appointment, error) {
	args := m.Called(ctx, psychologistID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindForRoom(ctx context.Context, roomID int64, date model.Date) ([]*model.Appointment, error) {
	args := m.Called(ctx, roomID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Appointment), args.Error(1)
}

// MockRoomBookingRepository is a mock of repository.RoomBookingRepository
type MockRoomBookingRepository struct {
	mock.Mock
}

func (m *MockRoomBookingRepository) Create(ctx context.Context, b *model.RoomBooking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRoomBookingRepository) Get(ctx context.Context, id int64) (*model.RoomBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoomBooking), args.Error(1)
}

func (m *MockRoomBookingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoomBookingRepository) FindForRoom(ctx context.Context, roomID int64, date model.Date) ([]*model.RoomBooking, error) {
	args := m.Called(ctx, roomID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RoomBooking), args.Error(1)
}

func (m *MockRoomBookingRepository) FindForPsychologist(ctx context.Context, psychologistID int64, from, to model.Date) ([]*model.RoomBooking, error) {
	args := m.Called(ctx, psychologistID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RoomBooking), args.Error(1)
}
