package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-api/internal/mocks"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

func tod(h, m int) model.TimeOfDay { return model.NewTimeOfDay(h, m, 0) }

func setup() (*Service, *mocks.MockRoomRepository, *mocks.MockAppointmentRepository, *mocks.MockRoomBookingRepository) {
	rooms := new(mocks.MockRoomRepository)
	appointments := new(mocks.MockAppointmentRepository)
	bookings := new(mocks.MockRoomBookingRepository)
	svc := NewService(&repository.Repositories{
		Rooms:        rooms,
		Appointments: appointments,
		RoomBookings: bookings,
	}, func() time.Time { return time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC) }, logger.Nop())
	return svc, rooms, appointments, bookings
}

func TestService_Create(t *testing.T) {
	svc, rooms, _, _ := setup()
	rooms.On("Create", mock.Anything, mock.AnythingOfType("*model.Room")).Return(nil)

	room, err := svc.Create(context.Background(), model.NewRoom{Name: "Sala 1", Capacity: 2, HasWifi: true})
	require.NoError(t, err)
	assert.Equal(t, "Sala 1", room.Name)

	_, err = svc.Create(context.Background(), model.NewRoom{Name: "Sala 2", Capacity: 0})
	assert.ErrorIs(t, err, errors.ValidationError)
	rooms.AssertNumberOfCalls(t, "Create", 1)
}

func TestService_Schedule(t *testing.T) {
	svc, rooms, appointments, bookings := setup()
	day := model.NewDate(2024, 5, 13)

	rooms.On("Get", mock.Anything, int64(1)).Return(&model.Room{Base: model.Base{ID: 1}}, nil)
	appointments.On("FindForRoom", mock.Anything, int64(1), day).Return([]*model.Appointment{
		{Base: model.Base{ID: 10}, PatientName: "Late", StartTime: tod(14, 0), EndTime: tod(15, 0), Status: model.AppointmentStatusConfirmed},
		{Base: model.Base{ID: 11}, PatientName: "Gone", StartTime: tod(9, 0), EndTime: tod(10, 0), Status: model.AppointmentStatusCanceled},
		{Base: model.Base{ID: 12}, PatientName: "Early", StartTime: tod(8, 0), EndTime: tod(9, 0), Status: model.AppointmentStatusScheduled},
	}, nil)
	bookings.On("FindForRoom", mock.Anything, int64(1), day).Return([]*model.RoomBooking{
		{Base: model.Base{ID: 20}, Purpose: "Supervision", StartTime: tod(10, 0), EndTime: tod(11, 0)},
	}, nil)

	agenda, err := svc.Schedule(context.Background(), 1, day)
	require.NoError(t, err)
	require.Len(t, agenda, 3)
	assert.Equal(t, "Early", agenda[0].Label)
	assert.Equal(t, model.SlotBooking, agenda[1].Kind)
	assert.Equal(t, int64(10), agenda[2].ID)

	free, err := svc.Free(context.Background(), 1, day, model.TimeRange{Start: tod(9, 0), End: tod(10, 0)})
	require.NoError(t, err)
	assert.True(t, free, "canceled appointment must not occupy the room")

	free, err = svc.Free(context.Background(), 1, day, model.TimeRange{Start: tod(10, 30), End: tod(11, 30)})
	require.NoError(t, err)
	assert.False(t, free)
}

func TestService_Schedule_UnknownRoom(t *testing.T) {
	svc, rooms, appointments, _ := setup()
	rooms.On("Get", mock.Anything, int64(5)).Return(nil, errors.NotFound("room", nil))

	_, err := svc.Schedule(context.Background(), 5, model.NewDate(2024, 5, 13))
	assert.ErrorIs(t, err, errors.NotFoundError)
	appointments.AssertNotCalled(t, "FindForRoom", mock.Anything, mock.Anything, mock.Anything)
}
