package schedule

import (
	"context"
	"fmt"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

// Service books appointments and room slots. Overlap checks run in the store so
// that concurrent bookings of the same slot cannot both succeed.
type Service struct {
	appointments repository.AppointmentRepository
	bookings     repository.RoomBookingRepository
	clock        service.Clock
	log          *logger.Logger
}

func NewService(repos *repository.Repositories, clock service.Clock, log *logger.Logger) *Service {
	return &Service{
		appointments: repos.Appointments,
		bookings:     repos.RoomBookings,
		clock:        clock.OrSystem(),
		log:          log,
	}
}

func (s *Service) BookAppointment(ctx context.Context, in model.NewAppointment) (*model.Appointment, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	if in.Status.Terminal() {
		return nil, errors.Validation("invalid input: status", nil).
			WithDetail("status", "new appointments cannot start "+string(in.Status))
	}

	a := in.Build(s.clock())
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info("appointment booked",
		"appointment_id", a.ID,
		"psychologist_id", a.PsychologistID,
		"room_id", a.RoomID,
		"date", a.Date.String(),
		"start", a.StartTime.String(),
	)
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *Service) Confirm(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.Transition(ctx, id, model.AppointmentStatusConfirmed)
}

// Cancel releases the room and psychologist held by the appointment.
func (s *Service) Cancel(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.Transition(ctx, id, model.AppointmentStatusCanceled)
}

func (s *Service) Complete(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.Transition(ctx, id, model.AppointmentStatusCompleted)
}

// Transition moves an appointment to status to. Moves not in the transition table,
// including any move out of a terminal status, fail with a conflict.
func (s *Service) Transition(ctx context.Context, id int64, to model.AppointmentStatus) (*model.Appointment, error) {
	if !to.Valid() {
		return nil, errors.Validation(fmt.Sprintf("unknown appointment status %q", to), nil)
	}

	current, err := s.appointments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(to) {
		return nil, errors.Conflict(fmt.Sprintf("appointment cannot move from %s to %s", current.Status, to)).
			WithDetail("from", string(current.Status)).
			WithDetail("to", string(to))
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, current.Status, to, s.clock())
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment status changed",
		"appointment_id", id,
		"from", string(current.Status),
		"to", string(to),
	)
	return updated, nil
}

// DeleteAppointment removes an appointment. Appointments referenced by transactions
// are kept and the store reports a reference error.
func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) BookRoom(ctx context.Context, in model.NewRoomBooking) (*model.RoomBooking, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	b := in.Build(s.clock())
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("room booked",
		"booking_id", b.ID,
		"room_id", b.RoomID,
		"psychologist_id", b.PsychologistID,
		"date", b.Date.String(),
	)
	return b, nil
}

func (s *Service) GetRoomBooking(ctx context.Context, id int64) (*model.RoomBooking, error) {
	return s.bookings.Get(ctx, id)
}

func (s *Service) CancelRoomBooking(ctx context.Context, id int64) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("room booking canceled", "booking_id", id)
	return nil
}
