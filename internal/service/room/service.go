package room

import (
	"context"
	"sort"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

type Service struct {
	repo         repository.RoomRepository
	appointments repository.AppointmentRepository
	bookings     repository.RoomBookingRepository
	clock        service.Clock
	log          *logger.Logger
}

func NewService(repos *repository.Repositories, clock service.Clock, log *logger.Logger) *Service {
	return &Service{
		repo:         repos.Rooms,
		appointments: repos.Appointments,
		bookings:     repos.RoomBookings,
		clock:        clock.OrSystem(),
		log:          log,
	}
}

func (s *Service) Create(ctx context.Context, in model.NewRoom) (*model.Room, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	room := in.Build(s.clock())
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info("room created", "room_id", room.ID, "name", room.Name)
	return room, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Room, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Room, error) {
	return s.repo.List(ctx)
}

// Delete removes a room. Rooms with appointments or bookings are kept and the
// store reports a reference error.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("room deleted", "room_id", id)
	return nil
}

// Schedule returns the slots occupying a room on date, ordered by start time.
// Canceled appointments do not occupy the room and are left out.
func (s *Service) Schedule(ctx context.Context, roomID int64, date model.Date) ([]model.AgendaEntry, error) {
	if _, err := s.repo.Get(ctx, roomID); err != nil {
		return nil, err
	}

	appointments, err := s.appointments.FindForRoom(ctx, roomID, date)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindForRoom(ctx, roomID, date)
	if err != nil {
		return nil, err
	}

	agenda := make([]model.AgendaEntry, 0, len(appointments)+len(bookings))
	for _, a := range appointments {
		if !a.Status.Occupies() {
			continue
		}
		agenda = append(agenda, model.AgendaEntry{
			Kind:           model.SlotAppointment,
			ID:             a.ID,
			PsychologistID: a.PsychologistID,
			Range:          a.Range(),
			Label:          a.PatientName,
		})
	}
	for _, b := range bookings {
		agenda = append(agenda, model.AgendaEntry{
			Kind:           model.SlotBooking,
			ID:             b.ID,
			PsychologistID: b.PsychologistID,
			Range:          b.Range(),
			Label:          b.Purpose,
		})
	}

	sort.SliceStable(agenda, func(i, j int) bool {
		return agenda[i].Range.Start.Before(agenda[j].Range.Start)
	})
	return agenda, nil
}

// Free reports whether r is unoccupied in the room on date.
func (s *Service) Free(ctx context.Context, roomID int64, date model.Date, r model.TimeRange) (bool, error) {
	agenda, err := s.Schedule(ctx, roomID, date)
	if err != nil {
		return false, err
	}
	for _, e := range agenda {
		if e.Range.Overlaps(r) {
			return false, nil
		}
	}
	return true, nil
}
