package psychologist

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

// MaxWindowDays bounds the date window of agenda lookups.
const MaxWindowDays = 366

type Service struct {
	repo         repository.PsychologistRepository
	users        repository.UserRepository
	appointments repository.AppointmentRepository
	bookings     repository.RoomBookingRepository
	clock        service.Clock
	log          *logger.Logger
}

func NewService(repos *repository.Repositories, clock service.Clock, log *logger.Logger) *Service {
	return &Service{
		repo:         repos.Psychologists,
		users:        repos.Users,
		appointments: repos.Appointments,
		bookings:     repos.RoomBookings,
		clock:        clock.OrSystem(),
		log:          log,
	}
}

// Create registers the professional profile of a user. The user must exist and hold
// the psychologist role.
func (s *Service) Create(ctx context.Context, in model.NewPsychologist) (*model.Psychologist, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != model.RolePsychologist {
		return nil, errors.Forbidden("user does not have the psychologist role").
			WithDetail("role", string(user.Role))
	}

	p := in.Build(s.clock())
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("psychologist created", "psychologist_id", p.ID, "user_id", p.UserID)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Psychologist, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByUser(ctx context.Context, userID int64) (*model.Psychologist, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context, page model.Pagination) ([]*model.Psychologist, error) {
	return s.repo.List(ctx, page.Normalize())
}

func (s *Service) UpdateRate(ctx context.Context, id int64, rate decimal.Decimal) error {
	if rate.IsNegative() || !model.FitsMoney(rate) {
		return errors.Validation("invalid input: hourlyRate", nil).
			WithDetail("hourlyRate", "must be between 0 and 99999999.99")
	}
	return s.repo.UpdateRate(ctx, id, model.NormalizeAmount(rate), s.clock())
}

// Appointments lists the psychologist's appointments between from and to, inclusive.
func (s *Service) Appointments(ctx context.Context, id int64, from, to model.Date) ([]*model.Appointment, error) {
	if err := checkWindow(from, to); err != nil {
		return nil, err
	}
	return s.appointments.FindForPsychologist(ctx, id, from, to)
}

// Bookings lists the psychologist's room bookings between from and to, inclusive.
func (s *Service) Bookings(ctx context.Context, id int64, from, to model.Date) ([]*model.RoomBooking, error) {
	if err := checkWindow(from, to); err != nil {
		return nil, err
	}
	return s.bookings.FindForPsychologist(ctx, id, from, to)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func checkWindow(from, to model.Date) error {
	if from.IsZero() || to.IsZero() {
		return errors.Validation("invalid input: date window", nil).
			WithDetail("from", "from and to are required")
	}
	if to.Before(from) {
		return errors.Validation("invalid input: date window", nil).
			WithDetail("to", "must not be before from")
	}
	if to.After(from.AddDays(MaxWindowDays)) {
		return errors.Validation("invalid input: date window", nil).
			WithDetail("to", "window too large")
	}
	return nil
}
