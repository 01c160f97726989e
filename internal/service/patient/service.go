package patient

import (
	"context"
	"strings"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

type Service struct {
	repo  repository.PatientRepository
	clock service.Clock
	log   *logger.Logger
}

func NewService(repo repository.PatientRepository, clock service.Clock, log *logger.Logger) *Service {
	return &Service{
		repo:  repo,
		clock: clock.OrSystem(),
		log:   log,
	}
}

func (s *Service) Create(ctx context.Context, in model.NewPatient) (*model.Patient, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &normalized
	}
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	now := s.clock()
	if in.BirthDate != nil && in.BirthDate.After(model.DateOf(now)) {
		return nil, errors.Validation("invalid input: birthDate", nil).
			WithDetail("birthDate", "must not be in the future")
	}

	p := in.Build(now)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("patient created", "patient_id", p.ID, "created_by", p.CreatedBy)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, page model.Pagination) ([]*model.Patient, error) {
	return s.repo.List(ctx, page.Normalize())
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("patient deleted", "patient_id", id)
	return nil
}
