package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/security"
)

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
	clock  service.Clock
	log    *logger.Logger
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, clock service.Clock, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		clock:  clock.OrSystem(),
		log:    log,
	}
}

// Create stores a new user. A nil password means the account signs in through Google.
func (s *Service) Create(ctx context.Context, in model.NewUser) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	if in.Password == nil && in.GoogleID == nil {
		return nil, errors.Validation("invalid input: password", nil).
			WithDetail("password", "required unless a Google account is linked")
	}

	user := in.Build(s.clock())
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, errors.Validation("invalid input: password", err)
		}
		user.Password = &hash
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", "user_id", user.ID, "role", string(user.Role))
	return user, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) List(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, errors.Validation(fmt.Sprintf("unknown role %q", filter.Role), nil)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.Validation(fmt.Sprintf("unknown user status %q", filter.Status), nil)
	}
	filter.Pagination = filter.Pagination.Normalize()
	return s.repo.List(ctx, filter)
}

func (s *Service) SetStatus(ctx context.Context, id int64, status model.UserStatus) error {
	if !status.Valid() {
		return errors.Validation(fmt.Sprintf("unknown user status %q", status), nil)
	}
	if err := s.repo.UpdateStatus(ctx, id, status, s.clock()); err != nil {
		return err
	}

	s.log.Info("user status changed", "user_id", id, "status", string(status))
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return errors.Forbidden("account signs in through Google")
	}
	if err := s.hasher.Compare(*user.Password, current); err != nil {
		return errors.Unauthorized(err)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return errors.Validation("invalid input: password", err)
	}
	return s.repo.UpdatePassword(ctx, id, hash, s.clock())
}

// LinkGoogleAccount attaches a Google identity. Linking an identity already owned by
// another user fails with a duplicate error from the store.
func (s *Service) LinkGoogleAccount(ctx context.Context, id int64, googleID string) error {
	googleID = strings.TrimSpace(googleID)
	if googleID == "" {
		return errors.Validation("invalid input: googleId", nil).WithDetail("googleId", "required")
	}
	if err := s.repo.LinkGoogleID(ctx, id, googleID, s.clock()); err != nil {
		return err
	}

	s.log.Info("google account linked", "user_id", id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("user deleted", "user_id", id)
	return nil
}
