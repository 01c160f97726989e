package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/security"
)

// RefreshSkew is how early an access token counts as expiring.
const RefreshSkew = 5 * time.Minute

// Service keeps Google Calendar credentials and the appointment to event mapping.
// Calling Google itself is left to the caller.
type Service struct {
	tokens    repository.GoogleTokenRepository
	events    repository.CalendarEventRepository
	encryptor security.Encryptor
	clock     service.Clock
	log       *logger.Logger
}

// NewService builds the service. With a nil encryptor tokens are stored as given.
func NewService(repos *repository.Repositories, encryptor security.Encryptor, clock service.Clock, log *logger.Logger) *Service {
	if encryptor == nil {
		log.Warn("google tokens will be stored unencrypted, set security.token_key")
	}
	return &Service{
		tokens:    repos.GoogleTokens,
		events:    repos.CalendarEvents,
		encryptor: encryptor,
		clock:     clock.OrSystem(),
		log:       log,
	}
}

// SaveToken stores the user's credentials, replacing any previous ones.
func (s *Service) SaveToken(ctx context.Context, in model.NewGoogleToken) (*model.GoogleToken, error) {
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	t := in.Build(s.clock())
	stored := *t
	var err error
	if stored.AccessToken, err = s.seal(t.AccessToken); err != nil {
		return nil, err
	}
	if stored.RefreshToken, err = s.seal(t.RefreshToken); err != nil {
		return nil, err
	}
	if err := s.tokens.Upsert(ctx, &stored); err != nil {
		return nil, err
	}

	t.Base = stored.Base
	s.log.Info("google token saved", "user_id", t.UserID, "expires_at", t.ExpiryDate.Format(time.RFC3339))
	return t, nil
}

// Token returns the user's credentials with the tokens opened.
func (s *Service) Token(ctx context.Context, userID int64) (*model.GoogleToken, error) {
	t, err := s.tokens.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if t.AccessToken, err = s.open(t.AccessToken); err != nil {
		return nil, err
	}
	if t.RefreshToken, err = s.open(t.RefreshToken); err != nil {
		return nil, err
	}
	return t, nil
}

// NeedsRefresh reports whether the user's access token expires within RefreshSkew.
func (s *Service) NeedsRefresh(ctx context.Context, userID int64) (bool, error) {
	t, err := s.tokens.GetForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return t.NeedsRefresh(s.clock(), RefreshSkew), nil
}

func (s *Service) Disconnect(ctx context.Context, userID int64) error {
	if err := s.tokens.DeleteForUser(ctx, userID); err != nil {
		return err
	}

	s.log.Info("google calendar disconnected", "user_id", userID)
	return nil
}

// ExpiringTokens lists tokens that expire within the given window.
func (s *Service) ExpiringTokens(ctx context.Context, within time.Duration) ([]*model.GoogleToken, error) {
	return s.tokens.ListExpiring(ctx, s.clock().Add(within))
}

// LinkEvent records that the appointment is mirrored by a Google event. Linking the
// same pair again returns the existing row with created false.
func (s *Service) LinkEvent(ctx context.Context, in model.NewCalendarEvent) (*model.CalendarEvent, bool, error) {
	if err := model.Validate(in); err != nil {
		return nil, false, err
	}

	e := in.Build(s.clock())
	created, err := s.events.Link(ctx, e)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.log.Info("calendar event linked", "appointment_id", e.AppointmentID, "google_event_id", e.GoogleEventID)
	}
	return e, created, nil
}

func (s *Service) EventsForAppointment(ctx context.Context, appointmentID int64) ([]*model.CalendarEvent, error) {
	return s.events.FindForAppointment(ctx, appointmentID)
}

func (s *Service) EventByGoogleID(ctx context.Context, googleEventID string) (*model.CalendarEvent, error) {
	return s.events.GetByGoogleEventID(ctx, googleEventID)
}

func (s *Service) MarkSynced(ctx context.Context, id int64) error {
	return s.events.MarkSynced(ctx, id, s.clock())
}

// StaleEvents lists events not synced within olderThan.
func (s *Service) StaleEvents(ctx context.Context, olderThan time.Duration) ([]*model.CalendarEvent, error) {
	return s.events.ListStale(ctx, s.clock().Add(-olderThan))
}

func (s *Service) UnlinkEvent(ctx context.Context, id int64) error {
	return s.events.Delete(ctx, id)
}

func (s *Service) seal(plain string) (string, error) {
	if s.encryptor == nil {
		return plain, nil
	}
	sealed, err := s.encryptor.EncryptString(plain)
	if err != nil {
		return "", errors.Internal(fmt.Errorf("failed to seal google token: %w", err))
	}
	return sealed, nil
}

func (s *Service) open(sealed string) (string, error) {
	if s.encryptor == nil {
		return sealed, nil
	}
	plain, err := s.encryptor.DecryptString(sealed)
	if err != nil {
		return "", errors.Internal(fmt.Errorf("failed to open google token: %w", err))
	}
	return plain, nil
}
