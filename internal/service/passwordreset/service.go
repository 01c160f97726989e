package passwordreset

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jwalitptl/practice-api/internal/email"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/metrics"
	"github.com/jwalitptl/practice-api/pkg/security"
)

const (
	outcomeSuccess     = "success"
	outcomeInvalid     = "invalid_token"
	outcomeRateLimited = "rate_limited"
	outcomeRejected    = "rejected"
)

// Config for the reset flow. AttemptsPerMinute and Burst feed one limiter for the
// whole Service, so every caller draws from the same budget.
type Config struct {
	TokenTTL          time.Duration
	AttemptsPerMinute int
	Burst             int
}

// Service issues single-use reset tokens and redeems them.
type Service struct {
	users   repository.UserRepository
	tokens  repository.PasswordResetTokenRepository
	hasher  security.PasswordHasher
	mailer  email.Service
	limiter *rate.Limiter
	ttl     time.Duration
	metrics *metrics.Metrics
	clock   service.Clock
	log     *logger.Logger
}

func NewService(
	repos *repository.Repositories,
	hasher security.PasswordHasher,
	mailer email.Service,
	cfg Config,
	m *metrics.Metrics,
	clock service.Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		users:   repos.Users,
		tokens:  repos.ResetTokens,
		hasher:  hasher,
		mailer:  mailer,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.AttemptsPerMinute)/60), cfg.Burst),
		ttl:     cfg.TokenTTL,
		metrics: m,
		clock:   clock.OrSystem(),
		log:     log,
	}
}

// Request issues a token for the account with this email and mails it. Unknown and
// inactive accounts get no token and no error, so callers cannot probe for accounts.
func (s *Service) Request(ctx context.Context, address string) error {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(address)))
	if errors.IsCode(err, errors.ErrNotFound) {
		s.log.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if !user.Active() {
		s.log.Debug("password reset requested for inactive user", "user_id", user.ID)
		return nil
	}

	now := s.clock()
	t := model.NewPasswordResetToken{
		UserID:    user.ID,
		Token:     security.NewResetToken(),
		ExpiresAt: now.Add(s.ttl),
	}.Build(now)
	if err := s.tokens.Create(ctx, t); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FullName, t.Token, t.ExpiresAt); err != nil {
		s.log.Error(err, "failed to deliver password reset email", "user_id", user.ID)
		return nil
	}

	s.log.Info("password reset issued", "user_id", user.ID, "expires_at", t.ExpiresAt.Format(time.RFC3339))
	return nil
}

// Reset redeems token and sets the new password in one step. Unknown, used and
// expired tokens are indistinguishable to the caller.
func (s *Service) Reset(ctx context.Context, token, newPassword string) error {
	if !s.limiter.Allow() {
		s.observe(outcomeRateLimited)
		return errors.RateLimited()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.observe(outcomeRejected)
		if stderrors.Is(err, security.ErrPasswordTooShort) {
			return errors.Validation("invalid input: password", err).
				WithDetail("password", "too short")
		}
		return errors.Internal(err)
	}

	userID, err := s.tokens.Redeem(ctx, token, s.clock(), hash)
	if err != nil {
		if errors.IsCode(err, errors.ErrInvalidToken) {
			s.observe(outcomeInvalid)
		}
		return err
	}

	s.observe(outcomeSuccess)
	s.log.Info("password reset completed", "user_id", userID)
	return nil
}

// Purge deletes tokens that were used or expired before cutoff.
func (s *Service) Purge(ctx context.Context, before time.Time) (int64, error) {
	return s.tokens.DeleteInactive(ctx, before)
}

func (s *Service) observe(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ResetAttempts.WithLabelValues(outcome).Inc()
}
