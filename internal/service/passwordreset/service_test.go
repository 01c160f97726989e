package passwordreset

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/practice-api/internal/mocks"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/metrics"
	"github.com/jwalitptl/practice-api/pkg/security"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *Service
	users   *mocks.MockUserRepository
	tokens  *mocks.MockPasswordResetTokenRepository
	mailer  *mocks.MockMailer
	metrics *metrics.Metrics
}

func setup(cfg Config) fixture {
	f := fixture{
		users:   new(mocks.MockUserRepository),
		tokens:  new(mocks.MockPasswordResetTokenRepository),
		mailer:  new(mocks.MockMailer),
		metrics: metrics.NewMetrics(prometheus.NewRegistry(), "test"),
	}
	f.svc = NewService(
		&repository.Repositories{Users: f.users, ResetTokens: f.tokens},
		security.NewBcryptHasher(bcrypt.MinCost),
		f.mailer,
		cfg,
		f.metrics,
		func() time.Time { return now },
		logger.Nop(),
	)
	return f
}

var defaultConfig = Config{TokenTTL: time.Hour, AttemptsPerMinute: 60, Burst: 10}

func TestService_Request(t *testing.T) {
	f := setup(defaultConfig)
	user := &model.User{Base: model.Base{ID: 4}, Email: "ana@example.com", FullName: "Ana", Status: model.UserStatusActive}
	f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)

	var issued *model.PasswordResetToken
	f.tokens.On("Create", mock.Anything, mock.MatchedBy(func(tok *model.PasswordResetToken) bool {
		return tok.UserID == 4 && !tok.Used && tok.ExpiresAt.Equal(now.Add(time.Hour)) && len(tok.Token) >= 32
	})).Run(func(args mock.Arguments) {
		issued = args.Get(1).(*model.PasswordResetToken)
	}).Return(nil)
	f.mailer.On("SendPasswordReset", mock.Anything, "ana@example.com", "Ana", mock.AnythingOfType("string"), now.Add(time.Hour)).Return(nil)

	require.NoError(t, f.svc.Request(context.Background(), " ANA@example.com"))
	require.NotNil(t, issued)
	f.mailer.AssertCalled(t, "SendPasswordReset", mock.Anything, "ana@example.com", "Ana", issued.Token, now.Add(time.Hour))
}

func TestService_Request_UnknownOrInactive(t *testing.T) {
	f := setup(defaultConfig)
	f.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, errors.NotFound("user", nil))
	f.users.On("GetByEmail", mock.Anything, "off@example.com").
		Return(&model.User{Base: model.Base{ID: 5}, Status: model.UserStatusInactive}, nil)

	assert.NoError(t, f.svc.Request(context.Background(), "ghost@example.com"))
	assert.NoError(t, f.svc.Request(context.Background(), "off@example.com"))
	f.tokens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.mailer.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Request_MailFailureIsHidden(t *testing.T) {
	f := setup(defaultConfig)
	f.users.On("GetByEmail", mock.Anything, "ana@example.com").
		Return(&model.User{Base: model.Base{ID: 4}, Email: "ana@example.com", Status: model.UserStatusActive}, nil)
	f.tokens.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(stderrors.New("smtp down"))

	assert.NoError(t, f.svc.Request(context.Background(), "ana@example.com"))
}

func TestService_Reset(t *testing.T) {
	f := setup(defaultConfig)
	f.tokens.On("Redeem", mock.Anything, "good", now, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
	})).Return(int64(4), nil)
	f.tokens.On("Redeem", mock.Anything, "used", now, mock.AnythingOfType("string")).Return(int64(0), errors.InvalidToken())

	require.NoError(t, f.svc.Reset(context.Background(), "good", "new-password"))
	assert.ErrorIs(t, f.svc.Reset(context.Background(), "used", "new-password"), errors.InvalidTokenError)
	assert.ErrorIs(t, f.svc.Reset(context.Background(), "good", "short"), errors.ValidationError)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ResetAttempts.WithLabelValues(outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ResetAttempts.WithLabelValues(outcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ResetAttempts.WithLabelValues(outcomeRejected)))
}

func TestService_Reset_RateLimited(t *testing.T) {
	f := setup(Config{TokenTTL: time.Hour, AttemptsPerMinute: 1, Burst: 2})
	f.tokens.On("Redeem", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.InvalidToken())

	assert.ErrorIs(t, f.svc.Reset(context.Background(), "guess-1", "new-password"), errors.InvalidTokenError)
	assert.ErrorIs(t, f.svc.Reset(context.Background(), "guess-2", "new-password"), errors.InvalidTokenError)
	assert.ErrorIs(t, f.svc.Reset(context.Background(), "guess-3", "new-password"), errors.RateLimitedError)

	f.tokens.AssertNumberOfCalls(t, "Redeem", 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ResetAttempts.WithLabelValues(outcomeRateLimited)))
}
