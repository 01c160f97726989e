package worker

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

	"github.com/jwalitptl/practice-api/internal/mocks"
	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service/calendar"
	"github.com/jwalitptl/practice-api/internal/service/passwordreset"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	worker  *TokenCleanupWorker
	resets  *mocks.MockPasswordResetTokenRepository
	tokens  *mocks.MockGoogleTokenRepository
	events  *mocks.MockCalendarEventRepository
	metrics *metrics.Metrics
}

func setup() fixture {
	f := fixture{
		resets:  new(mocks.MockPasswordResetTokenRepository),
		tokens:  new(mocks.MockGoogleTokenRepository),
		events:  new(mocks.MockCalendarEventRepository),
		metrics: metrics.NewMetrics(prometheus.NewRegistry(), "test"),
	}
	repos := &repository.Repositories{ResetTokens: f.resets, GoogleTokens: f.tokens, CalendarEvents: f.events}
	clock := func() time.Time { return now }

	resetSvc := passwordreset.NewService(repos, nil, nil, passwordreset.Config{AttemptsPerMinute: 1, Burst: 1}, f.metrics, clock, logger.Nop())
	calendarSvc := calendar.NewService(repos, nil, clock, logger.Nop())

	f.worker = NewTokenCleanupWorker(resetSvc, calendarSvc, TokenCleanupConfig{
		Interval:      time.Hour,
		Retention:     24 * time.Hour,
		StaleAfter:    6 * time.Hour,
		RefreshWindow: 10 * time.Minute,
	}, f.metrics, clock, logger.Nop())
	return f
}

func TestTokenCleanupWorker_RunOnce(t *testing.T) {
	f := setup()
	f.resets.On("DeleteInactive", mock.Anything, now.Add(-24*time.Hour)).Return(int64(3), nil)
	f.tokens.On("ListExpiring", mock.Anything, now.Add(10*time.Minute)).
		Return([]*model.GoogleToken{{UserID: 1}, {UserID: 2}}, nil)
	f.events.On("ListStale", mock.Anything, now.Add(-6*time.Hour)).
		Return([]*model.CalendarEvent{{GoogleEventID: "evt"}}, nil)

	require.NoError(t, f.worker.RunOnce(context.Background()))

	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.TokensPurged))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ExpiringGoogleTokens))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StaleCalendarEvents))
}

func TestTokenCleanupWorker_StopsOnError(t *testing.T) {
	f := setup()
	f.resets.On("DeleteInactive", mock.Anything, mock.Anything).Return(int64(0), stderrors.New("db down"))

	f.worker.tick(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.WorkerRuns.WithLabelValues("error")))
	f.tokens.AssertNotCalled(t, "ListExpiring", mock.Anything, mock.Anything)
}

func TestTokenCleanupWorker_StartStopsWithContext(t *testing.T) {
	f := setup()
	f.resets.On("DeleteInactive", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.tokens.On("ListExpiring", mock.Anything, mock.Anything).Return([]*model.GoogleToken{}, nil)
	f.events.On("ListStale", mock.Anything, mock.Anything).Return([]*model.CalendarEvent{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.worker.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.WorkerRuns.WithLabelValues("success")) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestTokenCleanupWorker_DefaultClockIsUTC(t *testing.T) {
	resets := new(mocks.MockPasswordResetTokenRepository)
	tokens := new(mocks.MockGoogleTokenRepository)
	events := new(mocks.MockCalendarEventRepository)
	repos := &repository.Repositories{ResetTokens: resets, GoogleTokens: tokens, CalendarEvents: events}
	clock := func() time.Time { return now }

	w := NewTokenCleanupWorker(
		passwordreset.NewService(repos, nil, nil, passwordreset.Config{AttemptsPerMinute: 1, Burst: 1}, nil, clock, logger.Nop()),
		calendar.NewService(repos, nil, clock, logger.Nop()),
		TokenCleanupConfig{Interval: time.Hour, Retention: time.Hour},
		nil, nil, logger.Nop(),
	)

	resets.On("DeleteInactive", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return cutoff.Location() == time.UTC
	})).Return(int64(0), nil)
	tokens.On("ListExpiring", mock.Anything, mock.Anything).Return([]*model.GoogleToken{}, nil)
	events.On("ListStale", mock.Anything, mock.Anything).Return([]*model.CalendarEvent{}, nil)

	require.NoError(t, w.RunOnce(context.Background()))
	resets.AssertExpectations(t)
}
