package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/logger"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

type TokenPurger interface {
	Purge(ctx context.Context, before time.Time) (int64, error)
}

type CalendarMonitor interface {
	ExpiringTokens(ctx context.Context, within time.Duration) ([]*model.GoogleToken, error)
	StaleEvents(ctx context.Context, olderThan time.Duration) ([]*model.CalendarEvent, error)
}

type TokenCleanupConfig struct {
	Interval      time.Duration
	Retention     time.Duration
	StaleAfter    time.Duration
	RefreshWindow time.Duration
}

// TokenCleanupWorker removes dead password reset tokens and reports calendar
// credentials and events that need attention.
type TokenCleanupWorker struct {
	tokens   TokenPurger
	calendar CalendarMonitor
	cfg      TokenCleanupConfig
	metrics  *metrics.Metrics
	clock    service.Clock
	log      *logger.Logger
}

func NewTokenCleanupWorker(tokens TokenPurger, calendar CalendarMonitor, cfg TokenCleanupConfig, m *metrics.Metrics, clock service.Clock, log *logger.Logger) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		tokens:   tokens,
		calendar: calendar,
		cfg:      cfg,
		metrics:  m,
		clock:    clock.OrSystem(),
		log:      log,
	}
}

// Start runs a pass immediately and then on every tick until ctx is done.
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("token cleanup worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *TokenCleanupWorker) tick(ctx context.Context) {
	if err := w.RunOnce(ctx); err != nil {
		w.log.Error(err, "token cleanup pass failed")
		w.observeRun("error")
		return
	}
	w.observeRun("success")
}

// RunOnce performs a single maintenance pass.
func (w *TokenCleanupWorker) RunOnce(ctx context.Context) error {
	cutoff := w.clock().Add(-w.cfg.Retention)

	purged, err := w.tokens.Purge(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge reset tokens: %w", err)
	}
	if purged > 0 {
		w.log.Info("purged password reset tokens", "count", purged, "cutoff", cutoff.Format(time.RFC3339))
	}

	expiring, err := w.calendar.ExpiringTokens(ctx, w.cfg.RefreshWindow)
	if err != nil {
		return fmt.Errorf("failed to list expiring google tokens: %w", err)
	}
	for _, t := range expiring {
		w.log.Debug("google token expiring", "user_id", t.UserID, "expires_at", t.ExpiryDate.Format(time.RFC3339))
	}

	stale, err := w.calendar.StaleEvents(ctx, w.cfg.StaleAfter)
	if err != nil {
		return fmt.Errorf("failed to list stale calendar events: %w", err)
	}
	if len(stale) > 0 {
		w.log.Warn("calendar events out of sync", "count", len(stale))
	}

	if w.metrics != nil {
		w.metrics.TokensPurged.Add(float64(purged))
		w.metrics.ExpiringGoogleTokens.Set(float64(len(expiring)))
		w.metrics.StaleCalendarEvents.Set(float64(len(stale)))
	}
	return nil
}

func (w *TokenCleanupWorker) observeRun(status string) {
	if w.metrics == nil {
		return
	}
	w.metrics.WorkerRuns.WithLabelValues(status).Inc()
}
