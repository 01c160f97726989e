package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/pkg/errors"
)

type googleTokenRepository struct {
	BaseRepository
}

func NewGoogleTokenRepository(base BaseRepository) repository.GoogleTokenRepository {
	return &googleTokenRepository{base}
}

func (r *googleTokenRepository) Upsert(ctx context.Context, t *model.GoogleToken) (err error) {
	defer r.observe("google_tokens.upsert", time.Now(), &err)

	query := `
		INSERT INTO google_tokens (
			user_id, access_token, refresh_token, expiry_date, calendar_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expiry_date = EXCLUDED.expiry_date,
			calendar_id = EXCLUDED.calendar_id,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		t.UserID,
		t.AccessToken,
		t.RefreshToken,
		t.ExpiryDate,
		t.CalendarID,
		t.CreatedAt,
		t.UpdatedAt,
	).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("failed to save google token: %w", translate("google token", err))
	}
	return nil
}

func (r *googleTokenRepository) GetForUser(ctx context.Context, userID int64) (t *model.GoogleToken, err error) {
	defer r.observe("google_tokens.get", time.Now(), &err)

	var out model.GoogleToken
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM google_tokens WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to get google token: %w", translate("google token", err))
	}
	return &out, nil
}

func (r *googleTokenRepository) DeleteForUser(ctx context.Context, userID int64) (err error) {
	defer r.observe("google_tokens.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "google token", `DELETE FROM google_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete google token: %w", err)
	}
	return nil
}

func (r *googleTokenRepository) ListExpiring(ctx context.Context, before time.Time) (ts []*model.GoogleToken, err error) {
	defer r.observe("google_tokens.list_expiring", time.Now(), &err)

	query := `SELECT * FROM google_tokens WHERE expiry_date <= $1 ORDER BY expiry_date`
	if err := r.db.SelectContext(ctx, &ts, query, before); err != nil {
		return nil, fmt.Errorf("failed to list expiring google tokens: %w", err)
	}
	return ts, nil
}

type calendarEventRepository struct {
	BaseRepository
}

func NewCalendarEventRepository(base BaseRepository) repository.CalendarEventRepository {
	return &calendarEventRepository{base}
}

func (r *calendarEventRepository) Link(ctx context.Context, e *model.CalendarEvent) (inserted bool, err error) {
	defer r.observe("calendar_events.link", time.Now(), &err)

	// The no-op update only fires for the same appointment, so a row comes back
	// either way unless the event belongs to another appointment.
	query := `
		INSERT INTO calendar_events (
			appointment_id, google_event_id, user_id, last_synced, created_at
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (google_event_id) DO UPDATE SET google_event_id = EXCLUDED.google_event_id
		WHERE calendar_events.appointment_id = EXCLUDED.appointment_id
		RETURNING *, (xmax = 0) AS inserted
	`

	var row struct {
		model.CalendarEvent
		Inserted bool `db:"inserted"`
	}
	err = r.db.GetContext(ctx, &row, query,
		e.AppointmentID,
		e.GoogleEventID,
		e.UserID,
		e.LastSynced,
		e.CreatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false, errors.Conflict(fmt.Sprintf("google event %s is linked to another appointment", e.GoogleEventID))
	}
	if err != nil {
		return false, fmt.Errorf("failed to link calendar event: %w", translate("calendar event", err))
	}

	*e = row.CalendarEvent
	return row.Inserted, nil
}

func (r *calendarEventRepository) FindForAppointment(ctx context.Context, appointmentID int64) (es []*model.CalendarEvent, err error) {
	defer r.observe("calendar_events.find_for_appointment", time.Now(), &err)

	query := `SELECT * FROM calendar_events WHERE appointment_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &es, query, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to find calendar events: %w", err)
	}
	return es, nil
}

func (r *calendarEventRepository) GetByGoogleEventID(ctx context.Context, googleEventID string) (e *model.CalendarEvent, err error) {
	defer r.observe("calendar_events.get_by_google_id", time.Now(), &err)

	var out model.CalendarEvent
	query := `SELECT * FROM calendar_events WHERE google_event_id = $1`
	if err := r.db.GetContext(ctx, &out, query, googleEventID); err != nil {
		return nil, fmt.Errorf("failed to get calendar event: %w", translate("calendar event", err))
	}
	return &out, nil
}

func (r *calendarEventRepository) MarkSynced(ctx context.Context, id int64, at time.Time) (err error) {
	defer r.observe("calendar_events.mark_synced", time.Now(), &err)

	query := `UPDATE calendar_events SET last_synced = $1 WHERE id = $2`
	if err := execOne(ctx, r.db, "calendar event", query, at, id); err != nil {
		return fmt.Errorf("failed to mark calendar event synced: %w", err)
	}
	return nil
}

func (r *calendarEventRepository) ListStale(ctx context.Context, before time.Time) (es []*model.CalendarEvent, err error) {
	defer r.observe("calendar_events.list_stale", time.Now(), &err)

	query := `SELECT * FROM calendar_events WHERE last_synced < $1 ORDER BY last_synced`
	if err := r.db.SelectContext(ctx, &es, query, before); err != nil {
		return nil, fmt.Errorf("failed to list stale calendar events: %w", err)
	}
	return es, nil
}

func (r *calendarEventRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("calendar_events.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "calendar event", `DELETE FROM calendar_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

type passwordResetTokenRepository struct {
	BaseRepository
}

func NewPasswordResetTokenRepository(base BaseRepository) repository.PasswordResetTokenRepository {
	return &passwordResetTokenRepository{base}
}

// consumeQuery is the single check-and-set for a token. The expiry instant itself
// is still valid.
const consumeQuery = `
	UPDATE password_reset_tokens
	SET used = TRUE
	WHERE token = $1 AND used = FALSE AND expires_at >= $2
	RETURNING user_id
`

func (r *passwordResetTokenRepository) Create(ctx context.Context, t *model.PasswordResetToken) (err error) {
	defer r.observe("reset_tokens.create", time.Now(), &err)

	query := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := r.db.GetContext(ctx, &t.ID, query, t.UserID, t.Token, t.ExpiresAt, t.Used, t.CreatedAt); err != nil {
		return fmt.Errorf("failed to create reset token: %w", translate("reset token", err))
	}
	return nil
}

func (r *passwordResetTokenRepository) Consume(ctx context.Context, token string, now time.Time) (userID int64, err error) {
	defer r.observe("reset_tokens.consume", time.Now(), &err)
	return consume(ctx, r.db, token, now)
}

func (r *passwordResetTokenRepository) Redeem(ctx context.Context, token string, now time.Time, passwordHash string) (userID int64, err error) {
	defer r.observe("reset_tokens.redeem", time.Now(), &err)

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := consume(ctx, tx, token, now)
		if err != nil {
			return err
		}
		if err := updatePassword(ctx, tx, id, passwordHash, now); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		userID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (r *passwordResetTokenRepository) DeleteInactive(ctx context.Context, before time.Time) (n int64, err error) {
	defer r.observe("reset_tokens.delete_inactive", time.Now(), &err)

	query := `
		DELETE FROM password_reset_tokens
		WHERE expires_at < $1 OR (used AND created_at < $1)
	`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inactive reset tokens: %w", err)
	}
	n, err = result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func consume(ctx context.Context, q sqlx.QueryerContext, token string, now time.Time) (int64, error) {
	var userID int64
	err := sqlx.GetContext(ctx, q, &userID, consumeQuery, token, now)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, errors.InvalidToken()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return userID, nil
}
