package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/pkg/errors"
)

// occupiedQuery finds any live appointment or booking that shares the room or the
// psychologist on the date and overlaps [start, end).
const occupiedQuery = `
	SELECT EXISTS (
		SELECT 1 FROM appointments
		WHERE date = $1
		AND (room_id = $2 OR psychologist_id = $3)
		AND status <> 'canceled'
		AND start_time < $5 AND end_time > $4
		UNION ALL
		SELECT 1 FROM room_bookings
		WHERE date = $1
		AND (room_id = $2 OR psychologist_id = $3)
		AND start_time < $5 AND end_time > $4
	)
`

// slot is what an appointment or room booking occupies.
type slot struct {
	roomID         int64
	psychologistID int64
	date           model.Date
	start, end     model.TimeOfDay
}

// reserve locks the room and then the psychologist row for the rest of tx and
// fails with ErrConflict if the slot is taken. Every writer takes the locks in
// the same order, so concurrent reservations serialise instead of deadlocking.
func reserve(ctx context.Context, tx *sqlx.Tx, resource string, s slot) error {
	if err := lockRow(ctx, tx, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, s.roomID); err != nil {
		return referenceOr(resource, "room_id", err)
	}
	if err := lockRow(ctx, tx, `SELECT id FROM psychologists WHERE id = $1 FOR UPDATE`, s.psychologistID); err != nil {
		return referenceOr(resource, "psychologist_id", err)
	}

	var taken bool
	if err := tx.GetContext(ctx, &taken, occupiedQuery,
		s.date, s.roomID, s.psychologistID, s.start, s.end,
	); err != nil {
		return fmt.Errorf("failed to check availability: %w", translate(resource, err))
	}
	if taken {
		return errors.Conflict(fmt.Sprintf("%s overlaps an existing appointment or booking", resource)).
			WithDetail("date", s.date.String()).
			WithDetail("range", s.start.String()+"-"+s.end.String())
	}
	return nil
}

func lockRow(ctx context.Context, tx *sqlx.Tx, query string, id int64) error {
	var locked int64
	return tx.GetContext(ctx, &locked, query, id)
}

func referenceOr(resource, constraint string, err error) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.Reference(resource, constraint, err)
	}
	return translate(resource, err)
}
