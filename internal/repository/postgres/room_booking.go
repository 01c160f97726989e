package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
)

type roomBookingRepository struct {
	BaseRepository
}

func NewRoomBookingRepository(base BaseRepository) repository.RoomBookingRepository {
	return &roomBookingRepository{base}
}

func (r *roomBookingRepository) Create(ctx context.Context, b *model.RoomBooking) (err error) {
	defer r.observe("room_bookings.create", time.Now(), &err)

	query := `
		INSERT INTO room_bookings (
			room_id, psychologist_id, date, start_time, end_time, purpose, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := reserve(ctx, tx, "room booking", slot{
			roomID:         b.RoomID,
			psychologistID: b.PsychologistID,
			date:           b.Date,
			start:          b.StartTime,
			end:            b.EndTime,
		}); err != nil {
			return err
		}

		return tx.GetContext(ctx, &b.ID, query,
			b.RoomID,
			b.PsychologistID,
			b.Date,
			b.StartTime,
			b.EndTime,
			b.Purpose,
			b.CreatedAt,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to create room booking: %w", translate("room booking", err))
	}
	return nil
}

func (r *roomBookingRepository) Get(ctx context.Context, id int64) (b *model.RoomBooking, err error) {
	defer r.observe("room_bookings.get", time.Now(), &err)

	var out model.RoomBooking
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM room_bookings WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get room booking: %w", translate("room booking", err))
	}
	return &out, nil
}

func (r *roomBookingRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("room_bookings.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "room booking", `DELETE FROM room_bookings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete room booking: %w", err)
	}
	return nil
}

func (r *roomBookingRepository) FindForRoom(ctx context.Context, roomID int64, date model.Date) (bs []*model.RoomBooking, err error) {
	defer r.observe("room_bookings.find_for_room", time.Now(), &err)

	query := `
		SELECT * FROM room_bookings
		WHERE room_id = $1 AND date = $2
		ORDER BY start_time
	`
	if err := r.db.SelectContext(ctx, &bs, query, roomID, date); err != nil {
		return nil, fmt.Errorf("failed to find room bookings: %w", err)
	}
	return bs, nil
}

func (r *roomBookingRepository) FindForPsychologist(ctx context.Context, psychologistID int64, from, to model.Date) (bs []*model.RoomBooking, err error) {
	defer r.observe("room_bookings.find_for_psychologist", time.Now(), &err)

	query := `
		SELECT * FROM room_bookings
		WHERE psychologist_id = $1
		AND date BETWEEN $2 AND $3
		ORDER BY date, start_time
	`
	if err := r.db.SelectContext(ctx, &bs, query, psychologistID, from, to); err != nil {
		return nil, fmt.Errorf("failed to find psychologist bookings: %w", err)
	}
	return bs, nil
}
