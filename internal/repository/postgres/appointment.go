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

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, a *model.Appointment) (err error) {
	defer r.observe("appointments.create", time.Now(), &err)

	query := `
		INSERT INTO appointments (
			patient_name, psychologist_id, room_id, date, start_time,
			end_time, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if a.Status.Occupies() {
			if err := reserve(ctx, tx, "appointment", slot{
				roomID:         a.RoomID,
				psychologistID: a.PsychologistID,
				date:           a.Date,
				start:          a.StartTime,
				end:            a.EndTime,
			}); err != nil {
				return err
			}
		}

		return tx.GetContext(ctx, &a.ID, query,
			a.PatientName,
			a.PsychologistID,
			a.RoomID,
			a.Date,
			a.StartTime,
			a.EndTime,
			a.Status,
			a.Notes,
			a.CreatedAt,
			a.UpdatedAt,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", translate("appointment", err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (a *model.Appointment, err error) {
	defer r.observe("appointments.get", time.Now(), &err)

	var out model.Appointment
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM appointments WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", translate("appointment", err))
	}
	return &out, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus, now time.Time) (a *model.Appointment, err error) {
	defer r.observe("appointments.update_status", time.Now(), &err)

	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING *
	`

	var out model.Appointment
	err = r.db.GetContext(ctx, &out, query, to, now, id, from)
	if stderrors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, errors.Conflict(fmt.Sprintf("appointment %d is no longer %s", id, from))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", translate("appointment", err))
	}
	return &out, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("appointments.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "appointment", `DELETE FROM appointments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) FindForPsychologist(ctx context.Context, psychologistID int64, from, to model.Date) (as []*model.Appointment, err error) {
	defer r.observe("appointments.find_for_psychologist", time.Now(), &err)

	query := `
		SELECT * FROM appointments
		WHERE psychologist_id = $1
		AND date BETWEEN $2 AND $3
		ORDER BY date, start_time
	`
	if err := r.db.SelectContext(ctx, &as, query, psychologistID, from, to); err != nil {
		return nil, fmt.Errorf("failed to find psychologist appointments: %w", err)
	}
	return as, nil
}

func (r *appointmentRepository) FindForRoom(ctx context.Context, roomID int64, date model.Date) (as []*model.Appointment, err error) {
	defer r.observe("appointments.find_for_room", time.Now(), &err)

	query := `
		SELECT * FROM appointments
		WHERE room_id = $1 AND date = $2
		ORDER BY start_time
	`
	if err := r.db.SelectContext(ctx, &as, query, roomID, date); err != nil {
		return nil, fmt.Errorf("failed to find room appointments: %w", err)
	}
	return as, nil
}
