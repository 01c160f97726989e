package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/pkg/metrics"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

// NewBaseRepository creates a new base repository. m may be nil.
func NewBaseRepository(db *sqlx.DB, m *metrics.Metrics) BaseRepository {
	return BaseRepository{db: db, metrics: m}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translate("transaction", err))
	}
	return nil
}

// observe records the outcome of one repository call. Use as
// defer r.observe("users.create", time.Now(), &err).
func (r *BaseRepository) observe(operation string, start time.Time, err *error) {
	r.metrics.ObserveDB(operation, start, *err)
}

// sqlxExecer is satisfied by both *sqlx.DB and *sqlx.Tx.
type sqlxExecer = sqlx.ExecerContext

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db sqlxExecer, resource, query string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(resource, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound(resource)
	}
	return nil
}

// NewRepositories wires every repository over db.
func NewRepositories(db *sqlx.DB, m *metrics.Metrics) *repository.Repositories {
	base := NewBaseRepository(db, m)
	return &repository.Repositories{
		Users:          NewUserRepository(base),
		Psychologists:  NewPsychologistRepository(base),
		Rooms:          NewRoomRepository(base),
		Appointments:   NewAppointmentRepository(base),
		RoomBookings:   NewRoomBookingRepository(base),
		Transactions:   NewTransactionRepository(base),
		Invoices:       NewInvoiceRepository(base),
		Permissions:    NewPermissionRepository(base),
		GoogleTokens:   NewGoogleTokenRepository(base),
		CalendarEvents: NewCalendarEventRepository(base),
		ResetTokens:    NewPasswordResetTokenRepository(base),
		Patients:       NewPatientRepository(base),
	}
}
