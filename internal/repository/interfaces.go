package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/practice-api/internal/model"
)

// All repository interfaces in one file. Create methods fill in the server-assigned
// fields (id, defaults) of the entity they are given.
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
		List(ctx context.Context, filter model.UserFilter) ([]*model.User, error)
		UpdateStatus(ctx context.Context, id int64, status model.UserStatus, now time.Time) error
		UpdatePassword(ctx context.Context, id int64, passwordHash string, now time.Time) error
		LinkGoogleID(ctx context.Context, id int64, googleID string, now time.Time) error
		Delete(ctx context.Context, id int64) error
		Count(ctx context.Context) (int64, error)
	}

	PsychologistRepository interface {
		Create(ctx context.Context, p *model.Psychologist) error
		Get(ctx context.Context, id int64) (*model.Psychologist, error)
		GetByUserID(ctx context.Context, userID int64) (*model.Psychologist, error)
		List(ctx context.Context, page model.Pagination) ([]*model.Psychologist, error)
		UpdateRate(ctx context.Context, id int64, rate decimal.Decimal, now time.Time) error
		Delete(ctx context.Context, id int64) error
	}

	RoomRepository interface {
		Create(ctx context.Context, room *model.Room) error
		Get(ctx context.Context, id int64) (*model.Room, error)
		List(ctx context.Context) ([]*model.Room, error)
		Delete(ctx context.Context, id int64) error
	}

	// AppointmentRepository rejects overlapping appointments with an ErrConflict.
	AppointmentRepository interface {
		Create(ctx context.Context, a *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		// UpdateStatus moves an appointment from one status to another. It fails with
		// ErrConflict when the stored status is no longer from.
		UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus, now time.Time) (*model.Appointment, error)
		Delete(ctx context.Context, id int64) error
		FindForPsychologist(ctx context.Context, psychologistID int64, from, to model.Date) ([]*model.Appointment, error)
		FindForRoom(ctx context.Context, roomID int64, date model.Date) ([]*model.Appointment, error)
	}

	RoomBookingRepository interface {
		Create(ctx context.Context, b *model.RoomBooking) error
		Get(ctx context.Context, id int64) (*model.RoomBooking, error)
		Delete(ctx context.Context, id int64) error
		FindForRoom(ctx context.Context, roomID int64, date model.Date) ([]*model.RoomBooking, error)
		FindForPsychologist(ctx context.Context, psychologistID int64, from, to model.Date) ([]*model.RoomBooking, error)
	}

	TransactionRepository interface {
		Create(ctx context.Context, t *model.Transaction) error
		Get(ctx context.Context, id int64) (*model.Transaction, error)
		List(ctx context.Context, filter model.TransactionFilter) ([]*model.Transaction, error)
		FindForAppointment(ctx context.Context, appointmentID int64) ([]*model.Transaction, error)
		Totals(ctx context.Context, filter model.TransactionFilter) (model.Totals, error)
		Delete(ctx context.Context, id int64) error
	}

	InvoiceRepository interface {
		Create(ctx context.Context, inv *model.Invoice) error
		Get(ctx context.Context, id int64) (*model.Invoice, error)
		FindForUser(ctx context.Context, userID int64) ([]*model.Invoice, error)
		UpdateStatus(ctx context.Context, id int64, status model.InvoiceStatus, now time.Time) error
		Delete(ctx context.Context, id int64) error
	}

	PermissionRepository interface {
		CreatePermission(ctx context.Context, p *model.Permission) error
		GetPermissionByName(ctx context.Context, name string) (*model.Permission, error)
		ListPermissions(ctx context.Context) ([]*model.Permission, error)
		DeletePermission(ctx context.Context, id int64) error
		// GrantToRole is idempotent; granting twice leaves one row.
		GrantToRole(ctx context.Context, rp *model.RolePermission) error
		RevokeFromRole(ctx context.Context, role model.Role, permissionID int64) error
		PermissionsForRole(ctx context.Context, role model.Role) ([]*model.Permission, error)
	}

	GoogleTokenRepository interface {
		// Upsert keeps one token row per user.
		Upsert(ctx context.Context, t *model.GoogleToken) error
		GetForUser(ctx context.Context, userID int64) (*model.GoogleToken, error)
		DeleteForUser(ctx context.Context, userID int64) error
		ListExpiring(ctx context.Context, before time.Time) ([]*model.GoogleToken, error)
	}

	CalendarEventRepository interface {
		// Link is idempotent for the same appointment and Google event. It reports
		// whether a row was inserted and fails with ErrConflict when the Google
		// event is already linked to another appointment.
		Link(ctx context.Context, e *model.CalendarEvent) (bool, error)
		FindForAppointment(ctx context.Context, appointmentID int64) ([]*model.CalendarEvent, error)
		GetByGoogleEventID(ctx context.Context, googleEventID string) (*model.CalendarEvent, error)
		MarkSynced(ctx context.Context, id int64, at time.Time) error
		ListStale(ctx context.Context, before time.Time) ([]*model.CalendarEvent, error)
		Delete(ctx context.Context, id int64) error
	}

	PasswordResetTokenRepository interface {
		Create(ctx context.Context, t *model.PasswordResetToken) error
		// Consume marks an active token used and returns its user. Unknown, used and
		// expired tokens all fail with ErrInvalidToken.
		Consume(ctx context.Context, token string, now time.Time) (int64, error)
		// Redeem is Consume plus a password update in the same transaction.
		Redeem(ctx context.Context, token string, now time.Time, passwordHash string) (int64, error)
		DeleteInactive(ctx context.Context, before time.Time) (int64, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, p *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		List(ctx context.Context, page model.Pagination) ([]*model.Patient, error)
		Delete(ctx context.Context, id int64) error
	}
)

// Repositories bundles every repository over one database.
type Repositories struct {
	Users          UserRepository
	Psychologists  PsychologistRepository
	Rooms          RoomRepository
	Appointments   AppointmentRepository
	RoomBookings   RoomBookingRepository
	Transactions   TransactionRepository
	Invoices       InvoiceRepository
	Permissions    PermissionRepository
	GoogleTokens   GoogleTokenRepository
	CalendarEvents CalendarEventRepository
	ResetTokens    PasswordResetTokenRepository
	Patients       PatientRepository
}
