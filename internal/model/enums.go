package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/practice-api/pkg/errors"
)

// Role is the authorization tier of a user. Roles are tags, not rows.
type Role string

const (
	RoleAdmin        Role = "admin"
	RolePsychologist Role = "psychologist"
	RoleReceptionist Role = "receptionist"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleAdmin, RolePsychologist, RoleReceptionist}

func ParseRole(s string) (Role, error) {
	return parseVariant("role", s, Role.Valid)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePsychologist, RoleReceptionist:
		return true
	}
	return false
}

func (r Role) Value() (driver.Value, error)  { return variantValue("role", r, r.Valid()) }
func (r *Role) Scan(src interface{}) error   { return scanVariant("role", src, r, Role.Valid) }
func (r *Role) UnmarshalJSON(b []byte) error { return unmarshalVariant("role", b, r, Role.Valid) }

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusPending  UserStatus = "pending"
)

func ParseUserStatus(s string) (UserStatus, error) {
	return parseVariant("user status", s, UserStatus.Valid)
}

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusPending:
		return true
	}
	return false
}

func (s UserStatus) Value() (driver.Value, error) { return variantValue("user status", s, s.Valid()) }
func (s *UserStatus) Scan(src interface{}) error {
	return scanVariant("user status", src, s, UserStatus.Valid)
}
func (s *UserStatus) UnmarshalJSON(b []byte) error {
	return unmarshalVariant("user status", b, s, UserStatus.Valid)
}

type AppointmentStatus string

const (
	AppointmentStatusScheduled           AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed           AppointmentStatus = "confirmed"
	AppointmentStatusCanceled            AppointmentStatus = "canceled"
	AppointmentStatusCompleted           AppointmentStatus = "completed"
	AppointmentStatusPendingConfirmation AppointmentStatus = "pending-confirmation"
)

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	return parseVariant("appointment status", s, AppointmentStatus.Valid)
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCanceled,
		AppointmentStatusCompleted, AppointmentStatusPendingConfirmation:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentStatusCanceled, AppointmentStatusCompleted:
		return true
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusPendingConfirmation:
		return false
	}
	return false
}

// Occupies reports whether an appointment in this status holds its room and psychologist.
func (s AppointmentStatus) Occupies() bool {
	return s != AppointmentStatusCanceled
}

// CanTransition reports whether an appointment may move from s to next.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	if s == next || s.Terminal() || !next.Valid() {
		return false
	}
	switch s {
	case AppointmentStatusPendingConfirmation:
		return next == AppointmentStatusScheduled || next == AppointmentStatusConfirmed || next == AppointmentStatusCanceled
	case AppointmentStatusScheduled:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCanceled ||
			next == AppointmentStatusCompleted || next == AppointmentStatusPendingConfirmation
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCanceled || next == AppointmentStatusCompleted
	}
	return false
}

func (s AppointmentStatus) Value() (driver.Value, error) {
	return variantValue("appointment status", s, s.Valid())
}
func (s *AppointmentStatus) Scan(src interface{}) error {
	return scanVariant("appointment status", src, s, AppointmentStatus.Valid)
}
func (s *AppointmentStatus) UnmarshalJSON(b []byte) error {
	return unmarshalVariant("appointment status", b, s, AppointmentStatus.Valid)
}

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func ParseTransactionType(s string) (TransactionType, error) {
	return parseVariant("transaction type", s, TransactionType.Valid)
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIncome, TransactionExpense:
		return true
	}
	return false
}

func (t TransactionType) Value() (driver.Value, error) {
	return variantValue("transaction type", t, t.Valid())
}
func (t *TransactionType) Scan(src interface{}) error {
	return scanVariant("transaction type", src, t, TransactionType.Valid)
}
func (t *TransactionType) UnmarshalJSON(b []byte) error {
	return unmarshalVariant("transaction type", b, t, TransactionType.Valid)
}

// InvoiceStatus values are stored in Portuguese, as the files are submitted by staff.
type InvoiceStatus string

const (
	InvoiceStatusSent     InvoiceStatus = "enviada"
	InvoiceStatusPending  InvoiceStatus = "pendente"
	InvoiceStatusApproved InvoiceStatus = "aprovada"
)

func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	return parseVariant("invoice status", s, InvoiceStatus.Valid)
}

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusPending, InvoiceStatusApproved:
		return true
	}
	return false
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return variantValue("invoice status", s, s.Valid())
}
func (s *InvoiceStatus) Scan(src interface{}) error {
	return scanVariant("invoice status", src, s, InvoiceStatus.Valid)
}
func (s *InvoiceStatus) UnmarshalJSON(b []byte) error {
	return unmarshalVariant("invoice status", b, s, InvoiceStatus.Valid)
}

func parseVariant[T ~string](kind, s string, valid func(T) bool) (T, error) {
	v := T(s)
	if !valid(v) {
		return "", errors.Validation(fmt.Sprintf("invalid %s %q", kind, s), nil)
	}
	return v, nil
}

func variantValue[T ~string](kind string, v T, ok bool) (driver.Value, error) {
	if !ok {
		return nil, fmt.Errorf("refusing to store invalid %s %q", kind, string(v))
	}
	return string(v), nil
}

func scanVariant[T ~string](kind string, src interface{}, dst *T, valid func(T) bool) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into %s", src, kind)
	}
	parsed, err := parseVariant(kind, s, valid)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

func unmarshalVariant[T ~string](kind string, b []byte, dst *T, valid func(T) bool) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Validation(fmt.Sprintf("%s must be a string", kind), err)
	}
	parsed, err := parseVariant(kind, s, valid)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}
