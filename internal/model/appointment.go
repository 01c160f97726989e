package model

import (
	"time"

	"github.com/jwalitptl/practice-api/pkg/errors"
)

type Appointment struct {
	Base
	PatientName    string            `json:"patientName" db:"patient_name"`
	PsychologistID int64             `json:"psychologistId" db:"psychologist_id"`
	RoomID         int64             `json:"roomId" db:"room_id"`
	Date           Date              `json:"date" db:"date"`
	StartTime      TimeOfDay         `json:"startTime" db:"start_time"`
	EndTime        TimeOfDay         `json:"endTime" db:"end_time"`
	Status         AppointmentStatus `json:"status" db:"status"`
	Notes          *string           `json:"notes,omitempty" db:"notes"`
	UpdatedAt      time.Time         `json:"updatedAt" db:"updated_at"`
}

func (a *Appointment) Range() TimeRange {
	return TimeRange{Start: a.StartTime, End: a.EndTime}
}

type NewAppointment struct {
	PatientName    string            `json:"patientName" validate:"required,max=255"`
	PsychologistID int64             `json:"psychologistId" validate:"required,gt=0"`
	RoomID         int64             `json:"roomId" validate:"required,gt=0"`
	Date           Date              `json:"date" validate:"required"`
	StartTime      TimeOfDay         `json:"startTime" validate:"required"`
	EndTime        TimeOfDay         `json:"endTime" validate:"required"`
	Status         AppointmentStatus `json:"status,omitempty" validate:"omitempty,appointmentstatus"`
	Notes          *string           `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

func (n NewAppointment) Check() error {
	return checkRange(n.StartTime, n.EndTime)
}

func (n NewAppointment) Build(now time.Time) *Appointment {
	now = Stamp(now)
	a := &Appointment{
		Base:           Base{CreatedAt: now},
		PatientName:    n.PatientName,
		PsychologistID: n.PsychologistID,
		RoomID:         n.RoomID,
		Date:           n.Date,
		StartTime:      n.StartTime,
		EndTime:        n.EndTime,
		Status:         n.Status,
		Notes:          n.Notes,
		UpdatedAt:      now,
	}
	if a.Status == "" {
		a.Status = AppointmentStatusScheduled
	}
	return a
}

// AppointmentFilter selects appointments in an inclusive date window.
type AppointmentFilter struct {
	PsychologistID int64
	RoomID         int64
	From           Date
	To             Date
	Status         AppointmentStatus
}

func checkRange(start, end TimeOfDay) error {
	if !end.After(start) {
		return errors.Validation("invalid input: endTime", nil).
			WithDetail("endTime", "must be after startTime")
	}
	return nil
}
