package model

import "time"

type Patient struct {
	Base
	FullName  string    `json:"fullName" db:"full_name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	BirthDate *Date     `json:"birthDate,omitempty" db:"birth_date"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy int64     `json:"createdBy" db:"created_by"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type NewPatient struct {
	FullName  string  `json:"fullName" validate:"required,max=255"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	BirthDate *Date   `json:"birthDate,omitempty"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
	CreatedBy int64   `json:"createdBy" validate:"required,gt=0"`
}

func (n NewPatient) Build(now time.Time) *Patient {
	now = Stamp(now)
	return &Patient{
		Base:      Base{CreatedAt: now},
		FullName:  n.FullName,
		Email:     n.Email,
		Phone:     n.Phone,
		BirthDate: n.BirthDate,
		Notes:     n.Notes,
		CreatedBy: n.CreatedBy,
		UpdatedAt: now,
	}
}
