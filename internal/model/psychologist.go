package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Psychologist struct {
	Base
	UserID         int64           `json:"userId" db:"user_id"`
	Specialization string          `json:"specialization" db:"specialization"`
	Bio            *string         `json:"bio,omitempty" db:"bio"`
	HourlyRate     decimal.Decimal `json:"hourlyRate" db:"hourly_rate"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// NewPsychologist is the insertable subset of Psychologist. HourlyRate accepts
// either 150 or "150.00" on input.
type NewPsychologist struct {
	UserID         int64           `json:"userId" validate:"required,gt=0"`
	Specialization string          `json:"specialization" validate:"required,max=255"`
	Bio            *string         `json:"bio,omitempty" validate:"omitempty,max=5000"`
	HourlyRate     decimal.Decimal `json:"hourlyRate" validate:"gte=0,lt=100000000"`
}

func (n NewPsychologist) Build(now time.Time) *Psychologist {
	now = Stamp(now)
	return &Psychologist{
		Base:           Base{CreatedAt: now},
		UserID:         n.UserID,
		Specialization: n.Specialization,
		Bio:            n.Bio,
		HourlyRate:     NormalizeAmount(n.HourlyRate),
		UpdatedAt:      now,
	}
}
