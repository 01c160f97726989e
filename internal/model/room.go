package model

import "time"

type Room struct {
	Base
	Name               string `json:"name" db:"name"`
	Capacity           int    `json:"capacity" db:"capacity"`
	HasWifi            bool   `json:"hasWifi" db:"has_wifi"`
	HasAirConditioning bool   `json:"hasAirConditioning" db:"has_air_conditioning"`
	SquareMeters       int    `json:"squareMeters" db:"square_meters"`
}

type NewRoom struct {
	Name               string `json:"name" validate:"required,max=100"`
	Capacity           int    `json:"capacity" validate:"gt=0"`
	HasWifi            bool   `json:"hasWifi"`
	HasAirConditioning bool   `json:"hasAirConditioning"`
	SquareMeters       int    `json:"squareMeters" validate:"gte=0"`
}

func (n NewRoom) Build(now time.Time) *Room {
	return &Room{
		Base:               Base{CreatedAt: Stamp(now)},
		Name:               n.Name,
		Capacity:           n.Capacity,
		HasWifi:            n.HasWifi,
		HasAirConditioning: n.HasAirConditioning,
		SquareMeters:       n.SquareMeters,
	}
}

// SlotKind tells agenda entries apart.
type SlotKind string

const (
	SlotAppointment SlotKind = "appointment"
	SlotBooking     SlotKind = "booking"
)

// AgendaEntry is one occupied slot of a room on a given day.
type AgendaEntry struct {
	Kind           SlotKind  `json:"kind"`
	ID             int64     `json:"id"`
	PsychologistID int64     `json:"psychologistId"`
	Range          TimeRange `json:"range"`
	Label          string    `json:"label"`
}
