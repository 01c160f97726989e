package model

import "time"

type RoomBooking struct {
	Base
	RoomID         int64     `json:"roomId" db:"room_id"`
	PsychologistID int64     `json:"psychologistId" db:"psychologist_id"`
	Date           Date      `json:"date" db:"date"`
	StartTime      TimeOfDay `json:"startTime" db:"start_time"`
	EndTime        TimeOfDay `json:"endTime" db:"end_time"`
	Purpose        string    `json:"purpose" db:"purpose"`
}

func (b *RoomBooking) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}

type NewRoomBooking struct {
	RoomID         int64     `json:"roomId" validate:"required,gt=0"`
	PsychologistID int64     `json:"psychologistId" validate:"required,gt=0"`
	Date           Date      `json:"date" validate:"required"`
	StartTime      TimeOfDay `json:"startTime" validate:"required"`
	EndTime        TimeOfDay `json:"endTime" validate:"required"`
	Purpose        string    `json:"purpose" validate:"required,max=255"`
}

func (n NewRoomBooking) Check() error {
	return checkRange(n.StartTime, n.EndTime)
}

func (n NewRoomBooking) Build(now time.Time) *RoomBooking {
	return &RoomBooking{
		Base:           Base{CreatedAt: Stamp(now)},
		RoomID:         n.RoomID,
		PsychologistID: n.PsychologistID,
		Date:           n.Date,
		StartTime:      n.StartTime,
		EndTime:        n.EndTime,
		Purpose:        n.Purpose,
	}
}
