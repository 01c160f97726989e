package model

import "time"

// GoogleToken holds a user's calendar credentials. Tokens are sealed before storage.
type GoogleToken struct {
	Base
	UserID       int64     `json:"userId" db:"user_id"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	ExpiryDate   time.Time `json:"expiryDate" db:"expiry_date"`
	CalendarID   string    `json:"calendarId" db:"calendar_id"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// NeedsRefresh reports whether the access token expires within skew of now.
func (t *GoogleToken) NeedsRefresh(now time.Time, skew time.Duration) bool {
	return !now.Add(skew).Before(t.ExpiryDate)
}

type NewGoogleToken struct {
	UserID       int64     `json:"userId" validate:"required,gt=0"`
	AccessToken  string    `json:"accessToken" validate:"required"`
	RefreshToken string    `json:"refreshToken" validate:"required"`
	ExpiryDate   time.Time `json:"expiryDate" validate:"required"`
	CalendarID   string    `json:"calendarId,omitempty" validate:"omitempty,max=255"`
}

const DefaultCalendarID = "primary"

func (n NewGoogleToken) Build(now time.Time) *GoogleToken {
	now = Stamp(now)
	t := &GoogleToken{
		Base:         Base{CreatedAt: now},
		UserID:       n.UserID,
		AccessToken:  n.AccessToken,
		RefreshToken: n.RefreshToken,
		ExpiryDate:   Stamp(n.ExpiryDate),
		CalendarID:   n.CalendarID,
		UpdatedAt:    now,
	}
	if t.CalendarID == "" {
		t.CalendarID = DefaultCalendarID
	}
	return t
}

// CalendarEvent maps an appointment to an event in a user's Google calendar.
type CalendarEvent struct {
	Base
	AppointmentID int64     `json:"appointmentId" db:"appointment_id"`
	GoogleEventID string    `json:"googleEventId" db:"google_event_id"`
	UserID        int64     `json:"userId" db:"user_id"`
	LastSynced    time.Time `json:"lastSynced" db:"last_synced"`
}

// Stale reports whether the event has not been synced since cutoff.
func (e *CalendarEvent) Stale(cutoff time.Time) bool {
	return e.LastSynced.Before(cutoff)
}

type NewCalendarEvent struct {
	AppointmentID int64  `json:"appointmentId" validate:"required,gt=0"`
	GoogleEventID string `json:"googleEventId" validate:"required,max=1024"`
	UserID        int64  `json:"userId" validate:"required,gt=0"`
}

func (n NewCalendarEvent) Build(now time.Time) *CalendarEvent {
	now = Stamp(now)
	return &CalendarEvent{
		Base:          Base{CreatedAt: now},
		AppointmentID: n.AppointmentID,
		GoogleEventID: n.GoogleEventID,
		UserID:        n.UserID,
		LastSynced:    now,
	}
}

// PasswordResetToken is single use. It is active while unused and unexpired;
// consumed and expired are both terminal.
type PasswordResetToken struct {
	Base
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Used      bool      `json:"used" db:"used"`
}

// Usable reports whether the token may still be redeemed at now.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return !t.Used && !now.After(t.ExpiresAt)
}

type NewPasswordResetToken struct {
	UserID    int64     `json:"userId" validate:"required,gt=0"`
	Token     string    `json:"token" validate:"required,min=32,max=255"`
	ExpiresAt time.Time `json:"expiresAt" validate:"required"`
}

func (n NewPasswordResetToken) Build(now time.Time) *PasswordResetToken {
	return &PasswordResetToken{
		Base:      Base{CreatedAt: Stamp(now)},
		UserID:    n.UserID,
		Token:     n.Token,
		ExpiresAt: Stamp(n.ExpiresAt),
		Used:      false,
	}
}
