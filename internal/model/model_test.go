package model

import (
	"database/sql/driver"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-api/pkg/errors"
)

func TestRole(t *testing.T) {
	r, err := ParseRole("psychologist")
	require.NoError(t, err)
	assert.Equal(t, RolePsychologist, r)

	_, err = ParseRole("doctor")
	assert.True(t, errors.IsCode(err, errors.ErrValidation))

	var scanned Role
	require.NoError(t, scanned.Scan([]byte("admin")))
	assert.Equal(t, RoleAdmin, scanned)
	assert.Error(t, scanned.Scan("superuser"))
	assert.Error(t, scanned.Scan(nil))

	_, err = Role("root").Value()
	assert.Error(t, err)

	var decoded struct {
		Role Role `json:"role"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"role":"root"}`), &decoded))
	require.NoError(t, json.Unmarshal([]byte(`{"role":"receptionist"}`), &decoded))
	assert.Equal(t, RoleReceptionist, decoded.Role)
}

func TestAppointmentStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed, true},
		{AppointmentStatusScheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusPendingConfirmation, AppointmentStatusConfirmed, true},
		{AppointmentStatusPendingConfirmation, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusScheduled, false},
		{AppointmentStatusConfirmed, AppointmentStatusCanceled, true},
		{AppointmentStatusCanceled, AppointmentStatusScheduled, false},
		{AppointmentStatusCompleted, AppointmentStatusCanceled, false},
		{AppointmentStatusScheduled, AppointmentStatusScheduled, false},
		{AppointmentStatusScheduled, AppointmentStatus("moved"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}

	s, err := ParseAppointmentStatus("pending-confirmation")
	require.NoError(t, err)
	assert.True(t, s.Occupies())
	assert.False(t, AppointmentStatusCanceled.Occupies())
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", d.String())
	assert.Equal(t, NewDate(2025, time.June, 2), d.AddDays(1))

	_, err = ParseDate("01/06/2025")
	assert.True(t, errors.IsCode(err, errors.ErrValidation))

	var scanned Date
	require.NoError(t, scanned.Scan(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, scanned.Equal(d))
	require.NoError(t, scanned.Scan([]byte("2025-06-01T00:00:00Z")))
	assert.True(t, scanned.Equal(d))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, driver.Value("2025-06-01"), v)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-06-01"`, string(out))
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"09:00", "09:00:00", true},
		{"23:59:59", "23:59:59", true},
		{"10:30:00.000000", "10:30:00", true},
		{"24:00", "", false},
		{"9:00", "", false},
		{"09:60", "", false},
		{"noon", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if !tt.ok {
				assert.True(t, errors.IsCode(err, errors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	var scanned TimeOfDay
	require.NoError(t, scanned.Scan([]byte("09:30:00")))
	assert.Equal(t, NewTimeOfDay(9, 30, 0), scanned)
	assert.Equal(t, 9*3600+30*60, scanned.Seconds())
}

func TestTimeRange_Overlaps(t *testing.T) {
	r := func(start, end string) TimeRange {
		s, err := ParseTimeOfDay(start)
		require.NoError(t, err)
		e, err := ParseTimeOfDay(end)
		require.NoError(t, err)
		return TimeRange{Start: s, End: e}
	}

	base := r("09:00", "10:00")
	assert.True(t, base.Overlaps(r("09:30", "10:30")))
	assert.True(t, base.Overlaps(r("08:00", "11:00")))
	assert.True(t, base.Overlaps(r("09:15", "09:45")))
	assert.False(t, base.Overlaps(r("10:00", "11:00")), "adjacent ranges do not overlap")
	assert.False(t, base.Overlaps(r("08:00", "09:00")))
	assert.Equal(t, time.Hour, base.Duration())
	assert.True(t, base.Valid())
	assert.False(t, r("10:00", "09:00").Valid())
}

func TestDecode_HourlyRateNumberOrString(t *testing.T) {
	var fromString, fromNumber NewPsychologist
	require.NoError(t, DecodeBytes([]byte(`{"userId":1,"specialization":"CBT","hourlyRate":"150.00"}`), &fromString))
	require.NoError(t, DecodeBytes([]byte(`{"userId":1,"specialization":"CBT","hourlyRate":150}`), &fromNumber))

	now := time.Now()
	a, b := fromString.Build(now), fromNumber.Build(now)
	assert.True(t, a.HourlyRate.Equal(b.HourlyRate))
	assert.True(t, a.HourlyRate.Equal(decimal.NewFromInt(150)))
}

func TestMoneyBounds(t *testing.T) {
	for _, in := range []string{"1e400000000", "-1e400000000", "1e-400000000", "1234567890123456789012345678901"} {
		d := decimal.RequireFromString(in)
		assert.False(t, FitsMoney(d), in)
		assert.True(t, NormalizeAmount(d).Equal(d), in)

		_, err := ParseAmount(in)
		assert.True(t, errors.IsCode(err, errors.ErrValidation), in)
	}

	assert.True(t, FitsMoney(decimal.RequireFromString("99999999.99")))
	assert.False(t, FitsMoney(decimal.RequireFromString("100000000")))
	assert.Equal(t, "150.5", NormalizeAmount(decimal.RequireFromString("150.499")).String())
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		dst    interface{}
		detail string
	}{
		{"malformed amount", `{"userId":1,"specialization":"CBT","hourlyRate":"15O.00"}`, &NewPsychologist{}, ""},
		{"negative rate", `{"userId":1,"specialization":"CBT","hourlyRate":"-1"}`, &NewPsychologist{}, "hourlyRate"},
		{"huge exponent rate", `{"userId":1,"specialization":"CBT","hourlyRate":"1e400000000"}`, &NewPsychologist{}, "hourlyRate"},
		{"tiny exponent amount", `{"description":"x","amount":"1e-400000000","type":"income","category":"c","date":"2025-06-01","responsibleId":1}`, &NewTransaction{}, "amount"},
		{"huge exponent number", `{"description":"x","amount":1e400000000,"type":"expense","category":"c","date":"2025-06-01","responsibleId":1}`, &NewTransaction{}, "amount"},
		{"server field", `{"id":7,"name":"Sala 1","capacity":2}`, &NewRoom{}, ""},
		{"zero capacity", `{"name":"Sala 1","capacity":0}`, &NewRoom{}, "capacity"},
		{"bad month", `{"userId":1,"referenceMonth":"2025-13","filePath":"a","originalFilename":"a.pdf","mimeType":"application/pdf","fileSize":1}`, &NewInvoice{}, "referenceMonth"},
		{"negative size", `{"userId":1,"referenceMonth":"2025-12","filePath":"a","originalFilename":"a.pdf","mimeType":"application/pdf","fileSize":-1}`, &NewInvoice{}, "fileSize"},
		{"bad role", `{"username":"ana","email":"ana@example.com","fullName":"Ana","role":"root"}`, &NewUser{}, ""},
		{"bad email", `{"username":"ana","email":"ana","fullName":"Ana"}`, &NewUser{}, "email"},
		{"zero amount", `{"description":"x","amount":"0","type":"income","category":"c","date":"2025-06-01","responsibleId":1}`, &NewTransaction{}, "amount"},
		{"missing date", `{"patientName":"P","psychologistId":1,"roomId":1,"startTime":"09:00","endTime":"10:00"}`, &NewAppointment{}, "date"},
		{"end before start", `{"patientName":"P","psychologistId":1,"roomId":1,"date":"2025-06-01","startTime":"10:00","endTime":"09:00"}`, &NewAppointment{}, "endTime"},
		{"empty range", `{"roomId":1,"psychologistId":1,"date":"2025-06-01","startTime":"10:00","endTime":"10:00","purpose":"x"}`, &NewRoomBooking{}, "endTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecodeBytes([]byte(tt.input), tt.dst)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrValidation), "got %v", err)
			if tt.detail != "" {
				var appErr *errors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Contains(t, appErr.Details, tt.detail)
			}
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.FixedZone("BRT", -3*3600))
	stamped := Stamp(now)
	assert.Equal(t, time.UTC, stamped.Location())
	assert.Equal(t, 123456000, stamped.Nanosecond())

	u := NewUser{Username: "ana", Email: "ana@example.com", FullName: "Ana"}.Build(now)
	assert.Equal(t, RoleReceptionist, u.Role)
	assert.Equal(t, UserStatusActive, u.Status)
	assert.Equal(t, stamped, u.CreatedAt)
	assert.Equal(t, stamped, u.UpdatedAt)
	assert.Zero(t, u.ID)
	assert.False(t, u.HasPassword())

	a := NewAppointment{PatientName: "P"}.Build(now)
	assert.Equal(t, AppointmentStatusScheduled, a.Status)

	inv := NewInvoice{UserID: 1}.Build(now)
	assert.Equal(t, InvoiceStatusPending, inv.Status)

	tok := NewGoogleToken{UserID: 1}.Build(now)
	assert.Equal(t, DefaultCalendarID, tok.CalendarID)

	ev := NewCalendarEvent{AppointmentID: 1, GoogleEventID: "evt", UserID: 1}.Build(now)
	assert.Equal(t, stamped, ev.LastSynced)

	tx := NewTransaction{Amount: decimal.RequireFromString("10.005"), Type: TransactionExpense}.Build(now)
	assert.Equal(t, "10.01", tx.Amount.StringFixed(2))
	assert.True(t, tx.Signed().Equal(decimal.RequireFromString("-10.01")))
}

func TestPasswordResetToken_Usable(t *testing.T) {
	now := time.Now()
	tok := &PasswordResetToken{ExpiresAt: now.Add(time.Hour)}

	assert.True(t, tok.Usable(now))
	assert.True(t, tok.Usable(tok.ExpiresAt), "expiry instant is still usable")
	assert.False(t, tok.Usable(tok.ExpiresAt.Add(time.Nanosecond)))

	tok.Used = true
	assert.False(t, tok.Usable(now))
}

func TestGoogleToken_NeedsRefresh(t *testing.T) {
	now := time.Now()
	tok := &GoogleToken{ExpiryDate: now.Add(10 * time.Minute)}

	assert.False(t, tok.NeedsRefresh(now, 5*time.Minute))
	assert.True(t, tok.NeedsRefresh(now, 10*time.Minute))
	assert.True(t, tok.NeedsRefresh(now.Add(time.Hour), 0))
}

func TestNaming(t *testing.T) {
	pairs := map[string]string{
		"fullName":             "full_name",
		"hasAirConditioning":   "has_air_conditioning",
		"relatedAppointmentId": "related_appointment_id",
		"id":                   "id",
	}
	for camel, snake := range pairs {
		assert.Equal(t, snake, SnakeCase(camel))
		assert.Equal(t, camel, CamelCase(snake))
	}
}

func TestEntityTagsFollowNaming(t *testing.T) {
	entities := []interface{}{
		User{}, Psychologist{}, Room{}, Appointment{}, RoomBooking{}, Transaction{},
		Invoice{}, Permission{}, RolePermission{}, GoogleToken{}, CalendarEvent{},
		PasswordResetToken{}, Patient{},
	}

	for _, e := range entities {
		typ := reflect.TypeOf(e)
		t.Run(typ.Name(), func(t *testing.T) {
			for _, f := range fields(typ) {
				column := f.Tag.Get("db")
				require.NotEmpty(t, column, "field %s has no column", f.Name)
				name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					continue
				}
				assert.Equal(t, name, CamelCase(column), "field %s", f.Name)
				assert.Equal(t, column, SnakeCase(name), "field %s", f.Name)
			}
		})
	}
}

func fields(typ reflect.Type) []reflect.StructField {
	var out []reflect.StructField
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous {
			out = append(out, fields(f.Type)...)
			continue
		}
		out = append(out, f)
	}
	return out
}
