package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/practice-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// Date is a calendar day with no time zone, stored as DATE.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, errors.Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s), err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	}
	return fmt.Errorf("cannot scan %T into date", src)
}

func (d *Date) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Validation("date must be a string", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time with second precision, stored as TIME.
type TimeOfDay struct {
	sec   int
	valid bool
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{sec: hour*3600 + minute*60 + second, valid: true}
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS. Fractional seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	invalid := errors.Validation(fmt.Sprintf("invalid time %q, expected HH:MM or HH:MM:SS", s), nil)

	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, invalid
	}

	limits := []int{23, 59, 59}
	values := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 {
			return TimeOfDay{}, invalid
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return TimeOfDay{}, invalid
		}
		values[i] = n
	}
	return NewTimeOfDay(values[0], values[1], values[2]), nil
}

func (t TimeOfDay) IsZero() bool { return !t.valid }

// Seconds since midnight.
func (t TimeOfDay) Seconds() int { return t.sec }

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.sec < o.sec }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t.sec > o.sec }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.sec/3600, t.sec%3600/60, t.sec%60)
}

// On combines the time with a date in UTC.
func (t TimeOfDay) On(d Date) time.Time {
	return d.Time.Add(time.Duration(t.sec) * time.Second)
}

func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.valid {
		return nil, nil
	}
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeOfDay{}
		return nil
	case time.Time:
		*t = NewTimeOfDay(v.Hour(), v.Minute(), v.Second())
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	}
	return fmt.Errorf("cannot scan %T into time of day", src)
}

func (t *TimeOfDay) scanString(s string) error {
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = TimeOfDay{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Validation("time must be a string", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TimeRange is the half-open interval [Start, End) of a slot on one day.
type TimeRange struct {
	Start TimeOfDay `json:"startTime"`
	End   TimeOfDay `json:"endTime"`
}

func (r TimeRange) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.End.After(r.Start)
}

// Overlaps reports whether two ranges share any instant. Adjacent ranges do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return time.Duration(r.End.sec-r.Start.sec) * time.Second
}

var yearMonthPattern = regexp.MustCompile(`^[0-9]{4}-(0[1-9]|1[0-2])$`)

// ValidYearMonth reports whether s is a YYYY-MM reference month.
func ValidYearMonth(s string) bool {
	return yearMonthPattern.MatchString(s)
}

// YearMonthOf formats the reference month containing t.
func YearMonthOf(t time.Time) string {
	return t.Format("2006-01")
}
