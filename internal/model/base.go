package model

import (
	"time"
)

// Base contains the server-managed fields shared by every entity.
// Insertables never carry these.
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Normalize clamps the page to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 || p.Limit > 500 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Stamp truncates now the way the database stores it, so a row read back
// compares equal to the value that was built.
func Stamp(now time.Time) time.Time {
	return now.UTC().Truncate(time.Microsecond)
}
