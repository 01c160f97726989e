package model

import (
	"time"
)

// User represents a member of staff. Password is nil for accounts that sign in
// through an external provider.
type User struct {
	Base
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	Password  *string    `json:"-" db:"password"`
	FullName  string     `json:"fullName" db:"full_name"`
	Role      Role       `json:"role" db:"role"`
	Status    UserStatus `json:"status" db:"status"`
	GoogleID  *string    `json:"googleId,omitempty" db:"google_id"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

func (u *User) Active() bool {
	return u.Status == UserStatusActive
}

// NewUser is the insertable subset of User. Password is plaintext here.
type NewUser struct {
	Username string     `json:"username" validate:"required,min=3,max=50"`
	Email    string     `json:"email" validate:"required,email,max=255"`
	Password *string    `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	FullName string     `json:"fullName" validate:"required,max=255"`
	Role     Role       `json:"role,omitempty" validate:"omitempty,role"`
	Status   UserStatus `json:"status,omitempty" validate:"omitempty,userstatus"`
	GoogleID *string    `json:"googleId,omitempty" validate:"omitempty,min=1,max=255"`
}

// Build applies construction-time defaults. The caller replaces Password with its hash.
func (n NewUser) Build(now time.Time) *User {
	now = Stamp(now)
	u := &User{
		Base:      Base{CreatedAt: now},
		Username:  n.Username,
		Email:     n.Email,
		Password:  n.Password,
		FullName:  n.FullName,
		Role:      n.Role,
		Status:    n.Status,
		GoogleID:  n.GoogleID,
		UpdatedAt: now,
	}
	if u.Role == "" {
		u.Role = RoleReceptionist
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return u
}

// UserFilter narrows List results. Zero values match everything.
type UserFilter struct {
	Role   Role
	Status UserStatus
	Search string
	Pagination
}
