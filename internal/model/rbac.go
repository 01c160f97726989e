package model

import "time"

type Permission struct {
	Base
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

type NewPermission struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
}

func (n NewPermission) Build(now time.Time) *Permission {
	return &Permission{
		Base:        Base{CreatedAt: Stamp(now)},
		Name:        n.Name,
		Description: n.Description,
	}
}

// RolePermission joins a role tag to a permission row.
type RolePermission struct {
	Base
	Role         Role  `json:"role" db:"role"`
	PermissionID int64 `json:"permissionId" db:"permission_id"`
}

type NewRolePermission struct {
	Role         Role  `json:"role" validate:"required,role"`
	PermissionID int64 `json:"permissionId" validate:"required,gt=0"`
}

func (n NewRolePermission) Build(now time.Time) *RolePermission {
	return &RolePermission{
		Base:         Base{CreatedAt: Stamp(now)},
		Role:         n.Role,
		PermissionID: n.PermissionID,
	}
}
