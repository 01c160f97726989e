package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
)

type permissionRepository struct {
	BaseRepository
}

func NewPermissionRepository(base BaseRepository) repository.PermissionRepository {
	return &permissionRepository{base}
}

func (r *permissionRepository) CreatePermission(ctx context.Context, p *model.Permission) (err error) {
	defer r.observe("permissions.create", time.Now(), &err)

	query := `
		INSERT INTO permissions (name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := r.db.GetContext(ctx, &p.ID, query, p.Name, p.Description, p.CreatedAt); err != nil {
		return fmt.Errorf("failed to create permission: %w", translate("permission", err))
	}
	return nil
}

func (r *permissionRepository) GetPermissionByName(ctx context.Context, name string) (p *model.Permission, err error) {
	defer r.observe("permissions.get_by_name", time.Now(), &err)

	var out model.Permission
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM permissions WHERE name = $1`, name); err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", translate("permission", err))
	}
	return &out, nil
}

func (r *permissionRepository) ListPermissions(ctx context.Context) (ps []*model.Permission, err error) {
	defer r.observe("permissions.list", time.Now(), &err)

	if err := r.db.SelectContext(ctx, &ps, `SELECT * FROM permissions ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return ps, nil
}

// DeletePermission also removes the permission from every role.
func (r *permissionRepository) DeletePermission(ctx context.Context, id int64) (err error) {
	defer r.observe("permissions.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "permission", `DELETE FROM permissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	return nil
}

func (r *permissionRepository) GrantToRole(ctx context.Context, rp *model.RolePermission) (err error) {
	defer r.observe("permissions.grant", time.Now(), &err)

	query := `
		INSERT INTO role_permissions (role, permission_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (role, permission_id) DO UPDATE SET role = EXCLUDED.role
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, rp.Role, rp.PermissionID, rp.CreatedAt).
		Scan(&rp.ID, &rp.CreatedAt); err != nil {
		return fmt.Errorf("failed to grant permission: %w", translate("role permission", err))
	}
	return nil
}

func (r *permissionRepository) RevokeFromRole(ctx context.Context, role model.Role, permissionID int64) (err error) {
	defer r.observe("permissions.revoke", time.Now(), &err)

	query := `DELETE FROM role_permissions WHERE role = $1 AND permission_id = $2`
	if err := execOne(ctx, r.db, "role permission", query, role, permissionID); err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	return nil
}

func (r *permissionRepository) PermissionsForRole(ctx context.Context, role model.Role) (ps []*model.Permission, err error) {
	defer r.observe("permissions.for_role", time.Now(), &err)

	query := `
		SELECT p.* FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role = $1
		ORDER BY p.name
	`
	if err := r.db.SelectContext(ctx, &ps, query, role); err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}
	return ps, nil
}
