package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (err error) {
	defer r.observe("users.create", time.Now(), &err)

	query := `
		INSERT INTO users (
			username, email, password, full_name, role,
			status, google_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	if err := r.db.GetContext(ctx, &user.ID, query,
		user.Username,
		user.Email,
		user.Password,
		user.FullName,
		user.Role,
		user.Status,
		user.GoogleID,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create user: %w", translate("user", err))
	}

	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (user *model.User, err error) {
	defer r.observe("users.get", time.Now(), &err)
	return r.getBy(ctx, "id", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user *model.User, err error) {
	defer r.observe("users.get_by_email", time.Now(), &err)
	return r.getBy(ctx, "email", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (user *model.User, err error) {
	defer r.observe("users.get_by_username", time.Now(), &err)
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (user *model.User, err error) {
	defer r.observe("users.get_by_google_id", time.Now(), &err)
	return r.getBy(ctx, "google_id", googleID)
}

// getBy is only called with column names from this file.
func (r *userRepository) getBy(ctx context.Context, column string, value interface{}) (*model.User, error) {
	query := `SELECT * FROM users WHERE ` + column + ` = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, value); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", translate("user", err))
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter model.UserFilter) (users []*model.User, err error) {
	defer r.observe("users.list", time.Now(), &err)

	query := `SELECT * FROM users WHERE TRUE`
	var args []interface{}

	if filter.Role != "" {
		args = append(args, filter.Role)
		query += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (username ILIKE $%[1]d OR email ILIKE $%[1]d OR full_name ILIKE $%[1]d)", len(args))
	}

	page := filter.Pagination.Normalize()
	args = append(args, page.Limit, page.Offset)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus, now time.Time) (err error) {
	defer r.observe("users.update_status", time.Now(), &err)

	query := `UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`
	if err := execOne(ctx, r.db, "user", query, status, now, id); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, now time.Time) (err error) {
	defer r.observe("users.update_password", time.Now(), &err)

	if err := updatePassword(ctx, r.db, id, passwordHash, now); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *userRepository) LinkGoogleID(ctx context.Context, id int64, googleID string, now time.Time) (err error) {
	defer r.observe("users.link_google_id", time.Now(), &err)

	query := `UPDATE users SET google_id = $1, updated_at = $2 WHERE id = $3`
	if err := execOne(ctx, r.db, "user", query, googleID, now, id); err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("users.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "user", `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (n int64, err error) {
	defer r.observe("users.count", time.Now(), &err)

	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func updatePassword(ctx context.Context, db sqlxExecer, id int64, passwordHash string, now time.Time) error {
	query := `UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`
	return execOne(ctx, db, "user", query, passwordHash, now, id)
}
