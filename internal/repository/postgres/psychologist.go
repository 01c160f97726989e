package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
)

type psychologistRepository struct {
	BaseRepository
}

func NewPsychologistRepository(base BaseRepository) repository.PsychologistRepository {
	return &psychologistRepository{base}
}

func (r *psychologistRepository) Create(ctx context.Context, p *model.Psychologist) (err error) {
	defer r.observe("psychologists.create", time.Now(), &err)

	query := `
		INSERT INTO psychologists (
			user_id, specialization, bio, hourly_rate, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if err := r.db.GetContext(ctx, &p.ID, query,
		p.UserID,
		p.Specialization,
		p.Bio,
		p.HourlyRate,
		p.CreatedAt,
		p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create psychologist: %w", translate("psychologist", err))
	}
	return nil
}

func (r *psychologistRepository) Get(ctx context.Context, id int64) (p *model.Psychologist, err error) {
	defer r.observe("psychologists.get", time.Now(), &err)

	var out model.Psychologist
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM psychologists WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get psychologist: %w", translate("psychologist", err))
	}
	return &out, nil
}

func (r *psychologistRepository) GetByUserID(ctx context.Context, userID int64) (p *model.Psychologist, err error) {
	defer r.observe("psychologists.get_by_user", time.Now(), &err)

	var out model.Psychologist
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM psychologists WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to get psychologist: %w", translate("psychologist", err))
	}
	return &out, nil
}

func (r *psychologistRepository) List(ctx context.Context, page model.Pagination) (ps []*model.Psychologist, err error) {
	defer r.observe("psychologists.list", time.Now(), &err)

	page = page.Normalize()
	query := `SELECT * FROM psychologists ORDER BY id LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &ps, query, page.Limit, page.Offset); err != nil {
		return nil, fmt.Errorf("failed to list psychologists: %w", err)
	}
	return ps, nil
}

func (r *psychologistRepository) UpdateRate(ctx context.Context, id int64, rate decimal.Decimal, now time.Time) (err error) {
	defer r.observe("psychologists.update_rate", time.Now(), &err)

	query := `UPDATE psychologists SET hourly_rate = $1, updated_at = $2 WHERE id = $3`
	if err := execOne(ctx, r.db, "psychologist", query, rate, now, id); err != nil {
		return fmt.Errorf("failed to update hourly rate: %w", err)
	}
	return nil
}

func (r *psychologistRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("psychologists.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "psychologist", `DELETE FROM psychologists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete psychologist: %w", err)
	}
	return nil
}
