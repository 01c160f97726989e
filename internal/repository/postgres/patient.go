package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, p *model.Patient) (err error) {
	defer r.observe("patients.create", time.Now(), &err)

	query := `
		INSERT INTO patients (
			full_name, email, phone, birth_date, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	if err := r.db.GetContext(ctx, &p.ID, query,
		p.FullName,
		p.Email,
		p.Phone,
		p.BirthDate,
		p.Notes,
		p.CreatedBy,
		p.CreatedAt,
		p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create patient: %w", translate("patient", err))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (p *model.Patient, err error) {
	defer r.observe("patients.get", time.Now(), &err)

	var out model.Patient
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM patients WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", translate("patient", err))
	}
	return &out, nil
}

func (r *patientRepository) List(ctx context.Context, page model.Pagination) (ps []*model.Patient, err error) {
	defer r.observe("patients.list", time.Now(), &err)

	page = page.Normalize()
	query := `SELECT * FROM patients ORDER BY full_name, id LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &ps, query, page.Limit, page.Offset); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return ps, nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("patients.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "patient", `DELETE FROM patients WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}
