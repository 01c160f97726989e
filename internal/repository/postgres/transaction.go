package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
)

type transactionRepository struct {
	BaseRepository
}

func NewTransactionRepository(base BaseRepository) repository.TransactionRepository {
	return &transactionRepository{base}
}

func (r *transactionRepository) Create(ctx context.Context, t *model.Transaction) (err error) {
	defer r.observe("transactions.create", time.Now(), &err)

	query := `
		INSERT INTO transactions (
			description, amount, type, category, date,
			responsible_id, related_appointment_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	if err := r.db.GetContext(ctx, &t.ID, query,
		t.Description,
		t.Amount,
		t.Type,
		t.Category,
		t.Date,
		t.ResponsibleID,
		t.RelatedAppointmentID,
		t.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create transaction: %w", translate("transaction", err))
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id int64) (t *model.Transaction, err error) {
	defer r.observe("transactions.get", time.Now(), &err)

	var out model.Transaction
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM transactions WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", translate("transaction", err))
	}
	return &out, nil
}

func (r *transactionRepository) List(ctx context.Context, filter model.TransactionFilter) (ts []*model.Transaction, err error) {
	defer r.observe("transactions.list", time.Now(), &err)

	where, args := transactionWhere(filter)
	page := filter.Pagination.Normalize()
	args = append(args, page.Limit, page.Offset)
	query := fmt.Sprintf(`SELECT * FROM transactions %s ORDER BY date, id LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	if err := r.db.SelectContext(ctx, &ts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return ts, nil
}

func (r *transactionRepository) FindForAppointment(ctx context.Context, appointmentID int64) (ts []*model.Transaction, err error) {
	defer r.observe("transactions.find_for_appointment", time.Now(), &err)

	query := `SELECT * FROM transactions WHERE related_appointment_id = $1 ORDER BY date, id`
	if err := r.db.SelectContext(ctx, &ts, query, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to find appointment transactions: %w", err)
	}
	return ts, nil
}

func (r *transactionRepository) Totals(ctx context.Context, filter model.TransactionFilter) (totals model.Totals, err error) {
	defer r.observe("transactions.totals", time.Now(), &err)

	where, args := transactionWhere(filter)
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0) AS income,
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS expense
		FROM transactions ` + where

	if err := r.db.GetContext(ctx, &totals, query, args...); err != nil {
		return model.Totals{}, fmt.Errorf("failed to total transactions: %w", err)
	}
	return totals, nil
}

func (r *transactionRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("transactions.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "transaction", `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func transactionWhere(filter model.TransactionFilter) (string, []interface{}) {
	where := "WHERE TRUE"
	var args []interface{}

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.ResponsibleID != 0 {
		args = append(args, filter.ResponsibleID)
		where += fmt.Sprintf(" AND responsible_id = $%d", len(args))
	}

	return where, args
}
