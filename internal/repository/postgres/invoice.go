package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
)

type invoiceRepository struct {
	BaseRepository
}

func NewInvoiceRepository(base BaseRepository) repository.InvoiceRepository {
	return &invoiceRepository{base}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *model.Invoice) (err error) {
	defer r.observe("invoices.create", time.Now(), &err)

	query := `
		INSERT INTO invoices (
			user_id, reference_month, file_path, original_filename, mime_type,
			file_size, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	if err := r.db.GetContext(ctx, &inv.ID, query,
		inv.UserID,
		inv.ReferenceMonth,
		inv.FilePath,
		inv.OriginalFilename,
		inv.MimeType,
		inv.FileSize,
		inv.Status,
		inv.CreatedAt,
		inv.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create invoice: %w", translate("invoice", err))
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id int64) (inv *model.Invoice, err error) {
	defer r.observe("invoices.get", time.Now(), &err)

	var out model.Invoice
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM invoices WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", translate("invoice", err))
	}
	return &out, nil
}

func (r *invoiceRepository) FindForUser(ctx context.Context, userID int64) (invs []*model.Invoice, err error) {
	defer r.observe("invoices.find_for_user", time.Now(), &err)

	query := `
		SELECT * FROM invoices
		WHERE user_id = $1
		ORDER BY reference_month DESC, id DESC
	`
	if err := r.db.SelectContext(ctx, &invs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to find user invoices: %w", err)
	}
	return invs, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id int64, status model.InvoiceStatus, now time.Time) (err error) {
	defer r.observe("invoices.update_status", time.Now(), &err)

	query := `UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`
	if err := execOne(ctx, r.db, "invoice", query, status, now, id); err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("invoices.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "invoice", `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}
