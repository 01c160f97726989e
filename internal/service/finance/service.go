package finance

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/service"
	"github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

// Accepted invoice uploads.
var invoiceMimeTypes = map[string]bool{
	"application/pdf": true,
	"application/xml": true,
	"text/xml":        true,
	"image/jpeg":      true,
	"image/png":       true,
}

// MaxInvoiceSize is the largest invoice file accepted, in bytes.
const MaxInvoiceSize = 10 << 20

type Service struct {
	transactions repository.TransactionRepository
	invoices     repository.InvoiceRepository
	clock        service.Clock
	log          *logger.Logger
}

func NewService(repos *repository.Repositories, clock service.Clock, log *logger.Logger) *Service {
	return &Service{
		transactions: repos.Transactions,
		invoices:     repos.Invoices,
		clock:        clock.OrSystem(),
		log:          log,
	}
}

// RecordTransaction stores a ledger entry. Amounts are positive and the type carries
// the direction.
func (s *Service) RecordTransaction(ctx context.Context, in model.NewTransaction) (*model.Transaction, error) {
	in.Category = strings.TrimSpace(in.Category)
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	t := in.Build(s.clock())
	if !t.Amount.IsPositive() {
		return nil, errors.Validation("invalid input: amount", nil).
			WithDetail("amount", "must be at least 0.01")
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info("transaction recorded",
		"transaction_id", t.ID,
		"type", string(t.Type),
		"amount", t.Amount.StringFixed(2),
		"category", t.Category,
	)
	return t, nil
}

func (s *Service) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	return s.transactions.Get(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, filter model.TransactionFilter) ([]*model.Transaction, error) {
	if err := checkFilter(filter); err != nil {
		return nil, err
	}
	filter.Pagination = filter.Pagination.Normalize()
	return s.transactions.List(ctx, filter)
}

func (s *Service) TransactionsForAppointment(ctx context.Context, appointmentID int64) ([]*model.Transaction, error) {
	return s.transactions.FindForAppointment(ctx, appointmentID)
}

// Balance sums income and expense over the filter. Pagination is ignored.
func (s *Service) Balance(ctx context.Context, filter model.TransactionFilter) (model.Totals, error) {
	if err := checkFilter(filter); err != nil {
		return model.Totals{}, err
	}
	return s.transactions.Totals(ctx, filter)
}

func (s *Service) DeleteTransaction(ctx context.Context, id int64) error {
	return s.transactions.Delete(ctx, id)
}

func (s *Service) SubmitInvoice(ctx context.Context, in model.NewInvoice) (*model.Invoice, error) {
	in.MimeType = strings.ToLower(strings.TrimSpace(in.MimeType))
	if err := model.Validate(in); err != nil {
		return nil, err
	}
	if !invoiceMimeTypes[in.MimeType] {
		return nil, errors.Validation("invalid input: mimeType", nil).
			WithDetail("mimeType", fmt.Sprintf("unsupported type %q", in.MimeType))
	}
	if in.FileSize > MaxInvoiceSize {
		return nil, errors.Validation("invalid input: fileSize", nil).
			WithDetail("fileSize", "file too large")
	}

	inv := in.Build(s.clock())
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info("invoice submitted",
		"invoice_id", inv.ID,
		"user_id", inv.UserID,
		"reference_month", inv.ReferenceMonth,
	)
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	return s.invoices.Get(ctx, id)
}

func (s *Service) SetInvoiceStatus(ctx context.Context, id int64, status model.InvoiceStatus) error {
	if !status.Valid() {
		return errors.Validation(fmt.Sprintf("unknown invoice status %q", status), nil)
	}
	if err := s.invoices.UpdateStatus(ctx, id, status, s.clock()); err != nil {
		return err
	}

	s.log.Info("invoice status changed", "invoice_id", id, "status", string(status))
	return nil
}

func (s *Service) InvoicesForUser(ctx context.Context, userID int64) ([]*model.Invoice, error) {
	return s.invoices.FindForUser(ctx, userID)
}

func checkFilter(f model.TransactionFilter) error {
	if f.Type != "" && !f.Type.Valid() {
		return errors.Validation(fmt.Sprintf("unknown transaction type %q", f.Type), nil)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return errors.Validation("invalid input: date window", nil).
			WithDetail("to", "must not be before from")
	}
	return nil
}
