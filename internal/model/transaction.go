package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction amounts are always positive; the sign is implied by Type.
type Transaction struct {
	Base
	Description          string          `json:"description" db:"description"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	Type                 TransactionType `json:"type" db:"type"`
	Category             string          `json:"category" db:"category"`
	Date                 Date            `json:"date" db:"date"`
	ResponsibleID        int64           `json:"responsibleId" db:"responsible_id"`
	RelatedAppointmentID *int64          `json:"relatedAppointmentId,omitempty" db:"related_appointment_id"`
}

// Signed returns the amount with the sign its type implies.
func (t *Transaction) Signed() decimal.Decimal {
	switch t.Type {
	case TransactionIncome:
		return t.Amount
	case TransactionExpense:
		return t.Amount.Neg()
	}
	panic(fmt.Sprintf("unhandled transaction type %q", t.Type))
}

// NewTransaction is the insertable subset of Transaction. Amount accepts either
// 99.9 or "99.90" on input.
type NewTransaction struct {
	Description          string          `json:"description" validate:"required,max=255"`
	Amount               decimal.Decimal `json:"amount" validate:"gt=0,lt=100000000"`
	Type                 TransactionType `json:"type" validate:"required,transactiontype"`
	Category             string          `json:"category" validate:"required,max=100"`
	Date                 Date            `json:"date" validate:"required"`
	ResponsibleID        int64           `json:"responsibleId" validate:"required,gt=0"`
	RelatedAppointmentID *int64          `json:"relatedAppointmentId,omitempty" validate:"omitempty,gt=0"`
}

func (n NewTransaction) Build(now time.Time) *Transaction {
	return &Transaction{
		Base:                 Base{CreatedAt: Stamp(now)},
		Description:          n.Description,
		Amount:               NormalizeAmount(n.Amount),
		Type:                 n.Type,
		Category:             n.Category,
		Date:                 n.Date,
		ResponsibleID:        n.ResponsibleID,
		RelatedAppointmentID: n.RelatedAppointmentID,
	}
}

// TransactionFilter selects transactions in an inclusive date window. Zero values match everything.
type TransactionFilter struct {
	From          Date
	To            Date
	Type          TransactionType
	Category      string
	ResponsibleID int64
	Pagination
}

// Totals sums transactions by type.
type Totals struct {
	Income  decimal.Decimal `json:"income" db:"income"`
	Expense decimal.Decimal `json:"expense" db:"expense"`
}

func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}
