package model

import "time"

// Invoice records a file a user submitted for a reference month. The file itself
// lives in external storage at FilePath.
type Invoice struct {
	Base
	UserID           int64         `json:"userId" db:"user_id"`
	ReferenceMonth   string        `json:"referenceMonth" db:"reference_month"`
	FilePath         string        `json:"filePath" db:"file_path"`
	OriginalFilename string        `json:"originalFilename" db:"original_filename"`
	MimeType         string        `json:"mimeType" db:"mime_type"`
	FileSize         int64         `json:"fileSize" db:"file_size"`
	Status           InvoiceStatus `json:"status" db:"status"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`
}

type NewInvoice struct {
	UserID           int64         `json:"userId" validate:"required,gt=0"`
	ReferenceMonth   string        `json:"referenceMonth" validate:"required,yearmonth"`
	FilePath         string        `json:"filePath" validate:"required,max=1024"`
	OriginalFilename string        `json:"originalFilename" validate:"required,max=255"`
	MimeType         string        `json:"mimeType" validate:"required,max=100"`
	FileSize         int64         `json:"fileSize" validate:"gte=0"`
	Status           InvoiceStatus `json:"status,omitempty" validate:"omitempty,invoicestatus"`
}

func (n NewInvoice) Build(now time.Time) *Invoice {
	now = Stamp(now)
	inv := &Invoice{
		Base:             Base{CreatedAt: now},
		UserID:           n.UserID,
		ReferenceMonth:   n.ReferenceMonth,
		FilePath:         n.FilePath,
		OriginalFilename: n.OriginalFilename,
		MimeType:         n.MimeType,
		FileSize:         n.FileSize,
		Status:           n.Status,
		UpdatedAt:        now,
	}
	if inv.Status == "" {
		inv.Status = InvoiceStatusPending
	}
	return inv
}
