package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid reports whether s is a known invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsOutstanding reports whether the invoice still awaits payment
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// Invoice is only ever overdue after being sent and passing its due date.
type Invoice struct {
	ID            uuid.UUID       `json:"id"`
	BusinessID    uuid.UUID       `json:"businessId"`
	UserID        uuid.UUID       `json:"userId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  string          `json:"customerName"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        InvoiceStatus   `json:"status"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       time.Time       `json:"dueDate"`
	PaidDate      *time.Time      `json:"paidDate,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IsPastDue reports whether a sent invoice has passed its due date at now
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.Status == InvoiceStatusSent && i.DueDate.Before(now)
}

// UpdateInvoiceData holds the mutable fields of an invoice
type UpdateInvoiceData struct {
	CustomerName string
	TotalAmount  decimal.Decimal
	IssueDate    time.Time
	DueDate      time.Time
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) (*Invoice, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)
	Update(ctx context.Context, userID, id uuid.UUID, data *UpdateInvoiceData) (*Invoice, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status InvoiceStatus, paidDate *time.Time) (*Invoice, error)
	// List filters on IssueDate and orders by IssueDate descending
	List(ctx context.Context, filter LedgerFilter) ([]*Invoice, error)
	// MarkOverdue flips every sent invoice due before asOf to overdue and returns the changed rows
	MarkOverdue(ctx context.Context, asOf time.Time) ([]*Invoice, error)
}
