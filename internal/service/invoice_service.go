package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/util"
	"github.com/kavi/kavi-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice-related business logic
type InvoiceService struct {
	invoiceRepo  domain.InvoiceRepository
	businessRepo domain.BusinessRepository
	invalidator  *Invalidator
	clock        util.Clock
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo domain.InvoiceRepository, businessRepo domain.BusinessRepository, invalidator *Invalidator, clock util.Clock) *InvoiceService {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		businessRepo: businessRepo,
		invalidator:  invalidator,
		clock:        clock,
	}
}

// CreateInvoiceInput holds the input for creating an invoice
type CreateInvoiceInput struct {
	BusinessID    uuid.UUID
	InvoiceNumber string
	CustomerName  string
	TotalAmount   decimal.Decimal
	// Status may be draft (the default) or sent
	Status    domain.InvoiceStatus
	IssueDate time.Time
	DueDate   time.Time
}

// CreateInvoice creates a new invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID uuid.UUID, input CreateInvoiceInput) (*domain.Invoice, error) {
	if input.TotalAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if input.DueDate.Before(input.IssueDate) {
		return nil, domain.ErrInvalidDateRange
	}
	status := input.Status
	if status == "" {
		status = domain.InvoiceStatusDraft
	}
	if status != domain.InvoiceStatusDraft && status != domain.InvoiceStatusSent {
		return nil, domain.ErrInvalidInvoiceStatus
	}
	if _, err := s.businessRepo.GetByIDForOwner(ctx, input.BusinessID, userID); err != nil {
		return nil, err
	}

	created, err := s.invoiceRepo.Create(ctx, &domain.Invoice{
		BusinessID:    input.BusinessID,
		UserID:        userID,
		InvoiceNumber: strings.TrimSpace(input.InvoiceNumber),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		TotalAmount:   input.TotalAmount,
		Status:        status,
		IssueDate:     input.IssueDate,
		DueDate:       input.DueDate,
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, userID, created, "invoice.created", websocket.InvoiceCreated(created))
	return created, nil
}

// UpdateInvoice replaces the mutable fields of an invoice. Paid and
// cancelled invoices are final.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateInvoiceData) (*domain.Invoice, error) {
	if data.TotalAmount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if data.DueDate.Before(data.IssueDate) {
		return nil, domain.ErrInvalidDateRange
	}

	existing, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.InvoiceStatusPaid || existing.Status == domain.InvoiceStatusCancelled {
		return nil, domain.ErrInvalidStatusChange
	}

	updated, err := s.invoiceRepo.Update(ctx, userID, id, data)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, userID, updated, "invoice.updated", websocket.InvoiceUpdated(updated))
	return updated, nil
}

// SendInvoice moves a draft invoice to sent
func (s *InvoiceService) SendInvoice(ctx context.Context, userID, id uuid.UUID) (*domain.Invoice, error) {
	existing, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.InvoiceStatusDraft {
		return nil, domain.ErrInvalidStatusChange
	}

	updated, err := s.invoiceRepo.UpdateStatus(ctx, userID, id, domain.InvoiceStatusSent, nil)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, userID, updated, "invoice.sent", websocket.InvoiceSent(updated))
	return updated, nil
}

// MarkInvoicePaid settles a sent or overdue invoice as of today
func (s *InvoiceService) MarkInvoicePaid(ctx context.Context, userID, id uuid.UUID) (*domain.Invoice, error) {
	existing, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.IsOutstanding() {
		return nil, domain.ErrInvalidStatusChange
	}

	paidDate := s.clock.Now().UTC().Truncate(24 * time.Hour)
	updated, err := s.invoiceRepo.UpdateStatus(ctx, userID, id, domain.InvoiceStatusPaid, &paidDate)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, userID, updated, "invoice.paid", websocket.InvoicePaid(updated))
	return updated, nil
}

// GetInvoice retrieves an invoice of the user
func (s *InvoiceService) GetInvoice(ctx context.Context, userID, id uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, userID, id)
}

// ListInvoices returns the user's invoices matching filter
func (s *InvoiceService) ListInvoices(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Invoice, error) {
	return s.invoiceRepo.List(ctx, filter)
}

func (s *InvoiceService) afterWrite(ctx context.Context, userID uuid.UUID, inv *domain.Invoice, reason string, event websocket.Event) {
	businessID := inv.BusinessID
	s.invalidator.Invalidate(ctx, userID, &businessID, reason)
	s.invalidator.Publish(userID, event)
}
