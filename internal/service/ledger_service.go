package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
)

// LedgerService is the read-only query layer over transactions, invoices and
// budgets. It applies no authorization; callers must already be entitled to
// the business they ask for.
type LedgerService struct {
	transactionRepo domain.TransactionRepository
	invoiceRepo     domain.InvoiceRepository
	budgetRepo      domain.BudgetRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(transactionRepo domain.TransactionRepository, invoiceRepo domain.InvoiceRepository, budgetRepo domain.BudgetRepository) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		invoiceRepo:     invoiceRepo,
		budgetRepo:      budgetRepo,
	}
}

func ledgerFilter(businessID *uuid.UUID, userID uuid.UUID, since, until time.Time) domain.LedgerFilter {
	return domain.LedgerFilter{
		UserID:     userID,
		BusinessID: businessID,
		Since:      since,
		Until:      until,
	}
}

// FetchTransactions returns the user's transactions in [since, until), newest first.
// A nil businessID covers every business of the user.
func (s *LedgerService) FetchTransactions(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, since, until time.Time) ([]*domain.Transaction, error) {
	txs, err := s.transactionRepo.List(ctx, ledgerFilter(businessID, userID, since, until))
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	return txs, nil
}

// FetchInvoices returns the user's invoices issued in [since, until)
func (s *LedgerService) FetchInvoices(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, since, until time.Time) ([]*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx, ledgerFilter(businessID, userID, since, until))
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []*domain.Invoice{}
	}
	return invoices, nil
}

// FetchBudgets returns the user's budgets whose period overlaps [since, until)
func (s *LedgerService) FetchBudgets(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, since, until time.Time) ([]*domain.Budget, error) {
	budgets, err := s.budgetRepo.List(ctx, ledgerFilter(businessID, userID, since, until))
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		budgets = []*domain.Budget{}
	}
	return budgets, nil
}
