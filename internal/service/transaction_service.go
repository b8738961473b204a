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

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	businessRepo    domain.BusinessRepository
	invalidator     *Invalidator
	clock           util.Clock
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, businessRepo domain.BusinessRepository, invalidator *Invalidator, clock util.Clock) *TransactionService {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		businessRepo:    businessRepo,
		invalidator:     invalidator,
		clock:           clock,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	BusinessID    uuid.UUID
	Amount        decimal.Decimal
	Currency      string
	Type          domain.TransactionType
	Category      string
	Supplier      string
	PaymentMethod string
	Status        string
	Description   string
	OccurredAt    *time.Time
}

func validateTransaction(amount decimal.Decimal, txType domain.TransactionType) error {
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if !txType.IsValid() {
		return domain.ErrInvalidTransactionType
	}
	return nil
}

// CreateTransaction records a transaction and invalidates the user's analytics
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := validateTransaction(input.Amount, input.Type); err != nil {
		return nil, err
	}
	if _, err := s.businessRepo.GetByIDForOwner(ctx, input.BusinessID, userID); err != nil {
		return nil, err
	}

	// Default occurred_at to now if not provided
	occurredAt := s.clock.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = "completed"
	}

	created, err := s.transactionRepo.Create(ctx, &domain.Transaction{
		BusinessID:    input.BusinessID,
		UserID:        userID,
		Amount:        input.Amount,
		Currency:      currency,
		Type:          input.Type,
		Category:      strings.TrimSpace(input.Category),
		Supplier:      strings.TrimSpace(input.Supplier),
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Status:        status,
		Description:   strings.TrimSpace(input.Description),
		OccurredAt:    occurredAt,
	})
	if err != nil {
		return nil, err
	}

	businessID := created.BusinessID
	s.invalidator.Invalidate(ctx, userID, &businessID, "transaction.created")
	s.invalidator.Publish(userID, websocket.TransactionCreated(created))
	return created, nil
}

// UpdateTransaction replaces the mutable fields of a transaction
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	if err := validateTransaction(data.Amount, data.Type); err != nil {
		return nil, err
	}
	if data.OccurredAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.transactionRepo.Update(ctx, userID, id, data)
	if err != nil {
		return nil, err
	}

	businessID := updated.BusinessID
	s.invalidator.Invalidate(ctx, userID, &businessID, "transaction.updated")
	s.invalidator.Publish(userID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// GetTransaction retrieves a transaction of the user
func (s *TransactionService) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, userID, id)
}

// ListTransactions returns the user's transactions matching filter, newest first
func (s *TransactionService) ListTransactions(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Transaction, error) {
	return s.transactionRepo.List(ctx, filter)
}
