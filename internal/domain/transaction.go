package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// DefaultCurrency is the reporting currency for all aggregates
const DefaultCurrency = "KES"

// Transaction amounts are never negative; Type decides the sign of the contribution.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	BusinessID    uuid.UUID       `json:"businessId"`
	UserID        uuid.UUID       `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Type          TransactionType `json:"type"`
	Category      string          `json:"category"`
	Supplier      string          `json:"supplier"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	OccurredAt    time.Time       `json:"occurredAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IsIncome reports whether the transaction is income
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// IsExpense reports whether the transaction is an expense
func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// UpdateTransactionData holds the mutable fields of a transaction
type UpdateTransactionData struct {
	Amount        decimal.Decimal
	Type          TransactionType
	Category      string
	Supplier      string
	PaymentMethod string
	Status        string
	Description   string
	OccurredAt    time.Time
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, data *UpdateTransactionData) (*Transaction, error)
	// List returns the transactions matching filter ordered by OccurredAt descending
	List(ctx context.Context, filter LedgerFilter) ([]*Transaction, error)
}
