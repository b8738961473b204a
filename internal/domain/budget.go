package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAlertThresholdPct is used when a budget is created without a threshold
var DefaultAlertThresholdPct = decimal.NewFromInt(80)

type Budget struct {
	ID                uuid.UUID       `json:"id"`
	BusinessID        uuid.UUID       `json:"businessId"`
	UserID            uuid.UUID       `json:"userId"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	BudgetedAmount    decimal.Decimal `json:"budgetedAmount"`
	SpentAmount       decimal.Decimal `json:"spentAmount"`
	AlertThresholdPct decimal.Decimal `json:"alertThresholdPct"`
	IsActive          bool            `json:"isActive"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Utilization returns spent/budgeted as a percentage, or zero when nothing is budgeted
func (b *Budget) Utilization() decimal.Decimal {
	if !b.BudgetedAmount.IsPositive() {
		return decimal.Zero
	}
	return b.SpentAmount.Div(b.BudgetedAmount).Mul(decimal.NewFromInt(100))
}

// IsOverBudget reports whether spending exceeds the budgeted amount
func (b *Budget) IsOverBudget() bool {
	return b.SpentAmount.GreaterThan(b.BudgetedAmount)
}

// IsNearLimit reports whether spending reached the alert threshold
func (b *Budget) IsNearLimit() bool {
	limit := b.BudgetedAmount.Mul(b.AlertThresholdPct).Div(decimal.NewFromInt(100))
	return b.SpentAmount.GreaterThanOrEqual(limit)
}

// UpdateBudgetData holds the mutable fields of a budget
type UpdateBudgetData struct {
	Name              string
	Category          string
	BudgetedAmount    decimal.Decimal
	SpentAmount       decimal.Decimal
	AlertThresholdPct decimal.Decimal
	IsActive          bool
	StartDate         time.Time
	EndDate           time.Time
}

type BudgetRepository interface {
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Budget, error)
	Update(ctx context.Context, userID, id uuid.UUID, data *UpdateBudgetData) (*Budget, error)
	// List returns budgets whose period overlaps the filter window, newest start first
	List(ctx context.Context, filter LedgerFilter) ([]*Budget, error)
}
