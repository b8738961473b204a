package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget-related business logic
type BudgetService struct {
	budgetRepo   domain.BudgetRepository
	businessRepo domain.BusinessRepository
	invalidator  *Invalidator
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, businessRepo domain.BusinessRepository, invalidator *Invalidator) *BudgetService {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		businessRepo: businessRepo,
		invalidator:  invalidator,
	}
}

// CreateBudgetInput holds the input for creating a budget
type CreateBudgetInput struct {
	BusinessID        uuid.UUID
	Name              string
	Category          string
	BudgetedAmount    decimal.Decimal
	SpentAmount       decimal.Decimal
	AlertThresholdPct *decimal.Decimal
	IsActive          *bool
	StartDate         time.Time
	EndDate           time.Time
}

func validateBudget(budgeted, spent, threshold decimal.Decimal, start, end time.Time) error {
	if budgeted.IsNegative() || spent.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if threshold.IsNegative() || threshold.GreaterThan(decimal.NewFromInt(100)) {
		return domain.ErrInvalidInput
	}
	if end.Before(start) {
		return domain.ErrInvalidDateRange
	}
	return nil
}

// CreateBudget creates a new budget
func (s *BudgetService) CreateBudget(ctx context.Context, userID uuid.UUID, input CreateBudgetInput) (*domain.Budget, error) {
	threshold := domain.DefaultAlertThresholdPct
	if input.AlertThresholdPct != nil {
		threshold = *input.AlertThresholdPct
	}
	if err := validateBudget(input.BudgetedAmount, input.SpentAmount, threshold, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.businessRepo.GetByIDForOwner(ctx, input.BusinessID, userID); err != nil {
		return nil, err
	}

	// Budgets are active unless stated otherwise
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	created, err := s.budgetRepo.Create(ctx, &domain.Budget{
		BusinessID:        input.BusinessID,
		UserID:            userID,
		Name:              name,
		Category:          strings.TrimSpace(input.Category),
		BudgetedAmount:    input.BudgetedAmount,
		SpentAmount:       input.SpentAmount,
		AlertThresholdPct: threshold,
		IsActive:          isActive,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	businessID := created.BusinessID
	s.invalidator.Invalidate(ctx, userID, &businessID, "budget.created")
	s.invalidator.Publish(userID, websocket.BudgetCreated(created))
	return created, nil
}

// UpdateBudget replaces the mutable fields of a budget
func (s *BudgetService) UpdateBudget(ctx context.Context, userID, id uuid.UUID, data *domain.UpdateBudgetData) (*domain.Budget, error) {
	if err := validateBudget(data.BudgetedAmount, data.SpentAmount, data.AlertThresholdPct, data.StartDate, data.EndDate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(data.Name) == "" {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.budgetRepo.Update(ctx, userID, id, data)
	if err != nil {
		return nil, err
	}

	businessID := updated.BusinessID
	s.invalidator.Invalidate(ctx, userID, &businessID, "budget.updated")
	s.invalidator.Publish(userID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// GetBudget retrieves a budget of the user
func (s *BudgetService) GetBudget(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(ctx, userID, id)
}

// ListBudgets returns the user's budgets overlapping the filter window
func (s *BudgetService) ListBudgets(ctx context.Context, filter domain.LedgerFilter) ([]*domain.Budget, error) {
	return s.budgetRepo.List(ctx, filter)
}
