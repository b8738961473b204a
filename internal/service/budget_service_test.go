package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) budgetService() *BudgetService {
	return NewBudgetService(f.budgets, f.businesses, f.invalidator)
}

func TestBudgetService_CreateBudget_Defaults(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")

	created, err := f.budgetService().CreateBudget(context.Background(), owner, CreateBudgetInput{
		BusinessID:     b.ID,
		Name:           " Stock ",
		BudgetedAmount: decimal.NewFromInt(10000),
		StartDate:      fixtureNow,
		EndDate:        fixtureNow.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, "Stock", created.Name)
	assert.True(t, created.IsActive)
	assert.True(t, created.AlertThresholdPct.Equal(domain.DefaultAlertThresholdPct))
	assert.Equal(t, []string{"analytics.invalidated", "budget.created"}, f.publisher.Types())
}

func TestBudgetService_CreateBudget_Validation(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	over := decimal.NewFromInt(101)
	valid := func() CreateBudgetInput {
		return CreateBudgetInput{
			BusinessID:     b.ID,
			Name:           "Stock",
			BudgetedAmount: decimal.NewFromInt(100),
			StartDate:      fixtureNow,
			EndDate:        fixtureNow.AddDate(0, 1, 0),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*CreateBudgetInput)
		wantErr error
	}{
		{"negative budgeted", func(in *CreateBudgetInput) { in.BudgetedAmount = decimal.NewFromInt(-1) }, domain.ErrInvalidAmount},
		{"negative spent", func(in *CreateBudgetInput) { in.SpentAmount = decimal.NewFromInt(-1) }, domain.ErrInvalidAmount},
		{"threshold above 100", func(in *CreateBudgetInput) { in.AlertThresholdPct = &over }, domain.ErrInvalidInput},
		{"end before start", func(in *CreateBudgetInput) { in.EndDate = fixtureNow.AddDate(0, 0, -1) }, domain.ErrInvalidDateRange},
		{"blank name", func(in *CreateBudgetInput) { in.Name = "  " }, domain.ErrInvalidInput},
		{"foreign business", func(in *CreateBudgetInput) { in.BusinessID = uuid.New() }, domain.ErrBusinessNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.mutate(&input)
			_, err := f.budgetService().CreateBudget(context.Background(), owner, input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.budgets.Budgets)
}

func TestBudgetService_UpdateBudget_InvalidatesAnalytics(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	budget := f.addBudget(b, 1000, 100, true)
	dashboard := f.dashboard()
	ctx := context.Background()

	before, err := dashboard.BudgetAnalytics(ctx, &b.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, before.OverBudgetCount)

	_, err = f.budgetService().UpdateBudget(ctx, owner, budget.ID, &domain.UpdateBudgetData{
		Name:              budget.Name,
		BudgetedAmount:    decimal.NewFromInt(1000),
		SpentAmount:       decimal.NewFromInt(1500),
		AlertThresholdPct: domain.DefaultAlertThresholdPct,
		IsActive:          true,
		StartDate:         budget.StartDate,
		EndDate:           budget.EndDate,
	})
	require.NoError(t, err)

	after, err := dashboard.BudgetAnalytics(ctx, &b.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, after.OverBudgetCount)
	assert.Equal(t, []string{"analytics.invalidated", "budget.updated"}, f.publisher.Types())
}

func TestBudgetService_UpdateBudget_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.budgetService().UpdateBudget(context.Background(), uuid.New(), uuid.New(), &domain.UpdateBudgetData{
		Name:      "Stock",
		StartDate: fixtureNow,
		EndDate:   fixtureNow,
	})
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
}
