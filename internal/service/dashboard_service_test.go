package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestDashboardService_ComputeBudgetAnalytics(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	f.addBudget(b, 1000, 950, true)  // near limit
	f.addBudget(b, 1000, 1200, true) // over budget and near limit
	f.addBudget(b, 500, 100, false)  // inactive

	result, err := f.dashboard().ComputeBudgetAnalytics(context.Background(), &b.ID, owner)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalBudgets)
	assert.Equal(t, 2, result.ActiveBudgets)
	assert.Equal(t, 1, result.OverBudgetCount)
	assert.Equal(t, 2, result.NearLimitCount)
	decimalEqual(t, "2000", result.TotalBudgeted)
	decimalEqual(t, "2150", result.TotalSpent)
	decimalEqual(t, "107.5", result.BudgetUtilization)
	assert.Equal(t, domain.DefaultCurrency, result.Currency)
}

func TestDashboardService_ComputeBudgetAnalytics_NoBudgets(t *testing.T) {
	f := newFixture(t)

	result, err := f.dashboard().ComputeBudgetAnalytics(context.Background(), nil, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalBudgets)
	assert.True(t, result.BudgetUtilization.IsZero())
}

func TestDashboardService_ComputeBudgetAnalytics_NotOwned(t *testing.T) {
	f := newFixture(t)
	b := f.addBusiness(uuid.New(), "Someone Else")

	_, err := f.dashboard().ComputeBudgetAnalytics(context.Background(), &b.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrBusinessNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDashboardService_TransactionAnalytics(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")

	for i := 1; i <= 7; i++ {
		tx := f.addTx(b, domain.TransactionTypeExpense, int64(i*100), i)
		tx.Category = fmt.Sprintf("cat-%d", i)
	}
	card := f.addTx(b, domain.TransactionTypeIncome, 2000, 3)
	card.Category = "sales"
	card.PaymentMethod = "card"
	f.addTx(b, domain.TransactionTypeIncome, 50000, 45) // outside the window

	result, err := f.dashboard().TransactionAnalytics(context.Background(), &b.ID, owner, 30)
	require.NoError(t, err)

	assert.Equal(t, 30, result.PeriodDays)
	assert.Equal(t, 8, result.TotalTransactions)
	assert.Equal(t, 1, result.IncomeCount)
	assert.Equal(t, 7, result.ExpenseCount)
	decimalEqual(t, "4800", result.TotalAmount)
	decimalEqual(t, "600", result.AverageTransaction)

	require.Len(t, result.TopCategories, domain.TopCategoryLimit)
	assert.Equal(t, "sales", result.TopCategories[0].Category)
	assert.Equal(t, "cat-7", result.TopCategories[1].Category)
	assert.Equal(t, "cat-4", result.TopCategories[4].Category)

	require.Len(t, result.PaymentMethods, 2)
	assert.Equal(t, "mpesa", result.PaymentMethods[0].PaymentMethod)
	assert.Equal(t, 7, result.PaymentMethods[0].Count)
	decimalEqual(t, "2800", result.PaymentMethods[0].Total)
	assert.Equal(t, "card", result.PaymentMethods[1].PaymentMethod)
}

func TestDashboardService_TransactionAnalytics_Empty(t *testing.T) {
	f := newFixture(t)

	result, err := f.dashboard().TransactionAnalytics(context.Background(), nil, uuid.New(), 7)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalTransactions)
	assert.True(t, result.AverageTransaction.IsZero())
	assert.NotNil(t, result.TopCategories)
	assert.NotNil(t, result.PaymentMethods)
}

func TestDashboardService_TransactionAnalytics_InvalidPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.dashboard().TransactionAnalytics(context.Background(), nil, uuid.New(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestDashboardService_FinancialSummary(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	f.addTx(b, domain.TransactionTypeIncome, 5000, 5)
	f.addTx(b, domain.TransactionTypeExpense, 2000, 10)
	f.addTx(b, domain.TransactionTypeIncome, 9000, 60)
	f.addInvoice(b, domain.InvoiceStatusSent, 1000)
	f.addInvoice(b, domain.InvoiceStatusOverdue, 500)
	f.addInvoice(b, domain.InvoiceStatusPaid, 700)
	f.addBudget(b, 3000, 1000, true)

	result, err := f.dashboard().FinancialSummary(context.Background(), &b.ID, owner, 30)
	require.NoError(t, err)

	decimalEqual(t, "5000", result.TotalIncome)
	decimalEqual(t, "2000", result.TotalExpenses)
	decimalEqual(t, "3000", result.NetProfit)
	decimalEqual(t, "3000", result.CashFlow)
	decimalEqual(t, "1500", result.OutstandingInvoices)
	decimalEqual(t, "500", result.OverdueInvoices)
	decimalEqual(t, "33.33", result.BudgetUtilization)
	assert.Equal(t, 0, result.CreditScore)
}

func TestDashboardService_FinancialSummary_LatestCreditScore(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	f.scores.Records = append(f.scores.Records,
		&domain.CreditScoreRecord{UserID: owner, BusinessID: b.ID, Score: 640, CreatedAt: fixtureNow.AddDate(0, -1, 0)},
		&domain.CreditScoreRecord{UserID: owner, BusinessID: b.ID, Score: 720, CreatedAt: fixtureNow},
		&domain.CreditScoreRecord{UserID: uuid.New(), BusinessID: b.ID, Score: 810, CreatedAt: fixtureNow},
	)

	result, err := f.dashboard().FinancialSummary(context.Background(), nil, owner, 30)
	require.NoError(t, err)
	assert.Equal(t, 720, result.CreditScore)
}

func TestDashboardService_FinancialSummary_CachedUntilWrite(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	f.addTx(b, domain.TransactionTypeIncome, 1000, 1)
	svc := f.dashboard()
	ctx := context.Background()

	first, err := svc.FinancialSummary(ctx, nil, owner, 30)
	require.NoError(t, err)
	decimalEqual(t, "1000", first.TotalIncome)

	f.addTx(b, domain.TransactionTypeIncome, 500, 1)

	stale, err := svc.FinancialSummary(ctx, nil, owner, 30)
	require.NoError(t, err)
	decimalEqual(t, "1000", stale.TotalIncome)

	f.invalidator.Invalidate(ctx, owner, &b.ID, "transaction.created")

	fresh, err := svc.FinancialSummary(ctx, nil, owner, 30)
	require.NoError(t, err)
	decimalEqual(t, "1500", fresh.TotalIncome)
}

func TestDashboardService_DashboardData(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	other := f.addBusiness(owner, "Second Shop")
	f.addBusiness(uuid.New(), "Not Mine")

	for i := 1; i <= 12; i++ {
		f.addTx(b, domain.TransactionTypeIncome, 100, i)
	}
	f.addTx(other, domain.TransactionTypeExpense, 300, 2)
	f.addBudget(b, 1000, 100, true)
	f.addBudget(b, 1000, 100, false)
	overdue := f.addInvoice(b, domain.InvoiceStatusOverdue, 400)
	f.addInvoice(b, domain.InvoiceStatusSent, 400)

	data, err := f.dashboard().DashboardData(context.Background(), &b.ID, owner, 30)
	require.NoError(t, err)

	require.Len(t, data.Businesses, 1)
	assert.Equal(t, "Duka Ltd", data.Businesses[0].Name)
	require.Len(t, data.RecentTransactions, domain.RecentTransactionLimit)
	assert.Equal(t, fixtureNow.AddDate(0, 0, -1), data.RecentTransactions[0].OccurredAt)
	decimalEqual(t, "1200", data.Summary.TotalIncome)
	assert.True(t, data.Summary.TotalExpenses.IsZero())
	assert.Len(t, data.Budgets, 1)
	require.Len(t, data.OverdueInvoices, 1)
	assert.Equal(t, overdue.ID, data.OverdueInvoices[0].ID)
	assert.Nil(t, data.CreditScore)
}

func TestDashboardService_DashboardData_AllBusinesses(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	other := f.addBusiness(owner, "Second Shop")
	f.addTx(b, domain.TransactionTypeIncome, 100, 1)
	f.addTx(other, domain.TransactionTypeExpense, 300, 2)

	data, err := f.dashboard().DashboardData(context.Background(), nil, owner, 30)
	require.NoError(t, err)

	assert.Len(t, data.Businesses, 2)
	assert.Len(t, data.RecentTransactions, 2)
	decimalEqual(t, "-200", data.Summary.NetProfit)
}

func TestDashboardService_DashboardData_NotOwned(t *testing.T) {
	f := newFixture(t)
	f.addBusiness(uuid.New(), "Not Mine")
	mine := uuid.New()

	_, err := f.dashboard().DashboardData(context.Background(), &mine, uuid.New(), 30)
	assert.ErrorIs(t, err, domain.ErrBusinessNotFound)
}
