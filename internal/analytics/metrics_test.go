package analytics

import (
	"testing"
	"time"

	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func tx(typ domain.TransactionType, amount string) *domain.Transaction {
	return &domain.Transaction{
		Type:       typ,
		Amount:     decimal.RequireFromString(amount),
		OccurredAt: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
	}
}

func invoice(status domain.InvoiceStatus) *domain.Invoice {
	return &domain.Invoice{Status: status, TotalAmount: decimal.NewFromInt(100)}
}

func intPtr(v int) *int { return &v }

func TestPaymentHistory_NoInvoices(t *testing.T) {
	assert.Equal(t, 100.0, PaymentHistory(nil))
	assert.Equal(t, 100.0, PaymentHistory([]*domain.Invoice{}))
}

func TestPaymentHistory_Ratio(t *testing.T) {
	invoices := []*domain.Invoice{
		invoice(domain.InvoiceStatusPaid),
		invoice(domain.InvoiceStatusPaid),
		invoice(domain.InvoiceStatusPaid),
		invoice(domain.InvoiceStatusOverdue),
	}
	assert.Equal(t, 75.0, PaymentHistory(invoices))
}

func TestCreditUtilization_ZeroIncome(t *testing.T) {
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeExpense, "5000"),
		tx(domain.TransactionTypeExpense, "120.50"),
	}
	assert.Equal(t, 0.0, CreditUtilization(txs))
	assert.Equal(t, 0.0, DebtToIncome(txs))
	assert.Equal(t, 0.0, CreditUtilization(nil))
}

func TestCreditUtilization_MatchesDebtToIncome(t *testing.T) {
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeIncome, "2000"),
		tx(domain.TransactionTypeExpense, "500"),
	}
	assert.Equal(t, 25.0, CreditUtilization(txs))
	assert.Equal(t, CreditUtilization(txs), DebtToIncome(txs))
}

func TestBusinessAgeScore(t *testing.T) {
	tests := []struct {
		name    string
		founded *int
		want    float64
	}{
		{"unknown", nil, 50},
		{"ten years", intPtr(2015), 100},
		{"five years", intPtr(2020), 80},
		{"two years", intPtr(2023), 60},
		{"new", intPtr(2025), 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessAgeScore(tt.founded, 2025))
		})
	}
}

func TestRevenueStability_TooFewSamples(t *testing.T) {
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeIncome, "100"),
		tx(domain.TransactionTypeIncome, "90000"),
		// expenses never count as samples
		tx(domain.TransactionTypeExpense, "10"),
		tx(domain.TransactionTypeExpense, "20"),
	}
	assert.Equal(t, 50.0, RevenueStability(txs))
}

func TestRevenueStability_ConstantIncome(t *testing.T) {
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeIncome, "300"),
		tx(domain.TransactionTypeIncome, "300"),
		tx(domain.TransactionTypeIncome, "300"),
	}
	assert.Equal(t, 100.0, RevenueStability(txs))
}

func TestRevenueStability_CoefficientOfVariation(t *testing.T) {
	// mean 200, population stddev 100*sqrt(2/3) ~ 81.65, cv ~ 0.408
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeIncome, "100"),
		tx(domain.TransactionTypeIncome, "200"),
		tx(domain.TransactionTypeIncome, "300"),
	}
	assert.InDelta(t, 59.18, RevenueStability(txs), 0.01)
}

func TestRevenueStability_FloorsAtZero(t *testing.T) {
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeIncome, "0"),
		tx(domain.TransactionTypeIncome, "0"),
		tx(domain.TransactionTypeIncome, "0"),
		tx(domain.TransactionTypeIncome, "100000"),
	}
	assert.Equal(t, 0.0, RevenueStability(txs))
}

func TestRevenueStability_ZeroMean(t *testing.T) {
	txs := []*domain.Transaction{
		tx(domain.TransactionTypeIncome, "0"),
		tx(domain.TransactionTypeIncome, "0"),
		tx(domain.TransactionTypeIncome, "0"),
	}
	assert.Equal(t, 50.0, RevenueStability(txs))
}

func TestBudgetUtilization_ActiveOnly(t *testing.T) {
	budgets := []*domain.Budget{
		{BudgetedAmount: decimal.NewFromInt(1000), SpentAmount: decimal.NewFromInt(750), IsActive: true},
		{BudgetedAmount: decimal.NewFromInt(1000), SpentAmount: decimal.NewFromInt(1000), IsActive: false},
	}
	assert.True(t, BudgetUtilization(budgets).Equal(decimal.NewFromInt(75)))
}

func TestBudgetUtilization_NothingBudgeted(t *testing.T) {
	budgets := []*domain.Budget{
		{BudgetedAmount: decimal.Zero, SpentAmount: decimal.NewFromInt(40), IsActive: true},
	}
	assert.True(t, BudgetUtilization(budgets).IsZero())
	assert.True(t, BudgetUtilization(nil).IsZero())
}
