package domain

import (
	"github.com/shopspring/decimal"
)

// BudgetAnalytics summarizes the budgets of a user, optionally for one business
type BudgetAnalytics struct {
	TotalBudgets      int             `json:"totalBudgets"`
	ActiveBudgets     int             `json:"activeBudgets"`
	TotalBudgeted     decimal.Decimal `json:"totalBudgeted"`
	TotalSpent        decimal.Decimal `json:"totalSpent"`
	OverBudgetCount   int             `json:"overBudgetCount"`
	NearLimitCount    int             `json:"nearLimitCount"`
	BudgetUtilization decimal.Decimal `json:"budgetUtilization"`
	Currency          string          `json:"currency"`
}

// CategoryTotal is a per-category aggregate
type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// PaymentMethodTotal is a per-payment-method aggregate
type PaymentMethodTotal struct {
	PaymentMethod string          `json:"paymentMethod"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
}

// TopCategoryLimit caps the category breakdown of transaction analytics
const TopCategoryLimit = 5

// TransactionAnalytics aggregates the transactions of a window
type TransactionAnalytics struct {
	PeriodDays         int                  `json:"periodDays"`
	TotalTransactions  int                  `json:"totalTransactions"`
	TotalAmount        decimal.Decimal      `json:"totalAmount"`
	AverageTransaction decimal.Decimal      `json:"averageTransaction"`
	IncomeCount        int                  `json:"incomeCount"`
	ExpenseCount       int                  `json:"expenseCount"`
	TopCategories      []CategoryTotal      `json:"topCategories"`
	PaymentMethods     []PaymentMethodTotal `json:"paymentMethods"`
	Currency           string               `json:"currency"`
}

// FinancialSummary contains the headline figures of a window
type FinancialSummary struct {
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	CashFlow            decimal.Decimal `json:"cashFlow"`
	OutstandingInvoices decimal.Decimal `json:"outstandingInvoices"`
	OverdueInvoices     decimal.Decimal `json:"overdueInvoices"`
	BudgetUtilization   decimal.Decimal `json:"budgetUtilization"`
	CreditScore         int             `json:"creditScore"`
	Currency            string          `json:"currency"`
}

// RecentTransactionLimit caps the dashboard's recent transaction list
const RecentTransactionLimit = 10

// DashboardData is the combined payload behind the dashboard screen
type DashboardData struct {
	Summary            DashboardTotals    `json:"summary"`
	RecentTransactions []*Transaction     `json:"recentTransactions"`
	Budgets            []*Budget          `json:"budgets"`
	OverdueInvoices    []*Invoice         `json:"overdueInvoices"`
	CreditScore        *CreditScoreRecord `json:"creditScore"`
	Businesses         []BusinessSummary  `json:"businesses"`
}

// DashboardTotals are the income/expense totals shown on the dashboard
type DashboardTotals struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
	Currency      string          `json:"currency"`
}
