// Package analytics holds the pure calculators behind health scores, credit
// scores, forecasts and supplier insights. Nothing here performs I/O.
package analytics

import (
	"math"

	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Defaults returned when a metric has no data to work with
const (
	DefaultPaymentHistory   = 100.0
	DefaultBusinessAge      = 50.0
	DefaultRevenueStability = 50.0

	minStabilitySamples = 3
)

// LedgerTotals holds income and expense sums of a transaction set
type LedgerTotals struct {
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	IncomeCount  int
	ExpenseCount int
}

// NetProfit is income minus expenses
func (t LedgerTotals) NetProfit() decimal.Decimal {
	return t.Income.Sub(t.Expenses)
}

// SumByType totals transactions by their type
func SumByType(txs []*domain.Transaction) LedgerTotals {
	totals := LedgerTotals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionTypeIncome:
			totals.Income = totals.Income.Add(tx.Amount)
			totals.IncomeCount++
		case domain.TransactionTypeExpense:
			totals.Expenses = totals.Expenses.Add(tx.Amount)
			totals.ExpenseCount++
		}
	}
	return totals
}

// PaymentHistory returns the share of paid invoices as a percentage.
// With no invoices there is nothing to penalize and the result is 100.
func PaymentHistory(invoices []*domain.Invoice) float64 {
	if len(invoices) == 0 {
		return DefaultPaymentHistory
	}
	paid := 0
	for _, inv := range invoices {
		if inv.Status == domain.InvoiceStatusPaid {
			paid++
		}
	}
	return float64(paid) / float64(len(invoices)) * 100
}

// CreditUtilization returns expenses as a percentage of income, or 0 without income
func CreditUtilization(txs []*domain.Transaction) float64 {
	return expenseRatio(SumByType(txs))
}

// DebtToIncome uses the same expense/income ratio as CreditUtilization
func DebtToIncome(txs []*domain.Transaction) float64 {
	return expenseRatio(SumByType(txs))
}

func expenseRatio(totals LedgerTotals) float64 {
	if totals.Income.IsZero() {
		return 0
	}
	return totals.Expenses.Div(totals.Income).Mul(hundred).InexactFloat64()
}

// BusinessAgeScore maps the years since founding to a score bucket.
// An unknown founding year scores 50.
func BusinessAgeScore(yearFounded *int, nowYear int) float64 {
	if yearFounded == nil || *yearFounded == 0 {
		return DefaultBusinessAge
	}
	age := nowYear - *yearFounded
	switch {
	case age >= 10:
		return 100
	case age >= 5:
		return 80
	case age >= 2:
		return 60
	default:
		return 40
	}
}

// RevenueStability scores the income transactions of txs by their coefficient
// of variation (population standard deviation over mean). Fewer than three
// income samples, or a zero mean, score 50.
func RevenueStability(txs []*domain.Transaction) float64 {
	amounts := make([]float64, 0, len(txs))
	for _, tx := range txs {
		if tx.IsIncome() {
			amounts = append(amounts, tx.Amount.InexactFloat64())
		}
	}
	if len(amounts) < minStabilitySamples {
		return DefaultRevenueStability
	}

	var sum float64
	for _, a := range amounts {
		sum += a
	}
	mean := sum / float64(len(amounts))
	if mean == 0 {
		return DefaultRevenueStability
	}

	var sq float64
	for _, a := range amounts {
		sq += (a - mean) * (a - mean)
	}
	cv := math.Sqrt(sq/float64(len(amounts))) / mean

	return math.Max(0, 100-cv*100)
}

// BudgetTotals sums the budgeted and spent amounts of active budgets
func BudgetTotals(budgets []*domain.Budget) (budgeted, spent decimal.Decimal) {
	budgeted, spent = decimal.Zero, decimal.Zero
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}
		budgeted = budgeted.Add(b.BudgetedAmount)
		spent = spent.Add(b.SpentAmount)
	}
	return budgeted, spent
}

// BudgetUtilization returns spent/budgeted over active budgets as a
// percentage, or 0 when nothing is budgeted
func BudgetUtilization(budgets []*domain.Budget) decimal.Decimal {
	budgeted, spent := BudgetTotals(budgets)
	if !budgeted.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(budgeted).Mul(hundred)
}
