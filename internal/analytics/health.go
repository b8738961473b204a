package analytics

import (
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// HealthMetrics are the figures a health assessment is derived from
type HealthMetrics struct {
	TotalIncome         decimal.Decimal
	TotalExpenses       decimal.Decimal
	BudgetUtilization   decimal.Decimal
	OutstandingInvoices int
	OverdueInvoices     int
	TransactionCount    int
}

// NetProfit is income minus expenses
func (m HealthMetrics) NetProfit() decimal.Decimal {
	return m.TotalIncome.Sub(m.TotalExpenses)
}

// CollectHealthMetrics reduces ledger rows to HealthMetrics
func CollectHealthMetrics(txs []*domain.Transaction, invoices []*domain.Invoice, budgets []*domain.Budget) HealthMetrics {
	totals := SumByType(txs)
	m := HealthMetrics{
		TotalIncome:       totals.Income,
		TotalExpenses:     totals.Expenses,
		BudgetUtilization: BudgetUtilization(budgets),
		TransactionCount:  len(txs),
	}
	for _, inv := range invoices {
		if inv.Status.IsOutstanding() {
			m.OutstandingInvoices++
		}
		if inv.Status == domain.InvoiceStatusOverdue {
			m.OverdueInvoices++
		}
	}
	return m
}

// overdue counts above this already pin the score to the floor
const maxPenalizedOverdue = 100

// HealthScore computes the 0-100 financial health score
func HealthScore(netProfit decimal.Decimal, budgetUtilization float64, overdueCount int) int {
	score := 50

	if netProfit.IsPositive() {
		score += 20
	} else {
		score -= 30
	}

	switch {
	case budgetUtilization >= 70 && budgetUtilization <= 90:
		score += 10
	case budgetUtilization > 90:
		score -= 20
	case budgetUtilization < 50:
		score -= 10
	}

	if overdueCount <= 0 {
		score += 10
	} else {
		score -= min(overdueCount, maxPenalizedOverdue) * 5
	}

	return max(domain.MinHealthScore, min(domain.MaxHealthScore, score))
}

// AssessHealth builds the full health result from metrics. BusinessID,
// PeriodDays and ComputedAt are left for the caller.
func AssessHealth(m HealthMetrics) domain.HealthResult {
	insights := GenerateInsights(m)
	return domain.HealthResult{
		Score:               HealthScore(m.NetProfit(), m.BudgetUtilization.InexactFloat64(), m.OverdueInvoices),
		TotalIncome:         m.TotalIncome,
		TotalExpenses:       m.TotalExpenses,
		NetProfit:           m.NetProfit(),
		BudgetUtilization:   m.BudgetUtilization.Round(2).InexactFloat64(),
		OutstandingInvoices: m.OutstandingInvoices,
		OverdueInvoices:     m.OverdueInvoices,
		TransactionCount:    m.TransactionCount,
		Insights:            RenderInsights(insights),
		Recommendations:     Recommendations(insights),
		RiskFactors:         RiskFactors(insights),
		GrowthOpportunities: GrowthOpportunities(insights),
	}
}
