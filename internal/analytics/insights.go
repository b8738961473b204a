package analytics

import "fmt"

// InsightKind identifies a rule that fired while assessing financial health
type InsightKind int

const (
	InsightPositiveCashFlow InsightKind = iota + 1
	InsightNegativeCashFlow
	InsightHighBudgetUtilization
	InsightLowBudgetUtilization
	InsightOverdueInvoices
	InsightLowTransactionVolume
)

// Insight thresholds
const (
	HighUtilizationPct   = 90.0
	LowUtilizationPct    = 50.0
	LowTransactionVolume = 10
)

// Insight is a fired rule together with the figure that triggered it
type Insight struct {
	Kind  InsightKind
	Count int
}

// String renders the insight as shown to users
func (i Insight) String() string {
	switch i.Kind {
	case InsightPositiveCashFlow:
		return "✅ Positive cash flow - business is profitable"
	case InsightNegativeCashFlow:
		return "⚠️ Negative cash flow - consider reducing expenses or increasing revenue"
	case InsightHighBudgetUtilization:
		return "⚠️ High budget utilization - monitor spending closely"
	case InsightLowBudgetUtilization:
		return "💡 Low budget utilization - consider reallocating funds"
	case InsightOverdueInvoices:
		return fmt.Sprintf("⚠️ %d overdue invoices - follow up with customers", i.Count)
	case InsightLowTransactionVolume:
		return "💡 Low transaction volume - consider marketing strategies"
	default:
		return ""
	}
}

var recommendationsByKind = map[InsightKind][]string{
	InsightNegativeCashFlow: {
		"Review expense categories and identify cost-saving opportunities",
		"Consider increasing prices or finding new revenue streams",
	},
	InsightHighBudgetUtilization: {
		"Set up budget alerts to prevent overspending",
		"Review and adjust budget allocations",
	},
	InsightOverdueInvoices: {
		"Implement automated payment reminders",
		"Consider offering early payment discounts",
	},
	InsightLowTransactionVolume: {
		"Develop a marketing strategy to attract more customers",
		"Analyze customer acquisition costs and ROI",
	},
}

var risksByKind = map[InsightKind][]string{
	InsightNegativeCashFlow:      {"Cash flow risk - potential liquidity issues"},
	InsightOverdueInvoices:       {"Credit risk - customers may default on payments"},
	InsightHighBudgetUtilization: {"Budget risk - potential overspending"},
}

var opportunitiesByKind = map[InsightKind][]string{
	InsightPositiveCashFlow:     {"Consider expanding operations or investing in growth"},
	InsightLowBudgetUtilization: {"Reallocate unused budget to growth initiatives"},
	InsightLowTransactionVolume: {"Focus on customer acquisition and retention"},
}

// GenerateInsights evaluates the health rules in their fixed order
func GenerateInsights(m HealthMetrics) []Insight {
	insights := make([]Insight, 0, 4)

	if m.NetProfit().IsPositive() {
		insights = append(insights, Insight{Kind: InsightPositiveCashFlow})
	} else {
		insights = append(insights, Insight{Kind: InsightNegativeCashFlow})
	}

	utilization := m.BudgetUtilization.InexactFloat64()
	if utilization > HighUtilizationPct {
		insights = append(insights, Insight{Kind: InsightHighBudgetUtilization})
	} else if utilization < LowUtilizationPct {
		insights = append(insights, Insight{Kind: InsightLowBudgetUtilization})
	}

	if m.OverdueInvoices > 0 {
		insights = append(insights, Insight{Kind: InsightOverdueInvoices, Count: m.OverdueInvoices})
	}

	if m.TransactionCount < LowTransactionVolume {
		insights = append(insights, Insight{Kind: InsightLowTransactionVolume})
	}

	return insights
}

// RenderInsights returns the display text of each insight
func RenderInsights(insights []Insight) []string {
	out := make([]string, 0, len(insights))
	for _, i := range insights {
		out = append(out, i.String())
	}
	return out
}

// Recommendations lists the actions suggested by the insights, in insight order
func Recommendations(insights []Insight) []string {
	return lookup(insights, recommendationsByKind)
}

// RiskFactors lists the risks implied by the insights
func RiskFactors(insights []Insight) []string {
	return lookup(insights, risksByKind)
}

// GrowthOpportunities lists the opportunities implied by the insights
func GrowthOpportunities(insights []Insight) []string {
	return lookup(insights, opportunitiesByKind)
}

func lookup(insights []Insight, table map[InsightKind][]string) []string {
	out := []string{}
	for _, i := range insights {
		out = append(out, table[i.Kind]...)
	}
	return out
}
