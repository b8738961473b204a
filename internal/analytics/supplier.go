package analytics

import (
	"fmt"

	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SupplierInsightKind identifies a supplier negotiation rule
type SupplierInsightKind int

const (
	SupplierHighValue SupplierInsightKind = iota + 1
	SupplierFrequent
	SupplierLargeTransactions
)

// Supplier rule thresholds
var (
	HighValueSupplierTotal   = decimal.NewFromInt(10000)
	LargeSupplierTransaction = decimal.NewFromInt(1000)
)

const FrequentSupplierCount = 20

// SupplierInsight is a negotiation opportunity with one supplier
type SupplierInsight struct {
	Kind     SupplierInsightKind
	Supplier string
}

func (i SupplierInsight) String() string {
	switch i.Kind {
	case SupplierHighValue:
		return fmt.Sprintf("High-value supplier: %s - leverage volume for better terms", i.Supplier)
	case SupplierFrequent:
		return fmt.Sprintf("Frequent supplier: %s - negotiate bulk discounts", i.Supplier)
	case SupplierLargeTransactions:
		return fmt.Sprintf("High-value transactions with %s - negotiate payment terms", i.Supplier)
	default:
		return ""
	}
}

var supplierRecommendations = map[SupplierInsightKind]string{
	SupplierHighValue:         "Request volume discounts and extended payment terms",
	SupplierFrequent:          "Negotiate annual contracts with better pricing",
	SupplierLargeTransactions: "Request payment terms extension to improve cash flow",
}

const defaultCategory = "general"

// AggregateSuppliers totals expense transactions per named supplier in
// order of first appearance
func AggregateSuppliers(txs []*domain.Transaction) []domain.SupplierStats {
	index := make(map[string]int)
	seenCategory := make(map[string]map[string]bool)
	stats := []domain.SupplierStats{}

	for _, tx := range txs {
		if !tx.IsExpense() || tx.Supplier == "" {
			continue
		}
		i, ok := index[tx.Supplier]
		if !ok {
			i = len(stats)
			index[tx.Supplier] = i
			seenCategory[tx.Supplier] = make(map[string]bool)
			stats = append(stats, domain.SupplierStats{
				Supplier:   tx.Supplier,
				TotalSpent: decimal.Zero,
				Categories: []string{},
			})
		}
		s := &stats[i]
		s.TotalSpent = s.TotalSpent.Add(tx.Amount)
		s.TransactionCount++

		category := tx.Category
		if category == "" {
			category = defaultCategory
		}
		if !seenCategory[tx.Supplier][category] {
			seenCategory[tx.Supplier][category] = true
			s.Categories = append(s.Categories, category)
		}
	}

	for i := range stats {
		stats[i].AvgTransaction = stats[i].TotalSpent.Div(decimal.NewFromInt(int64(stats[i].TransactionCount)))
	}
	return stats
}

// NegotiationInsightProvider produces supplier negotiation advice from expense history
type NegotiationInsightProvider interface {
	NegotiationInsights(txs []*domain.Transaction) domain.NegotiationInsights
}

// RuleBasedNegotiationAdvisor applies fixed spend thresholds per supplier
type RuleBasedNegotiationAdvisor struct{}

// NegotiationInsights implements NegotiationInsightProvider
func (RuleBasedNegotiationAdvisor) NegotiationInsights(txs []*domain.Transaction) domain.NegotiationInsights {
	suppliers := AggregateSuppliers(txs)

	result := domain.NegotiationInsights{
		Suppliers:       suppliers,
		Insights:        []string{},
		Recommendations: []string{},
	}
	for _, s := range suppliers {
		insight, ok := classifySupplier(s)
		if !ok {
			continue
		}
		result.Insights = append(result.Insights, insight.String())
		result.Recommendations = append(result.Recommendations, supplierRecommendations[insight.Kind])
	}
	return result
}

func classifySupplier(s domain.SupplierStats) (SupplierInsight, bool) {
	switch {
	case s.TotalSpent.GreaterThan(HighValueSupplierTotal):
		return SupplierInsight{Kind: SupplierHighValue, Supplier: s.Supplier}, true
	case s.TransactionCount > FrequentSupplierCount:
		return SupplierInsight{Kind: SupplierFrequent, Supplier: s.Supplier}, true
	case s.AvgTransaction.GreaterThan(LargeSupplierTransaction):
		return SupplierInsight{Kind: SupplierLargeTransactions, Supplier: s.Supplier}, true
	default:
		return SupplierInsight{}, false
	}
}
