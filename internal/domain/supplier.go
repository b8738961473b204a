package domain

import "github.com/shopspring/decimal"

// SupplierStats aggregates the expenses paid to one supplier
type SupplierStats struct {
	Supplier         string          `json:"supplier"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	TransactionCount int             `json:"transactionCount"`
	Categories       []string        `json:"categories"`
	AvgTransaction   decimal.Decimal `json:"avgTransaction"`
}

// NegotiationInsights is the supplier negotiation report of a business
type NegotiationInsights struct {
	Suppliers       []SupplierStats `json:"suppliers"`
	Insights        []string        `json:"insights"`
	Recommendations []string        `json:"recommendations"`
}
