package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Credit score bounds
const (
	MinCreditScore = 300
	MaxCreditScore = 850
	MinHealthScore = 0
	MaxHealthScore = 100
)

type ScoreCategory string

const (
	ScoreCategoryExcellent ScoreCategory = "Excellent"
	ScoreCategoryVeryGood  ScoreCategory = "Very Good"
	ScoreCategoryGood      ScoreCategory = "Good"
	ScoreCategoryFair      ScoreCategory = "Fair"
	ScoreCategoryPoor      ScoreCategory = "Poor"
)

// Credit score factor names
const (
	FactorPaymentHistory    = "payment_history"
	FactorCreditUtilization = "credit_utilization"
	FactorBusinessAge       = "business_age"
	FactorRevenueStability  = "revenue_stability"
	FactorDebtToIncome      = "debt_to_income"
)

// FactorDetail is a single scoring input with its human-readable explanation
type FactorDetail struct {
	Value       float64 `json:"value"`
	Explanation string  `json:"explanation"`
}

// ScoreResult is a computed credit score. Everything except ComputedAt is a
// pure function of the ledger and business profile.
type ScoreResult struct {
	BusinessID      uuid.UUID               `json:"businessId"`
	Score           int                     `json:"score"`
	Category        ScoreCategory           `json:"category"`
	FactorBreakdown map[string]FactorDetail `json:"factorBreakdown"`
	Recommendations []string                `json:"recommendations"`
	ComputedAt      time.Time               `json:"computedAt"`
}

// HealthResult is the financial health assessment of a business over a window
type HealthResult struct {
	BusinessID          uuid.UUID       `json:"businessId"`
	PeriodDays          int             `json:"periodDays"`
	Score               int             `json:"score"`
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	NetProfit           decimal.Decimal `json:"netProfit"`
	BudgetUtilization   float64         `json:"budgetUtilization"`
	OutstandingInvoices int             `json:"outstandingInvoices"`
	OverdueInvoices     int             `json:"overdueInvoices"`
	TransactionCount    int             `json:"transactionCount"`
	Insights            []string        `json:"insights"`
	Recommendations     []string        `json:"recommendations"`
	RiskFactors         []string        `json:"riskFactors"`
	GrowthOpportunities []string        `json:"growthOpportunities"`
	ComputedAt          time.Time       `json:"computedAt"`
}

// CreditScoreRecord is a stored credit score used by summaries and dashboards
type CreditScoreRecord struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"userId"`
	BusinessID uuid.UUID     `json:"businessId"`
	Score      int           `json:"score"`
	Category   ScoreCategory `json:"category"`
	Result     *ScoreResult  `json:"result"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// ScoreHistoryRepository stores computed credit scores
type ScoreHistoryRepository interface {
	Save(ctx context.Context, record *CreditScoreRecord) error
	// Latest returns the newest record for the user, optionally limited to one business.
	// It returns ErrNotFound when the user has no scores.
	Latest(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID) (*CreditScoreRecord, error)
}
