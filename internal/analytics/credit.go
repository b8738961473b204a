package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
)

// CreditFactors are the 0-100 inputs of a credit score
type CreditFactors struct {
	PaymentHistory    float64
	CreditUtilization float64
	BusinessAge       float64
	RevenueStability  float64
	DebtToIncome      float64
}

// CollectCreditFactors derives the credit factors from the ledger and business profile
func CollectCreditFactors(txs []*domain.Transaction, invoices []*domain.Invoice, business *domain.Business, nowYear int) CreditFactors {
	return CreditFactors{
		PaymentHistory:    PaymentHistory(invoices),
		CreditUtilization: CreditUtilization(txs),
		BusinessAge:       BusinessAgeScore(business.YearFounded, nowYear),
		RevenueStability:  RevenueStability(txs),
		DebtToIncome:      DebtToIncome(txs),
	}
}

func (f CreditFactors) byName() map[string]float64 {
	return map[string]float64{
		domain.FactorPaymentHistory:    f.PaymentHistory,
		domain.FactorCreditUtilization: f.CreditUtilization,
		domain.FactorBusinessAge:       f.BusinessAge,
		domain.FactorRevenueStability:  f.RevenueStability,
		domain.FactorDebtToIncome:      f.DebtToIncome,
	}
}

// CreditInput is everything a CreditScorer needs
type CreditInput struct {
	BusinessID    uuid.UUID
	Factors       CreditFactors
	BusinessModel domain.BusinessModel
	EmployeeCount *int
	ComputedAt    time.Time
}

// CreditScorer turns credit factors into a score. Implementations must be deterministic.
type CreditScorer interface {
	Score(in CreditInput) domain.ScoreResult
}

// DefaultCreditWeights are the factor weights of WeightedCreditScorer
var DefaultCreditWeights = map[string]float64{
	domain.FactorPaymentHistory:    0.35,
	domain.FactorCreditUtilization: 0.30,
	domain.FactorBusinessAge:       0.15,
	domain.FactorRevenueStability:  0.15,
	domain.FactorDebtToIncome:      0.05,
}

var factorLabels = map[string]string{
	domain.FactorPaymentHistory:    "Payment history",
	domain.FactorCreditUtilization: "Credit utilization",
	domain.FactorBusinessAge:       "Business age",
	domain.FactorRevenueStability:  "Revenue stability",
	domain.FactorDebtToIncome:      "Debt-to-income",
}

// factorOrder fixes the summation order
var factorOrder = []string{
	domain.FactorPaymentHistory,
	domain.FactorCreditUtilization,
	domain.FactorBusinessAge,
	domain.FactorRevenueStability,
	domain.FactorDebtToIncome,
}

// Business profile adjustments
const (
	b2bBonus             = 10
	b2cBonus             = 5
	largeTeamBonus       = 5
	largeTeamMinEmployee = 10
)

// WeightedCreditScorer is a fixed-weight linear credit model
type WeightedCreditScorer struct {
	weights map[string]float64
}

// NewWeightedCreditScorer creates a scorer with the default weights
func NewWeightedCreditScorer() *WeightedCreditScorer {
	return &WeightedCreditScorer{weights: DefaultCreditWeights}
}

// Score computes the clamped 300-850 credit score with explanations and recommendations
func (s *WeightedCreditScorer) Score(in CreditInput) domain.ScoreResult {
	values := in.Factors.byName()

	var raw float64
	breakdown := make(map[string]domain.FactorDetail, len(factorOrder))
	for _, name := range factorOrder {
		v := values[name]
		raw += v * s.weights[name]
		breakdown[name] = domain.FactorDetail{
			Value:       v,
			Explanation: fmt.Sprintf("%s: %.1f%%", factorLabels[name], v),
		}
	}

	switch in.BusinessModel {
	case domain.BusinessModelB2B:
		raw += b2bBonus
	case domain.BusinessModelB2C:
		raw += b2cBonus
	}
	if in.EmployeeCount != nil && *in.EmployeeCount > largeTeamMinEmployee {
		raw += largeTeamBonus
	}

	score := ClampCreditScore(raw)
	return domain.ScoreResult{
		BusinessID:      in.BusinessID,
		Score:           score,
		Category:        CreditCategory(score),
		FactorBreakdown: breakdown,
		Recommendations: creditRecommendations(in.Factors),
		ComputedAt:      in.ComputedAt,
	}
}

// ClampCreditScore bounds a raw weighted sum to 300-850 and truncates it.
// NaN maps to the floor.
func ClampCreditScore(raw float64) int {
	if math.IsNaN(raw) {
		return domain.MinCreditScore
	}
	return int(math.Max(domain.MinCreditScore, math.Min(domain.MaxCreditScore, raw)))
}

// CreditCategory buckets a credit score
func CreditCategory(score int) domain.ScoreCategory {
	switch {
	case score >= 800:
		return domain.ScoreCategoryExcellent
	case score >= 740:
		return domain.ScoreCategoryVeryGood
	case score >= 670:
		return domain.ScoreCategoryGood
	case score >= 580:
		return domain.ScoreCategoryFair
	default:
		return domain.ScoreCategoryPoor
	}
}

func creditRecommendations(f CreditFactors) []string {
	recs := []string{}
	if f.PaymentHistory < 80 {
		recs = append(recs, "Improve payment history by paying bills on time")
	}
	if f.CreditUtilization > 70 {
		recs = append(recs, "Reduce credit utilization by paying down debts")
	}
	if f.BusinessAge < 60 {
		recs = append(recs, "Build business credit history over time")
	}
	return recs
}
