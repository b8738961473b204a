package analytics

import (
	"math"
	"sort"

	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/util"
	"github.com/shopspring/decimal"
)

// MonthlyTotal is the income booked in one calendar month
type MonthlyTotal struct {
	Month  string // YYYY-MM
	Amount decimal.Decimal
}

// BucketIncomeByMonth sums income transactions per calendar month, oldest first
func BucketIncomeByMonth(txs []*domain.Transaction) []MonthlyTotal {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if !tx.IsIncome() {
			continue
		}
		key := util.MonthKey(tx.OccurredAt)
		sums[key] = sums[key].Add(tx.Amount)
	}

	out := make([]MonthlyTotal, 0, len(sums))
	for month, amount := range sums {
		out = append(out, MonthlyTotal{Month: month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ForecastModel projects monthly revenue from observed monthly totals.
// With no history every model returns zeros, confidence 50 and a stable trend.
type ForecastModel interface {
	Forecast(history []MonthlyTotal, months int) domain.ForecastResult
}

// Confidence levels of the growth trend model
const (
	NoHistoryConfidence   = 50.0
	GrowthTrendConfidence = 85.0
	GrowthTrendRatePct    = 2.0
)

func emptyForecast(months int) domain.ForecastResult {
	projection := make([]decimal.Decimal, months)
	for i := range projection {
		projection[i] = decimal.Zero
	}
	return domain.ForecastResult{
		MonthlyProjection: projection,
		Confidence:        NoHistoryConfidence,
		Trend:             domain.TrendStable,
		GrowthRate:        0,
		Recommendations:   ForecastRecommendations(domain.TrendStable),
	}
}

// GrowthTrendModel averages the observed months and applies a fixed 2% step
// per projected month: avg * (1 + 0.02*i).
type GrowthTrendModel struct{}

// Forecast implements ForecastModel
func (GrowthTrendModel) Forecast(history []MonthlyTotal, months int) domain.ForecastResult {
	if len(history) == 0 {
		return emptyForecast(months)
	}

	total := decimal.Zero
	for _, m := range history {
		total = total.Add(m.Amount)
	}
	avg := total.Div(decimal.NewFromInt(int64(len(history))))

	step := decimal.NewFromFloat(GrowthTrendRatePct).Div(hundred)
	projection := make([]decimal.Decimal, months)
	for i := range projection {
		factor := decimal.NewFromInt(1).Add(step.Mul(decimal.NewFromInt(int64(i))))
		projection[i] = avg.Mul(factor).Round(2)
	}

	return domain.ForecastResult{
		MonthlyProjection: projection,
		Confidence:        GrowthTrendConfidence,
		Trend:             domain.TrendGrowing,
		GrowthRate:        GrowthTrendRatePct,
		Recommendations:   ForecastRecommendations(domain.TrendGrowing),
	}
}

// LinearTrendModel fits a least-squares line through the monthly totals and
// extends it. Confidence is the fit's R-squared as a percentage.
type LinearTrendModel struct {
	// StableBandPct is the monthly change, relative to the mean, below which
	// the trend is reported as stable
	StableBandPct float64
}

// Forecast implements ForecastModel
func (m LinearTrendModel) Forecast(history []MonthlyTotal, months int) domain.ForecastResult {
	if len(history) == 0 {
		return emptyForecast(months)
	}

	points := make([]float64, len(history))
	var sum float64
	for i, h := range history {
		points[i] = h.Amount.InexactFloat64()
		sum += points[i]
	}
	mean := sum / float64(len(points))
	slope, intercept, rSquared := linearRegression(points)

	var growthRate float64
	if mean != 0 {
		growthRate = slope / mean * 100
	}

	trend := domain.TrendStable
	switch {
	case growthRate > m.StableBandPct:
		trend = domain.TrendGrowing
	case growthRate < -m.StableBandPct:
		trend = domain.TrendDeclining
	}

	projection := make([]decimal.Decimal, months)
	for i := range projection {
		y := intercept + slope*float64(len(points)+i)
		projection[i] = decimal.NewFromFloat(math.Max(0, y)).Round(2)
	}

	return domain.ForecastResult{
		MonthlyProjection: projection,
		Confidence:        math.Round(rSquared*1000) / 10,
		Trend:             trend,
		GrowthRate:        math.Round(growthRate*100) / 100,
		Recommendations:   ForecastRecommendations(trend),
	}
}

// linearRegression fits y = intercept + slope*x for x = 0, 1, 2, ...
func linearRegression(points []float64) (slope, intercept, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		if n == 1 {
			return 0, points[0], 0
		}
		return 0, 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, y := range points {
		predicted := slope*float64(i) + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}

// ForecastRecommendations returns the planning advice for a trend
func ForecastRecommendations(trend domain.Trend) []string {
	switch trend {
	case domain.TrendGrowing:
		return []string{
			"Revenue is projected to grow - consider expanding capacity",
			"Plan for increased working capital needs",
		}
	case domain.TrendDeclining:
		return []string{
			"Revenue is declining - review pricing and marketing strategies",
			"Consider cost reduction measures",
		}
	default:
		return []string{}
	}
}
