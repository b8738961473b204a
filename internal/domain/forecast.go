package domain

import (
	"github.com/shopspring/decimal"
)

type Trend string

const (
	TrendGrowing   Trend = "growing"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Forecast defaults
const (
	DefaultForecastMonths = 6
	MaxForecastMonths     = 24
)

// ForecastResult is a monthly revenue projection
type ForecastResult struct {
	MonthlyProjection []decimal.Decimal `json:"monthlyProjection"`
	Confidence        float64           `json:"confidence"`
	Trend             Trend             `json:"trend"`
	GrowthRate        float64           `json:"growthRate"`
	Recommendations   []string          `json:"recommendations"`
}
