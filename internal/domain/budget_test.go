package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBudgetUtilization(t *testing.T) {
	tests := []struct {
		name      string
		budgeted  int64
		spent     int64
		threshold int64
		util      string
		over      bool
		near      bool
	}{
		{"quarter spent", 1000, 250, 80, "25", false, false},
		{"at threshold", 1000, 800, 80, "80", false, true},
		{"exactly spent", 1000, 1000, 80, "100", false, true},
		{"over budget", 1000, 1200, 80, "120", true, true},
		{"nothing budgeted", 0, 50, 80, "0", true, true},
		{"nothing spent", 500, 0, 80, "0", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Budget{
				BudgetedAmount:    decimal.NewFromInt(tt.budgeted),
				SpentAmount:       decimal.NewFromInt(tt.spent),
				AlertThresholdPct: decimal.NewFromInt(tt.threshold),
			}

			if got := b.Utilization(); !got.Equal(decimal.RequireFromString(tt.util)) {
				t.Errorf("Utilization() = %s, want %s", got, tt.util)
			}
			if got := b.IsOverBudget(); got != tt.over {
				t.Errorf("IsOverBudget() = %v, want %v", got, tt.over)
			}
			if got := b.IsNearLimit(); got != tt.near {
				t.Errorf("IsNearLimit() = %v, want %v", got, tt.near)
			}
		})
	}
}
