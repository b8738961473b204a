package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLedgerFilterContains(t *testing.T) {
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   LedgerFilter
		at       time.Time
		expected bool
	}{
		{"inside", LedgerFilter{Since: since, Until: until}, since.AddDate(0, 0, 10), true},
		{"lower bound inclusive", LedgerFilter{Since: since, Until: until}, since, true},
		{"upper bound exclusive", LedgerFilter{Since: since, Until: until}, until, false},
		{"before window", LedgerFilter{Since: since, Until: until}, since.Add(-time.Second), false},
		{"open upper bound", LedgerFilter{Since: since}, until.AddDate(1, 0, 0), true},
		{"open window", LedgerFilter{}, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Contains(tt.at); got != tt.expected {
				t.Errorf("Contains() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLedgerFilterMatchesBusiness(t *testing.T) {
	businessID := uuid.New()
	other := uuid.New()

	all := LedgerFilter{}
	if !all.MatchesBusiness(businessID) || !all.MatchesBusiness(other) {
		t.Error("Expected a nil business filter to match every business")
	}

	scoped := LedgerFilter{BusinessID: &businessID}
	if !scoped.MatchesBusiness(businessID) {
		t.Error("Expected scoped filter to match its business")
	}
	if scoped.MatchesBusiness(other) {
		t.Error("Expected scoped filter to reject another business")
	}
}

func TestLedgerFilterOverlaps(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	filter := TrailingWindow(uuid.New(), nil, now, 30)

	tests := []struct {
		name       string
		start, end time.Time
		expected   bool
	}{
		{"current month", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), true},
		{"straddles window start", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), true},
		{"ended before window", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), false},
		{"starts in the future", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.Overlaps(tt.start, tt.end); got != tt.expected {
				t.Errorf("Overlaps() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTrailingWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	businessID := uuid.New()

	filter := TrailingWindow(uuid.New(), &businessID, now, 7)

	if !filter.Since.Equal(time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected since 7 days before now, got %v", filter.Since)
	}
	if !filter.Until.IsZero() {
		t.Errorf("Expected open upper bound, got %v", filter.Until)
	}
	if !filter.Contains(now.Add(6 * time.Hour)) {
		t.Error("Expected rows later today to be in range")
	}
}
