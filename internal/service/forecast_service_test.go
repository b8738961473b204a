package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/analytics"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastService_NoHistory(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	svc := NewForecastService(f.ledger, f.businesses, nil, f.clock, nil)

	result, err := svc.GenerateForecast(context.Background(), b.ID, owner, 0)
	require.NoError(t, err)

	require.Len(t, result.MonthlyProjection, domain.DefaultForecastMonths)
	for _, v := range result.MonthlyProjection {
		assert.True(t, v.IsZero())
	}
	assert.Equal(t, 50.0, result.Confidence)
	assert.Equal(t, domain.TrendStable, result.Trend)
	assert.Equal(t, 0.0, result.GrowthRate)
	assert.Empty(t, result.Recommendations)
}

func TestForecastService_ProjectsFromWindowedIncome(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	f.addTx(b, domain.TransactionTypeIncome, 3000, 10)  // June
	f.addTx(b, domain.TransactionTypeIncome, 1000, 40)  // May
	f.addTx(b, domain.TransactionTypeExpense, 5000, 12) // ignored
	f.addTx(b, domain.TransactionTypeIncome, 9000, 100) // outside 3x30 days

	svc := NewForecastService(f.ledger, f.businesses, nil, f.clock, nil)
	result, err := svc.GenerateForecast(context.Background(), b.ID, owner, 3)
	require.NoError(t, err)

	want := []string{"2000", "2040", "2080"}
	require.Len(t, result.MonthlyProjection, len(want))
	for i, w := range want {
		assert.True(t, result.MonthlyProjection[i].Equal(decimal.RequireFromString(w)), "month %d: got %s", i, result.MonthlyProjection[i])
	}
	assert.Equal(t, 85.0, result.Confidence)
	assert.Equal(t, domain.TrendGrowing, result.Trend)
	assert.Equal(t, 2.0, result.GrowthRate)
	assert.Len(t, result.Recommendations, 2)
}

func TestForecastService_CapsMonths(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	svc := NewForecastService(f.ledger, f.businesses, nil, f.clock, nil)

	result, err := svc.GenerateForecast(context.Background(), b.ID, owner, 100)
	require.NoError(t, err)
	assert.Len(t, result.MonthlyProjection, domain.MaxForecastMonths)
}

func TestForecastService_SubstituteModel(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	f.addTx(b, domain.TransactionTypeIncome, 3000, 70)
	f.addTx(b, domain.TransactionTypeIncome, 2000, 40)
	f.addTx(b, domain.TransactionTypeIncome, 1000, 5)

	svc := NewForecastService(f.ledger, f.businesses, analytics.LinearTrendModel{StableBandPct: 1}, f.clock, nil)
	result, err := svc.GenerateForecast(context.Background(), b.ID, owner, 3)
	require.NoError(t, err)

	assert.Len(t, result.MonthlyProjection, 3)
	assert.Equal(t, domain.TrendDeclining, result.Trend)
	assert.Equal(t, analytics.ForecastRecommendations(domain.TrendDeclining), result.Recommendations)
}

func TestForecastService_ArchivesSnapshot(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	f.addTx(b, domain.TransactionTypeIncome, 1000, 5)

	svc := NewForecastService(f.ledger, f.businesses, nil, f.clock, f.archive)
	result, err := svc.GenerateForecast(context.Background(), b.ID, owner, 6)
	require.NoError(t, err)

	require.Len(t, f.archive.Objects, 1)
	for path, snapshot := range f.archive.Objects {
		assert.True(t, strings.HasPrefix(path, "forecasts/"+owner.String()+"/"+b.ID.String()+"/2025/06/"))
		assert.Equal(t, result, snapshot)
	}
}

func TestForecastService_ArchiveFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.archive.ArchiveFn = func(string, any) error { return errors.New("bucket unavailable") }
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")

	svc := NewForecastService(f.ledger, f.businesses, nil, f.clock, f.archive)
	_, err := svc.GenerateForecast(context.Background(), b.ID, owner, 6)
	assert.NoError(t, err)
}

func TestForecastService_BusinessNotOwned(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	b := f.addBusiness(owner, "Duka Ltd")
	f.addTx(b, domain.TransactionTypeIncome, 1000, 5)
	svc := NewForecastService(f.ledger, f.businesses, nil, f.clock, f.archive)

	tests := []struct {
		name       string
		businessID uuid.UUID
		userID     uuid.UUID
	}{
		{"another user's business", b.ID, uuid.New()},
		{"unknown business", uuid.New(), owner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GenerateForecast(context.Background(), tt.businessID, tt.userID, 6)
			assert.ErrorIs(t, err, domain.ErrBusinessNotFound)
			assert.Nil(t, result)
		})
	}
	assert.Empty(t, f.archive.Objects)
}
