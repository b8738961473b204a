package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/analytics"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/repository/storage"
	"github.com/kavi/kavi-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// ForecastService projects monthly revenue from income history
type ForecastService struct {
	ledger       *LedgerService
	businessRepo domain.BusinessRepository
	model        analytics.ForecastModel
	clock        util.Clock
	archive      storage.SnapshotArchive
}

// NewForecastService creates a new ForecastService. A nil model uses the
// fixed growth heuristic; a nil archive skips snapshotting.
func NewForecastService(
	ledger *LedgerService,
	businessRepo domain.BusinessRepository,
	model analytics.ForecastModel,
	clock util.Clock,
	archive storage.SnapshotArchive,
) *ForecastService {
	if model == nil {
		model = analytics.GrowthTrendModel{}
	}
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &ForecastService{
		ledger:       ledger,
		businessRepo: businessRepo,
		model:        model,
		clock:        clock,
		archive:      archive,
	}
}

// normalizeForecastMonths applies the default and the upper bound
func normalizeForecastMonths(months int) int {
	if months <= 0 {
		return domain.DefaultForecastMonths
	}
	return min(months, domain.MaxForecastMonths)
}

// GenerateForecast projects the next months of revenue. History covers the
// same number of months back, counted as 30-day blocks.
func (s *ForecastService) GenerateForecast(ctx context.Context, businessID, userID uuid.UUID, months int) (*domain.ForecastResult, error) {
	if _, err := s.businessRepo.GetByIDForOwner(ctx, businessID, userID); err != nil {
		return nil, err
	}

	months = normalizeForecastMonths(months)
	now := s.clock.Now()
	since := now.AddDate(0, 0, -util.DaysForMonths(months))

	txs, err := s.ledger.FetchTransactions(ctx, &businessID, userID, since, time.Time{})
	if err != nil {
		return nil, err
	}

	result := s.model.Forecast(analytics.BucketIncomeByMonth(txs), months)
	result.Recommendations = analytics.ForecastRecommendations(result.Trend)

	s.snapshot(ctx, businessID, userID, now, &result)
	return &result, nil
}

func (s *ForecastService) snapshot(ctx context.Context, businessID, userID uuid.UUID, at time.Time, result *domain.ForecastResult) {
	if s.archive == nil {
		return
	}
	objectPath := storage.SnapshotPath("forecasts", userID, businessID, at, uuid.New())
	if err := s.archive.Archive(ctx, objectPath, result); err != nil {
		log.Warn().Err(err).Str("path", objectPath).Msg("Failed to archive forecast snapshot")
	}
}
