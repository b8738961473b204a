package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/analytics"
	"github.com/kavi/kavi-backend/internal/cache"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/util"
)

// DefaultHealthPeriodDays is the health window used when none is given
const DefaultHealthPeriodDays = 30

// ScoringService computes financial health and credit scores
type ScoringService struct {
	ledger       *LedgerService
	businessRepo domain.BusinessRepository
	scorer       analytics.CreditScorer
	clock        util.Clock
	cache        *cache.Cache
}

// NewScoringService creates a new ScoringService. The cache may be nil, in
// which case every call computes.
func NewScoringService(
	ledger *LedgerService,
	businessRepo domain.BusinessRepository,
	scorer analytics.CreditScorer,
	clock util.Clock,
	c *cache.Cache,
) *ScoringService {
	if scorer == nil {
		scorer = analytics.NewWeightedCreditScorer()
	}
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &ScoringService{
		ledger:       ledger,
		businessRepo: businessRepo,
		scorer:       scorer,
		clock:        clock,
		cache:        c,
	}
}

// ComputeFinancialHealth scores a business over the trailing periodDays.
// Transactions are limited to the window; invoices and budgets are not.
func (s *ScoringService) ComputeFinancialHealth(ctx context.Context, businessID, userID uuid.UUID, periodDays int) (*domain.HealthResult, error) {
	if periodDays <= 0 {
		return nil, domain.ErrInvalidPeriod
	}
	if _, err := s.businessRepo.GetByIDForOwner(ctx, businessID, userID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	since := now.AddDate(0, 0, -periodDays)

	txs, err := s.ledger.FetchTransactions(ctx, &businessID, userID, since, time.Time{})
	if err != nil {
		return nil, err
	}
	invoices, err := s.ledger.FetchInvoices(ctx, &businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	budgets, err := s.ledger.FetchBudgets(ctx, &businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	result := analytics.AssessHealth(analytics.CollectHealthMetrics(txs, invoices, budgets))
	result.BusinessID = businessID
	result.PeriodDays = periodDays
	result.ComputedAt = now
	return &result, nil
}

// FinancialHealth is ComputeFinancialHealth behind the read-through cache
func (s *ScoringService) FinancialHealth(ctx context.Context, businessID, userID uuid.UUID, periodDays int) (*domain.HealthResult, error) {
	key := cache.Key(cache.NamespaceHealth, userID, &businessID, strconv.Itoa(periodDays))
	return cached(ctx, s.cache, key, func(ctx context.Context) (*domain.HealthResult, error) {
		return s.ComputeFinancialHealth(ctx, businessID, userID, periodDays)
	})
}

// ComputeCreditScore scores a business from its full ledger history
func (s *ScoringService) ComputeCreditScore(ctx context.Context, businessID, userID uuid.UUID) (*domain.ScoreResult, error) {
	business, err := s.businessRepo.GetByIDForOwner(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.ledger.FetchTransactions(ctx, &businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	invoices, err := s.ledger.FetchInvoices(ctx, &businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	result := s.scorer.Score(analytics.CreditInput{
		BusinessID:    businessID,
		Factors:       analytics.CollectCreditFactors(txs, invoices, business, now.Year()),
		BusinessModel: business.BusinessModel,
		EmployeeCount: business.EmployeeCount,
		ComputedAt:    now,
	})
	return &result, nil
}
