package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/analytics"
	"github.com/kavi/kavi-backend/internal/cache"
	"github.com/kavi/kavi-backend/internal/domain"
)

// SupplierService produces supplier negotiation insights from expenses
type SupplierService struct {
	ledger       *LedgerService
	businessRepo domain.BusinessRepository
	provider     analytics.NegotiationInsightProvider
	cache        *cache.Cache
}

// NewSupplierService creates a new SupplierService. A nil provider uses the
// rule-based advisor.
func NewSupplierService(ledger *LedgerService, businessRepo domain.BusinessRepository, provider analytics.NegotiationInsightProvider, c *cache.Cache) *SupplierService {
	if provider == nil {
		provider = analytics.RuleBasedNegotiationAdvisor{}
	}
	return &SupplierService{
		ledger:       ledger,
		businessRepo: businessRepo,
		provider:     provider,
		cache:        c,
	}
}

// NegotiationInsights analyzes every expense of the business
func (s *SupplierService) NegotiationInsights(ctx context.Context, businessID, userID uuid.UUID) (*domain.NegotiationInsights, error) {
	key := cache.Key(cache.NamespaceSuppliers, userID, &businessID, cache.AllTimeWindow)
	return cached(ctx, s.cache, key, func(ctx context.Context) (*domain.NegotiationInsights, error) {
		if _, err := s.businessRepo.GetByIDForOwner(ctx, businessID, userID); err != nil {
			return nil, err
		}
		txs, err := s.ledger.FetchTransactions(ctx, &businessID, userID, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}
		result := s.provider.NegotiationInsights(txs)
		return &result, nil
	})
}
