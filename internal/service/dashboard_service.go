package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/analytics"
	"github.com/kavi/kavi-backend/internal/cache"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/util"
	"github.com/shopspring/decimal"
)

// DefaultPeriodDays is the analytics window used when none is given
const DefaultPeriodDays = 30

// DashboardService builds the aggregate views behind the dashboard screens
type DashboardService struct {
	ledger       *LedgerService
	businessRepo domain.BusinessRepository
	history      *ScoreHistoryService
	clock        util.Clock
	cache        *cache.Cache
}

// NewDashboardService creates a new DashboardService. The cache may be nil.
func NewDashboardService(
	ledger *LedgerService,
	businessRepo domain.BusinessRepository,
	history *ScoreHistoryService,
	clock util.Clock,
	c *cache.Cache,
) *DashboardService {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &DashboardService{
		ledger:       ledger,
		businessRepo: businessRepo,
		history:      history,
		clock:        clock,
		cache:        c,
	}
}

// cached runs fn behind the read-through cache when one is configured
func cached[T any](ctx context.Context, c *cache.Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fn(ctx)
	}
	return cache.GetOrCompute(ctx, c, key, 0, fn)
}

// checkBusiness verifies that an optional business belongs to the user
func (s *DashboardService) checkBusiness(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID) error {
	if businessID == nil {
		return nil
	}
	_, err := s.businessRepo.GetByIDForOwner(ctx, *businessID, userID)
	return err
}

func (s *DashboardService) windowStart(periodDays int) (time.Time, error) {
	if periodDays <= 0 {
		return time.Time{}, domain.ErrInvalidPeriod
	}
	return s.clock.Now().AddDate(0, 0, -periodDays), nil
}

// ComputeBudgetAnalytics summarizes every budget of the owner, optionally
// for one business. Totals and counts other than TotalBudgets only cover
// active budgets.
func (s *DashboardService) ComputeBudgetAnalytics(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID) (*domain.BudgetAnalytics, error) {
	if err := s.checkBusiness(ctx, businessID, userID); err != nil {
		return nil, err
	}
	budgets, err := s.ledger.FetchBudgets(ctx, businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	result := &domain.BudgetAnalytics{
		TotalBudgets: len(budgets),
		Currency:     domain.DefaultCurrency,
	}
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}
		result.ActiveBudgets++
		if b.IsOverBudget() {
			result.OverBudgetCount++
		}
		if b.IsNearLimit() {
			result.NearLimitCount++
		}
	}
	result.TotalBudgeted, result.TotalSpent = analytics.BudgetTotals(budgets)
	result.BudgetUtilization = analytics.BudgetUtilization(budgets).Round(2)
	return result, nil
}

// BudgetAnalytics is ComputeBudgetAnalytics behind the read-through cache
func (s *DashboardService) BudgetAnalytics(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID) (*domain.BudgetAnalytics, error) {
	key := cache.Key(cache.NamespaceBudgets, userID, businessID, cache.AllTimeWindow)
	return cached(ctx, s.cache, key, func(ctx context.Context) (*domain.BudgetAnalytics, error) {
		return s.ComputeBudgetAnalytics(ctx, businessID, userID)
	})
}

// TransactionAnalytics aggregates the transactions of the trailing window
func (s *DashboardService) TransactionAnalytics(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, periodDays int) (*domain.TransactionAnalytics, error) {
	key := cache.Key(cache.NamespaceTransactions, userID, businessID, strconv.Itoa(periodDays))
	return cached(ctx, s.cache, key, func(ctx context.Context) (*domain.TransactionAnalytics, error) {
		return s.computeTransactionAnalytics(ctx, businessID, userID, periodDays)
	})
}

func (s *DashboardService) computeTransactionAnalytics(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, periodDays int) (*domain.TransactionAnalytics, error) {
	since, err := s.windowStart(periodDays)
	if err != nil {
		return nil, err
	}
	if err := s.checkBusiness(ctx, businessID, userID); err != nil {
		return nil, err
	}
	txs, err := s.ledger.FetchTransactions(ctx, businessID, userID, since, time.Time{})
	if err != nil {
		return nil, err
	}

	result := &domain.TransactionAnalytics{
		PeriodDays:         periodDays,
		TotalTransactions:  len(txs),
		TotalAmount:        decimal.Zero,
		AverageTransaction: decimal.Zero,
		Currency:           domain.DefaultCurrency,
	}

	var categories []domain.CategoryTotal
	categoryIdx := make(map[string]int)
	var methods []domain.PaymentMethodTotal
	methodIdx := make(map[string]int)

	for _, tx := range txs {
		result.TotalAmount = result.TotalAmount.Add(tx.Amount)
		switch tx.Type {
		case domain.TransactionTypeIncome:
			result.IncomeCount++
		case domain.TransactionTypeExpense:
			result.ExpenseCount++
		}

		i, ok := categoryIdx[tx.Category]
		if !ok {
			i = len(categories)
			categoryIdx[tx.Category] = i
			categories = append(categories, domain.CategoryTotal{Category: tx.Category, Total: decimal.Zero})
		}
		categories[i].Count++
		categories[i].Total = categories[i].Total.Add(tx.Amount)

		j, ok := methodIdx[tx.PaymentMethod]
		if !ok {
			j = len(methods)
			methodIdx[tx.PaymentMethod] = j
			methods = append(methods, domain.PaymentMethodTotal{PaymentMethod: tx.PaymentMethod, Total: decimal.Zero})
		}
		methods[j].Count++
		methods[j].Total = methods[j].Total.Add(tx.Amount)
	}

	if len(txs) > 0 {
		result.AverageTransaction = result.TotalAmount.Div(decimal.NewFromInt(int64(len(txs)))).Round(2)
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Total.GreaterThan(categories[j].Total)
	})
	if len(categories) > domain.TopCategoryLimit {
		categories = categories[:domain.TopCategoryLimit]
	}
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Total.GreaterThan(methods[j].Total)
	})

	result.TopCategories = append([]domain.CategoryTotal{}, categories...)
	result.PaymentMethods = append([]domain.PaymentMethodTotal{}, methods...)
	return result, nil
}

// FinancialSummary returns the headline figures of the trailing window.
// Invoice totals and budget utilization are not windowed.
func (s *DashboardService) FinancialSummary(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, periodDays int) (*domain.FinancialSummary, error) {
	key := cache.Key(cache.NamespaceSummary, userID, businessID, strconv.Itoa(periodDays))
	return cached(ctx, s.cache, key, func(ctx context.Context) (*domain.FinancialSummary, error) {
		return s.computeFinancialSummary(ctx, businessID, userID, periodDays)
	})
}

func (s *DashboardService) computeFinancialSummary(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, periodDays int) (*domain.FinancialSummary, error) {
	since, err := s.windowStart(periodDays)
	if err != nil {
		return nil, err
	}
	if err := s.checkBusiness(ctx, businessID, userID); err != nil {
		return nil, err
	}

	txs, err := s.ledger.FetchTransactions(ctx, businessID, userID, since, time.Time{})
	if err != nil {
		return nil, err
	}
	invoices, err := s.ledger.FetchInvoices(ctx, businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	budgets, err := s.ledger.FetchBudgets(ctx, businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	totals := analytics.SumByType(txs)
	result := &domain.FinancialSummary{
		TotalIncome:         totals.Income,
		TotalExpenses:       totals.Expenses,
		NetProfit:           totals.NetProfit(),
		CashFlow:            totals.NetProfit(),
		OutstandingInvoices: decimal.Zero,
		OverdueInvoices:     decimal.Zero,
		BudgetUtilization:   analytics.BudgetUtilization(budgets).Round(2),
		Currency:            domain.DefaultCurrency,
	}
	for _, inv := range invoices {
		if inv.Status.IsOutstanding() {
			result.OutstandingInvoices = result.OutstandingInvoices.Add(inv.TotalAmount)
		}
		if inv.Status == domain.InvoiceStatusOverdue {
			result.OverdueInvoices = result.OverdueInvoices.Add(inv.TotalAmount)
		}
	}

	latest, err := s.history.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		result.CreditScore = latest.Score
	}
	return result, nil
}

// DashboardData returns everything the dashboard screen shows
func (s *DashboardService) DashboardData(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, periodDays int) (*domain.DashboardData, error) {
	key := cache.Key(cache.NamespaceDashboard, userID, businessID, strconv.Itoa(periodDays))
	return cached(ctx, s.cache, key, func(ctx context.Context) (*domain.DashboardData, error) {
		return s.computeDashboardData(ctx, businessID, userID, periodDays)
	})
}

func (s *DashboardService) computeDashboardData(ctx context.Context, businessID *uuid.UUID, userID uuid.UUID, periodDays int) (*domain.DashboardData, error) {
	since, err := s.windowStart(periodDays)
	if err != nil {
		return nil, err
	}

	owned, err := s.businessRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	businesses := make([]domain.BusinessSummary, 0, len(owned))
	for _, b := range owned {
		if businessID != nil && b.ID != *businessID {
			continue
		}
		businesses = append(businesses, domain.BusinessSummary{ID: b.ID, Name: b.LegalName})
	}
	if businessID != nil && len(businesses) == 0 {
		return nil, domain.ErrBusinessNotFound
	}

	txs, err := s.ledger.FetchTransactions(ctx, businessID, userID, since, time.Time{})
	if err != nil {
		return nil, err
	}
	budgets, err := s.ledger.FetchBudgets(ctx, businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	invoices, err := s.ledger.FetchInvoices(ctx, businessID, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	totals := analytics.SumByType(txs)
	data := &domain.DashboardData{
		Summary: domain.DashboardTotals{
			TotalIncome:   totals.Income,
			TotalExpenses: totals.Expenses,
			NetProfit:     totals.NetProfit(),
			Currency:      domain.DefaultCurrency,
		},
		RecentTransactions: txs[:min(len(txs), domain.RecentTransactionLimit)],
		Budgets:            make([]*domain.Budget, 0),
		OverdueInvoices:    make([]*domain.Invoice, 0),
		Businesses:         businesses,
	}
	for _, b := range budgets {
		if b.IsActive {
			data.Budgets = append(data.Budgets, b)
		}
	}
	for _, inv := range invoices {
		if inv.Status == domain.InvoiceStatusOverdue {
			data.OverdueInvoices = append(data.OverdueInvoices, inv)
		}
	}

	data.CreditScore, err = s.history.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data, nil
}
