package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/cache"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/testutil"
	"github.com/kavi/kavi-backend/internal/util"
	"github.com/shopspring/decimal"
)

var fixtureNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// fixture wires every service against in-memory repositories and a fixed clock
type fixture struct {
	clock      *util.FixedClock
	businesses *testutil.MockBusinessRepository
	txs        *testutil.MockTransactionRepository
	invoices   *testutil.MockInvoiceRepository
	budgets    *testutil.MockBudgetRepository
	scores     *testutil.MockScoreHistoryRepository
	archive    *testutil.MockSnapshotArchive
	publisher  *testutil.RecordingPublisher
	store      *cache.MemoryStore
	cache      *cache.Cache

	ledger      *LedgerService
	invalidator *Invalidator
	history     *ScoreHistoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := util.NewFixedClock(fixtureNow)
	store := cache.NewMemoryStore(clock, 0)
	t.Cleanup(store.Stop)

	f := &fixture{
		clock:      clock,
		businesses: testutil.NewMockBusinessRepository(),
		txs:        testutil.NewMockTransactionRepository(),
		invoices:   testutil.NewMockInvoiceRepository(),
		budgets:    testutil.NewMockBudgetRepository(),
		scores:     testutil.NewMockScoreHistoryRepository(),
		archive:    testutil.NewMockSnapshotArchive(),
		publisher:  testutil.NewRecordingPublisher(),
		store:      store,
		cache:      cache.New(store, 0),
	}
	f.ledger = NewLedgerService(f.txs, f.invoices, f.budgets)
	f.invalidator = NewInvalidator(f.cache, f.publisher)
	f.history = NewScoreHistoryService(f.scores, nil, f.invalidator)
	return f
}

func (f *fixture) scoring() *ScoringService {
	return NewScoringService(f.ledger, f.businesses, nil, f.clock, f.cache)
}

func (f *fixture) dashboard() *DashboardService {
	return NewDashboardService(f.ledger, f.businesses, f.history, f.clock, f.cache)
}

func (f *fixture) addBusiness(ownerID uuid.UUID, name string) *domain.Business {
	founded := 2012
	employees := 12
	b := &domain.Business{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		LegalName:     name,
		YearFounded:   &founded,
		EmployeeCount: &employees,
		BusinessModel: domain.BusinessModelB2B,
	}
	f.businesses.AddBusiness(b)
	return b
}

func (f *fixture) addTx(b *domain.Business, typ domain.TransactionType, amount int64, daysAgo int) *domain.Transaction {
	tx := &domain.Transaction{
		BusinessID:    b.ID,
		UserID:        b.OwnerID,
		Amount:        decimal.NewFromInt(amount),
		Currency:      domain.DefaultCurrency,
		Type:          typ,
		Category:      "sales",
		PaymentMethod: "mpesa",
		Status:        "completed",
		OccurredAt:    fixtureNow.AddDate(0, 0, -daysAgo),
	}
	f.txs.AddTransaction(tx)
	return tx
}

func (f *fixture) addInvoice(b *domain.Business, status domain.InvoiceStatus, amount int64) *domain.Invoice {
	inv := &domain.Invoice{
		BusinessID:  b.ID,
		UserID:      b.OwnerID,
		TotalAmount: decimal.NewFromInt(amount),
		Status:      status,
		IssueDate:   fixtureNow.AddDate(0, 0, -20),
		DueDate:     fixtureNow.AddDate(0, 0, -5),
	}
	f.invoices.AddInvoice(inv)
	return inv
}

func (f *fixture) addBudget(b *domain.Business, budgeted, spent int64, active bool) *domain.Budget {
	budget := &domain.Budget{
		BusinessID:        b.ID,
		UserID:            b.OwnerID,
		Name:              "Operations",
		BudgetedAmount:    decimal.NewFromInt(budgeted),
		SpentAmount:       decimal.NewFromInt(spent),
		AlertThresholdPct: domain.DefaultAlertThresholdPct,
		IsActive:          active,
		StartDate:         fixtureNow.AddDate(0, -1, 0),
		EndDate:           fixtureNow.AddDate(0, 1, 0),
	}
	f.budgets.AddBudget(budget)
	return budget
}
