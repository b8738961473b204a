package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/cache"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/service"
	"github.com/kavi/kavi-backend/internal/testutil"
	"github.com/kavi/kavi-backend/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// testEnv wires real services over in-memory repositories for one signed-in
// user who owns one business
type testEnv struct {
	e          *echo.Echo
	clock      *util.FixedClock
	businesses *testutil.MockBusinessRepository
	txs        *testutil.MockTransactionRepository
	invoices   *testutil.MockInvoiceRepository
	budgets    *testutil.MockBudgetRepository
	scores     *testutil.MockScoreHistoryRepository
	publisher  *testutil.RecordingPublisher
	cache      *cache.Cache

	ledger      *service.LedgerService
	invalidator *service.Invalidator
	history     *service.ScoreHistoryService

	userID   uuid.UUID
	business *domain.Business
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := util.NewFixedClock(testNow)
	store := cache.NewMemoryStore(clock, 0)
	t.Cleanup(store.Stop)

	e := echo.New()
	e.Validator = NewRequestValidator()

	env := &testEnv{
		e:          e,
		clock:      clock,
		businesses: testutil.NewMockBusinessRepository(),
		txs:        testutil.NewMockTransactionRepository(),
		invoices:   testutil.NewMockInvoiceRepository(),
		budgets:    testutil.NewMockBudgetRepository(),
		scores:     testutil.NewMockScoreHistoryRepository(),
		publisher:  testutil.NewRecordingPublisher(),
		cache:      cache.New(store, 0),
		userID:     uuid.New(),
	}
	env.ledger = service.NewLedgerService(env.txs, env.invoices, env.budgets)
	env.invalidator = service.NewInvalidator(env.cache, env.publisher)
	env.history = service.NewScoreHistoryService(env.scores, nil, env.invalidator)
	env.business = env.addBusiness(env.userID, "Mama Mboga Ltd")
	return env
}

func (env *testEnv) analyticsHandler() *AnalyticsHandler {
	return NewAnalyticsHandler(
		service.NewScoringService(env.ledger, env.businesses, nil, env.clock, env.cache),
		service.NewForecastService(env.ledger, env.businesses, nil, env.clock, nil),
		env.dashboardService(),
		service.NewSupplierService(env.ledger, env.businesses, nil, env.cache),
		env.history,
	)
}

func (env *testEnv) dashboardService() *service.DashboardService {
	return service.NewDashboardService(env.ledger, env.businesses, env.history, env.clock, env.cache)
}

func (env *testEnv) transactionHandler() *TransactionHandler {
	return NewTransactionHandler(service.NewTransactionService(env.txs, env.businesses, env.invalidator, env.clock))
}

func (env *testEnv) invoiceHandler() *InvoiceHandler {
	return NewInvoiceHandler(service.NewInvoiceService(env.invoices, env.businesses, env.invalidator, env.clock))
}

func (env *testEnv) budgetHandler() *BudgetHandler {
	return NewBudgetHandler(service.NewBudgetService(env.budgets, env.businesses, env.invalidator))
}

// request builds an authenticated context. A non-empty body is sent as JSON.
func (env *testEnv) request(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	setupAuthContextWithUser(c, "auth0|owner", "owner@example.com", env.userID)
	return c, rec
}

// withID sets the :id path parameter
func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func (env *testEnv) addBusiness(ownerID uuid.UUID, name string) *domain.Business {
	founded := 2015
	b := &domain.Business{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		LegalName:     name,
		YearFounded:   &founded,
		BusinessModel: domain.BusinessModelB2C,
	}
	env.businesses.AddBusiness(b)
	return b
}

func (env *testEnv) addTx(typ domain.TransactionType, amount int64, daysAgo int, category, supplier string) *domain.Transaction {
	tx := &domain.Transaction{
		BusinessID:    env.business.ID,
		UserID:        env.userID,
		Amount:        decimal.NewFromInt(amount),
		Currency:      domain.DefaultCurrency,
		Type:          typ,
		Category:      category,
		Supplier:      supplier,
		PaymentMethod: "mpesa",
		Status:        "completed",
		OccurredAt:    testNow.AddDate(0, 0, -daysAgo),
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	env.txs.AddTransaction(tx)
	return tx
}

func (env *testEnv) addInvoice(status domain.InvoiceStatus, amount int64, dueInDays int) *domain.Invoice {
	inv := &domain.Invoice{
		BusinessID:    env.business.ID,
		UserID:        env.userID,
		InvoiceNumber: "INV-" + uuid.NewString()[:8],
		CustomerName:  "Duka Supplies",
		TotalAmount:   decimal.NewFromInt(amount),
		Status:        status,
		IssueDate:     testNow.AddDate(0, 0, -30),
		DueDate:       testNow.AddDate(0, 0, dueInDays),
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
	env.invoices.AddInvoice(inv)
	return inv
}

func (env *testEnv) addBudget(budgeted, spent int64) *domain.Budget {
	b := &domain.Budget{
		BusinessID:        env.business.ID,
		UserID:            env.userID,
		Name:              "Stock",
		Category:          "inventory",
		BudgetedAmount:    decimal.NewFromInt(budgeted),
		SpentAmount:       decimal.NewFromInt(spent),
		AlertThresholdPct: domain.DefaultAlertThresholdPct,
		IsActive:          true,
		StartDate:         testNow.AddDate(0, -1, 0),
		EndDate:           testNow.AddDate(0, 1, 0),
		CreatedAt:         testNow,
		UpdatedAt:         testNow,
	}
	env.budgets.AddBudget(b)
	return b
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	return problem
}

// problemFields returns the field names of a validation problem
func problemFields(p ProblemDetails) []string {
	fields := make([]string, len(p.Errors))
	for i, e := range p.Errors {
		fields[i] = e.Field
	}
	return fields
}
