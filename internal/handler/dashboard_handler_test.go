package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
)

func TestGetDashboard_Success(t *testing.T) {
	env := newTestEnv(t)
	handler := NewDashboardHandler(env.dashboardService())

	for i := 0; i < 12; i++ {
		env.addTx(domain.TransactionTypeIncome, 100, i+1, "sales", "")
	}
	env.addTx(domain.TransactionTypeExpense, 400, 1, "rent", "")
	env.addBudget(1000, 200)
	env.addInvoice(domain.InvoiceStatusOverdue, 750, -3)
	env.addInvoice(domain.InvoiceStatusSent, 300, 10)

	c, rec := env.request(http.MethodGet, "/api/v1/dashboard", "")

	err := handler.GetDashboard(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var data domain.DashboardData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if data.Summary.TotalIncome.String() != "1200" {
		t.Errorf("Expected total income '1200', got %s", data.Summary.TotalIncome)
	}

	if data.Summary.NetProfit.String() != "800" {
		t.Errorf("Expected net profit '800', got %s", data.Summary.NetProfit)
	}

	if len(data.RecentTransactions) != domain.RecentTransactionLimit {
		t.Errorf("Expected %d recent transactions, got %d", domain.RecentTransactionLimit, len(data.RecentTransactions))
	}

	if len(data.OverdueInvoices) != 1 {
		t.Errorf("Expected 1 overdue invoice, got %d", len(data.OverdueInvoices))
	}

	if len(data.Budgets) != 1 {
		t.Errorf("Expected 1 active budget, got %d", len(data.Budgets))
	}

	if data.CreditScore != nil {
		t.Error("Expected no credit score before one is computed")
	}

	if len(data.Businesses) != 1 || data.Businesses[0].Name != "Mama Mboga Ltd" {
		t.Errorf("Expected the owned business in the listing, got %+v", data.Businesses)
	}
}

func TestGetDashboard_ForeignBusiness(t *testing.T) {
	env := newTestEnv(t)
	handler := NewDashboardHandler(env.dashboardService())
	other := env.addBusiness(uuid.New(), "Competitor Ltd")

	c, rec := env.request(http.MethodGet, "/api/v1/dashboard?business_id="+other.ID.String(), "")

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetDashboard_InvalidPeriod(t *testing.T) {
	env := newTestEnv(t)
	handler := NewDashboardHandler(env.dashboardService())

	c, rec := env.request(http.MethodGet, "/api/v1/dashboard?period=-7", "")

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	problem := decodeProblem(t, rec)
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "period" {
		t.Errorf("Expected a period field error, got %+v", problem.Errors)
	}
}

func TestGetDashboard_RefreshesAfterWrite(t *testing.T) {
	env := newTestEnv(t)
	dashboard := NewDashboardHandler(env.dashboardService())
	transactions := env.transactionHandler()

	c, rec := env.request(http.MethodGet, "/api/v1/dashboard", "")
	if err := dashboard.GetDashboard(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	body := `{"businessId": "` + env.business.ID.String() + `", "amount": "2500.00", "type": "income", "category": "sales"}`
	c, rec = env.request(http.MethodPost, "/api/v1/transactions", body)
	if err := transactions.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	c, rec = env.request(http.MethodGet, "/api/v1/dashboard", "")
	if err := dashboard.GetDashboard(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var data domain.DashboardData
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if data.Summary.TotalIncome.String() != "2500" {
		t.Errorf("Expected the new transaction in the totals, got %s", data.Summary.TotalIncome)
	}
}
