package handler

import (
	"github.com/kavi/kavi-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
// WebSocket may be nil when realtime push is disabled.
type Handlers struct {
	Auth        *AuthHandler
	Analytics   *AnalyticsHandler
	Dashboard   *DashboardHandler
	Transaction *TransactionHandler
	Invoice     *InvoiceHandler
	Budget      *BudgetHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API docs (public)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi3.json", ServeOpenAPI3Spec)

	// API version 1
	api := e.Group("/api/v1")

	// WebSocket authenticates with the token query parameter
	if h.WebSocket != nil {
		api.GET("/ws", h.WebSocket.HandleWS)
	}

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.GET("/me", h.Auth.Me)

	// Analytics routes (protected, rate limited)
	analytics := api.Group("/analytics")
	analytics.Use(authMiddleware.Authenticate())
	if rateLimiter != nil {
		analytics.Use(middleware.RateLimitMiddleware(rateLimiter))
	}
	analytics.GET("/health", h.Analytics.GetFinancialHealth)
	analytics.GET("/credit-score", h.Analytics.GetCreditScore)
	analytics.GET("/forecast", h.Analytics.GetForecast)
	analytics.GET("/transactions", h.Analytics.GetTransactionAnalytics)
	analytics.GET("/summary", h.Analytics.GetSummary)
	analytics.GET("/budgets", h.Analytics.GetBudgetAnalytics)
	analytics.GET("/suppliers", h.Analytics.GetSupplierInsights)

	// Dashboard routes (protected)
	dashboard := api.Group("/dashboard")
	dashboard.Use(authMiddleware.Authenticate())
	dashboard.GET("", h.Dashboard.GetDashboard)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)

	// Invoice routes (protected)
	invoices := api.Group("/invoices")
	invoices.Use(authMiddleware.Authenticate())
	invoices.POST("", h.Invoice.CreateInvoice)
	invoices.GET("", h.Invoice.GetInvoices)
	invoices.GET("/:id", h.Invoice.GetInvoice)
	invoices.PUT("/:id", h.Invoice.UpdateInvoice)
	invoices.POST("/:id/send", h.Invoice.SendInvoice)
	invoices.POST("/:id/mark-paid", h.Invoice.MarkInvoicePaid)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate())
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.GET("/:id", h.Budget.GetBudget)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
}
