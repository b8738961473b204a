package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/middleware"
	"github.com/kavi/kavi-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AnalyticsHandler serves the scoring, forecast and aggregate endpoints
type AnalyticsHandler struct {
	scoringService   *service.ScoringService
	forecastService  *service.ForecastService
	dashboardService *service.DashboardService
	supplierService  *service.SupplierService
	historyService   *service.ScoreHistoryService
}

// NewAnalyticsHandler creates a new AnalyticsHandler. historyService may be
// nil, in which case computed credit scores are not recorded.
func NewAnalyticsHandler(
	scoringService *service.ScoringService,
	forecastService *service.ForecastService,
	dashboardService *service.DashboardService,
	supplierService *service.SupplierService,
	historyService *service.ScoreHistoryService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		scoringService:   scoringService,
		forecastService:  forecastService,
		dashboardService: dashboardService,
		supplierService:  supplierService,
		historyService:   historyService,
	}
}

// CreditScoreResponse is a computed credit score and the stored record, if any
type CreditScoreResponse struct {
	*domain.ScoreResult
	RecordID *uuid.UUID `json:"recordId,omitempty"`
}

// GetFinancialHealth godoc
// @Summary Financial health score
// @Description Score a business over the trailing window with insights and recommendations
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param business_id query string true "Business ID"
// @Param period query int false "Window in days" default(30)
// @Success 200 {object} domain.HealthResult
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /analytics/health [get]
func (h *AnalyticsHandler) GetFinancialHealth(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	businessID, err := parseBusinessQuery(c, true)
	if err != nil {
		return respondError(c, err, "")
	}
	period, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err, "")
	}

	result, err := h.scoringService.FinancialHealth(c.Request().Context(), *businessID, userID, period)
	if err != nil {
		return respondError(c, err, "Failed to compute financial health")
	}
	return c.JSON(http.StatusOK, result)
}

// GetCreditScore godoc
// @Summary Credit score
// @Description Compute the credit score of a business from its full history and record it
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param business_id query string true "Business ID"
// @Success 200 {object} CreditScoreResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /analytics/credit-score [get]
func (h *AnalyticsHandler) GetCreditScore(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	businessID, err := parseBusinessQuery(c, true)
	if err != nil {
		return respondError(c, err, "")
	}

	ctx := c.Request().Context()
	result, err := h.scoringService.ComputeCreditScore(ctx, *businessID, userID)
	if err != nil {
		return respondError(c, err, "Failed to compute credit score")
	}

	response := CreditScoreResponse{ScoreResult: result}
	if h.historyService != nil {
		record, err := h.historyService.Record(ctx, userID, result)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to record credit score")
		} else {
			response.RecordID = &record.ID
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetForecast godoc
// @Summary Revenue forecast
// @Description Project monthly revenue from recent income
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param business_id query string true "Business ID"
// @Param months query int false "Months to project (max 24)" default(6)
// @Success 200 {object} domain.ForecastResult
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /analytics/forecast [get]
func (h *AnalyticsHandler) GetForecast(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	businessID, err := parseBusinessQuery(c, true)
	if err != nil {
		return respondError(c, err, "")
	}
	months, err := parsePositiveIntQuery(c, "months", domain.DefaultForecastMonths)
	if err != nil {
		return respondError(c, err, "")
	}

	result, err := h.forecastService.GenerateForecast(c.Request().Context(), *businessID, userID, months)
	if err != nil {
		return respondError(c, err, "Failed to generate forecast")
	}
	return c.JSON(http.StatusOK, result)
}

// GetTransactionAnalytics godoc
// @Summary Transaction analytics
// @Description Counts, totals, top categories and payment methods over the trailing window
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param business_id query string false "Business ID (all businesses when omitted)"
// @Param period query int false "Window in days" default(30)
// @Success 200 {object} domain.TransactionAnalytics
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /analytics/transactions [get]
func (h *AnalyticsHandler) GetTransactionAnalytics(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	businessID, err := parseBusinessQuery(c, false)
	if err != nil {
		return respondError(c, err, "")
	}
	period, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err, "")
	}

	result, err := h.dashboardService.TransactionAnalytics(c.Request().Context(), businessID, userID, period)
	if err != nil {
		return respondError(c, err, "Failed to compute transaction analytics")
	}
	return c.JSON(http.StatusOK, result)
}

// GetSummary godoc
// @Summary Financial summary
// @Description Headline income, expense, invoice and budget figures
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param business_id query string false "Business ID (all businesses when omitted)"
// @Param period query int false "Window in days" default(30)
// @Success 200 {object} domain.FinancialSummary
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	businessID, err := parseBusinessQuery(c, false)
	if err != nil {
		return respondError(c, err, "")
	}
	period, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err, "")
	}

	result, err := h.dashboardService.FinancialSummary(c.Request().Context(), businessID, userID, period)
	if err != nil {
		return respondError(c, err, "Failed to compute financial summary")
	}
	return c.JSON(http.StatusOK, result)
}

// GetBudgetAnalytics godoc
// @Summary Budget analytics
// @Description Budget counts, totals and utilization
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param business_id query string false "Business ID (all businesses when omitted)"
// @Success 200 {object} domain.BudgetAnalytics
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /analytics/budgets [get]
func (h *AnalyticsHandler) GetBudgetAnalytics(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	businessID, err := parseBusinessQuery(c, false)
	if err != nil {
		return respondError(c, err, "")
	}

	result, err := h.dashboardService.BudgetAnalytics(c.Request().Context(), businessID, userID)
	if err != nil {
		return respondError(c, err, "Failed to compute budget analytics")
	}
	return c.JSON(http.StatusOK, result)
}

// GetSupplierInsights godoc
// @Summary Supplier negotiation insights
// @Description Per-supplier spend with negotiation advice
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param business_id query string true "Business ID"
// @Success 200 {object} domain.NegotiationInsights
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /analytics/suppliers [get]
func (h *AnalyticsHandler) GetSupplierInsights(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	businessID, err := parseBusinessQuery(c, true)
	if err != nil {
		return respondError(c, err, "")
	}

	result, err := h.supplierService.NegotiationInsights(c.Request().Context(), *businessID, userID)
	if err != nil {
		return respondError(c, err, "Failed to compute supplier insights")
	}
	return c.JSON(http.StatusOK, result)
}
