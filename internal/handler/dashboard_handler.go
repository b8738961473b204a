package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/middleware"
	"github.com/kavi/kavi-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary Dashboard data
// @Description Totals, recent transactions, active budgets, overdue invoices and the latest credit score
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param business_id query string false "Business ID (all businesses when omitted)"
// @Param period query int false "Window in days" default(30)
// @Success 200 {object} domain.DashboardData
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
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

	data, err := h.dashboardService.DashboardData(c.Request().Context(), businessID, userID, period)
	if err != nil {
		return respondError(c, err, "Failed to get dashboard data")
	}
	return c.JSON(http.StatusOK, data)
}
