package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/middleware"
	"github.com/kavi/kavi-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
	}
}

// CreateBudgetRequest represents the create budget request body
type CreateBudgetRequest struct {
	BusinessID        string  `json:"businessId" validate:"required,uuid"`
	Name              string  `json:"name" validate:"required,max=255"`
	Category          string  `json:"category,omitempty" validate:"max=100"`
	BudgetedAmount    string  `json:"budgetedAmount" validate:"required,decimal"`
	SpentAmount       string  `json:"spentAmount,omitempty" validate:"omitempty,decimal"`
	AlertThresholdPct *string `json:"alertThresholdPct,omitempty" validate:"omitempty,decimal"`
	IsActive          *bool   `json:"isActive,omitempty"`
	StartDate         string  `json:"startDate" validate:"required,date"`
	EndDate           string  `json:"endDate" validate:"required,date"`
}

// UpdateBudgetRequest represents the update budget request body
type UpdateBudgetRequest struct {
	Name              string `json:"name" validate:"required,max=255"`
	Category          string `json:"category,omitempty" validate:"max=100"`
	BudgetedAmount    string `json:"budgetedAmount" validate:"required,decimal"`
	SpentAmount       string `json:"spentAmount" validate:"required,decimal"`
	AlertThresholdPct string `json:"alertThresholdPct" validate:"required,decimal"`
	IsActive          bool   `json:"isActive"`
	StartDate         string `json:"startDate" validate:"required,date"`
	EndDate           string `json:"endDate" validate:"required,date"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID                string `json:"id"`
	BusinessID        string `json:"businessId"`
	Name              string `json:"name"`
	Category          string `json:"category,omitempty"`
	BudgetedAmount    string `json:"budgetedAmount"`
	SpentAmount       string `json:"spentAmount"`
	AlertThresholdPct string `json:"alertThresholdPct"`
	Utilization       string `json:"utilization"`
	IsActive          bool   `json:"isActive"`
	StartDate         string `json:"startDate"`
	EndDate           string `json:"endDate"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:                b.ID.String(),
		BusinessID:        b.BusinessID.String(),
		Name:              b.Name,
		Category:          b.Category,
		BudgetedAmount:    b.BudgetedAmount.StringFixed(2),
		SpentAmount:       b.SpentAmount.StringFixed(2),
		AlertThresholdPct: b.AlertThresholdPct.StringFixed(2),
		Utilization:       b.Utilization().StringFixed(2),
		IsActive:          b.IsActive,
		StartDate:         b.StartDate.Format(dateLayout),
		EndDate:           b.EndDate.Format(dateLayout),
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         b.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateBudget godoc
// @Summary Create a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "Budget creation request"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	input := service.CreateBudgetInput{
		BusinessID:     uuid.MustParse(req.BusinessID),
		Name:           req.Name,
		Category:       req.Category,
		BudgetedAmount: parseDecimal(req.BudgetedAmount),
		SpentAmount:    decimal.Zero,
		IsActive:       req.IsActive,
		StartDate:      parseDate(req.StartDate),
		EndDate:        parseDate(req.EndDate),
	}
	if req.SpentAmount != "" {
		input.SpentAmount = parseDecimal(req.SpentAmount)
	}
	if req.AlertThresholdPct != nil {
		threshold := parseDecimal(*req.AlertThresholdPct)
		input.AlertThresholdPct = &threshold
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), userID, input)
	if err != nil {
		return respondError(c, err, "Failed to create budget")
	}
	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets godoc
// @Summary List budgets
// @Description List budgets whose period overlaps the date range
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param business_id query string false "Filter by business ID"
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /budgets [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	filter, err := parseLedgerFilter(c, userID)
	if err != nil {
		return respondError(c, err, "")
	}

	budgets, err := h.budgetService.ListBudgets(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to list budgets")
	}

	response := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		response[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, response)
}

// GetBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	budget, err := h.budgetService.GetBudget(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Failed to get budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget godoc
// @Summary Update a budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Budget ID"
// @Param request body UpdateBudgetRequest true "Budget update request"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req UpdateBudgetRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), userID, id, &domain.UpdateBudgetData{
		Name:              req.Name,
		Category:          req.Category,
		BudgetedAmount:    parseDecimal(req.BudgetedAmount),
		SpentAmount:       parseDecimal(req.SpentAmount),
		AlertThresholdPct: parseDecimal(req.AlertThresholdPct),
		IsActive:          req.IsActive,
		StartDate:         parseDate(req.StartDate),
		EndDate:           parseDate(req.EndDate),
	})
	if err != nil {
		return respondError(c, err, "Failed to update budget")
	}
	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}
