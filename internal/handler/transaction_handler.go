package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/kavi/kavi-backend/internal/middleware"
	"github.com/kavi/kavi-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	BusinessID    string  `json:"businessId" validate:"required,uuid"`
	Amount        string  `json:"amount" validate:"required,decimal"`
	Currency      string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Type          string  `json:"type" validate:"required,oneof=income expense"`
	Category      string  `json:"category,omitempty" validate:"max=100"`
	Supplier      string  `json:"supplier,omitempty" validate:"max=255"`
	PaymentMethod string  `json:"paymentMethod,omitempty" validate:"max=50"`
	Status        string  `json:"status,omitempty" validate:"max=50"`
	Description   string  `json:"description,omitempty" validate:"max=1000"`
	Date          *string `json:"date,omitempty" validate:"omitempty,date"`
}

// UpdateTransactionRequest represents the update transaction request body
type UpdateTransactionRequest struct {
	Amount        string `json:"amount" validate:"required,decimal"`
	Type          string `json:"type" validate:"required,oneof=income expense"`
	Category      string `json:"category,omitempty" validate:"max=100"`
	Supplier      string `json:"supplier,omitempty" validate:"max=255"`
	PaymentMethod string `json:"paymentMethod,omitempty" validate:"max=50"`
	Status        string `json:"status,omitempty" validate:"max=50"`
	Description   string `json:"description,omitempty" validate:"max=1000"`
	Date          string `json:"date" validate:"required,date"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID            string `json:"id"`
	BusinessID    string `json:"businessId"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Type          string `json:"type"`
	Category      string `json:"category"`
	Supplier      string `json:"supplier,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Status        string `json:"status"`
	Description   string `json:"description,omitempty"`
	OccurredAt    string `json:"occurredAt"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID.String(),
		BusinessID:    t.BusinessID.String(),
		Amount:        t.Amount.StringFixed(2),
		Currency:      t.Currency,
		Type:          string(t.Type),
		Category:      t.Category,
		Supplier:      t.Supplier,
		PaymentMethod: t.PaymentMethod,
		Status:        t.Status,
		Description:   t.Description,
		OccurredAt:    t.OccurredAt.Format(time.RFC3339),
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income or expense and refresh the owner's analytics
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction creation request"
// @Success 201 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, service.CreateTransactionInput{
		BusinessID:    uuid.MustParse(req.BusinessID),
		Amount:        parseDecimal(req.Amount),
		Currency:      req.Currency,
		Type:          domain.TransactionType(req.Type),
		Category:      req.Category,
		Supplier:      req.Supplier,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		Description:   req.Description,
		OccurredAt:    parseOptionalDate(req.Date),
	})
	if err != nil {
		return respondError(c, err, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID.String()).Str("transaction_id", transaction.ID.String()).Msg("Transaction created")
	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions godoc
// @Summary List transactions
// @Description List transactions, newest first, optionally for one business and date range
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param business_id query string false "Filter by business ID"
// @Param startDate query string false "Start date (YYYY-MM-DD), inclusive"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	filter, err := parseLedgerFilter(c, userID)
	if err != nil {
		return respondError(c, err, "")
	}

	transactions, err := h.transactionService.ListTransactions(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to list transactions")
	}

	response := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		response[i] = toTransactionResponse(t)
	}
	return c.JSON(http.StatusOK, response)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	transaction, err := h.transactionService.GetTransaction(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Failed to get transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Transaction update request"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req UpdateTransactionRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, id, &domain.UpdateTransactionData{
		Amount:        parseDecimal(req.Amount),
		Type:          domain.TransactionType(req.Type),
		Category:      req.Category,
		Supplier:      req.Supplier,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		Description:   req.Description,
		OccurredAt:    parseDate(req.Date),
	})
	if err != nil {
		return respondError(c, err, "Failed to update transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// parseLedgerFilter reads business_id, startDate and endDate. endDate is
// inclusive, so the filter runs until the start of the following day.
func parseLedgerFilter(c echo.Context, userID uuid.UUID) (domain.LedgerFilter, error) {
	filter := domain.LedgerFilter{UserID: userID}

	businessID, err := parseBusinessQuery(c, false)
	if err != nil {
		return filter, err
	}
	filter.BusinessID = businessID

	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, &fieldError{Field: "startDate", Message: "Must be in YYYY-MM-DD format"}
		}
		filter.Since = t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, &fieldError{Field: "endDate", Message: "Must be in YYYY-MM-DD format"}
		}
		filter.Until = t.AddDate(0, 0, 1)
	}
	return filter, nil
}
