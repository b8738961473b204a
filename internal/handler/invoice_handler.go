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

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// CreateInvoiceRequest represents the create invoice request body
type CreateInvoiceRequest struct {
	BusinessID    string `json:"businessId" validate:"required,uuid"`
	InvoiceNumber string `json:"invoiceNumber" validate:"required,max=50"`
	CustomerName  string `json:"customerName" validate:"required,max=255"`
	TotalAmount   string `json:"totalAmount" validate:"required,decimal"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=draft sent"`
	IssueDate     string `json:"issueDate" validate:"required,date"`
	DueDate       string `json:"dueDate" validate:"required,date"`
}

// UpdateInvoiceRequest represents the update invoice request body
type UpdateInvoiceRequest struct {
	CustomerName string `json:"customerName" validate:"required,max=255"`
	TotalAmount  string `json:"totalAmount" validate:"required,decimal"`
	IssueDate    string `json:"issueDate" validate:"required,date"`
	DueDate      string `json:"dueDate" validate:"required,date"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            string  `json:"id"`
	BusinessID    string  `json:"businessId"`
	InvoiceNumber string  `json:"invoiceNumber"`
	CustomerName  string  `json:"customerName"`
	TotalAmount   string  `json:"totalAmount"`
	Status        string  `json:"status"`
	IssueDate     string  `json:"issueDate"`
	DueDate       string  `json:"dueDate"`
	PaidDate      *string `json:"paidDate,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func toInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		BusinessID:    inv.BusinessID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		TotalAmount:   inv.TotalAmount.StringFixed(2),
		Status:        string(inv.Status),
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     inv.UpdatedAt.Format(time.RFC3339),
	}
	if inv.PaidDate != nil {
		paid := inv.PaidDate.Format(dateLayout)
		resp.PaidDate = &paid
	}
	return resp
}

// CreateInvoice godoc
// @Summary Create an invoice
// @Description Create a draft or sent invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInvoiceRequest true "Invoice creation request"
// @Success 201 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateInvoiceRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request().Context(), userID, service.CreateInvoiceInput{
		BusinessID:    uuid.MustParse(req.BusinessID),
		InvoiceNumber: req.InvoiceNumber,
		CustomerName:  req.CustomerName,
		TotalAmount:   parseDecimal(req.TotalAmount),
		Status:        domain.InvoiceStatus(req.Status),
		IssueDate:     parseDate(req.IssueDate),
		DueDate:       parseDate(req.DueDate),
	})
	if err != nil {
		return respondError(c, err, "Failed to create invoice")
	}

	log.Info().Str("user_id", userID.String()).Str("invoice_id", invoice.ID.String()).Msg("Invoice created")
	return c.JSON(http.StatusCreated, toInvoiceResponse(invoice))
}

// GetInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param business_id query string false "Filter by business ID"
// @Param startDate query string false "Issued on or after (YYYY-MM-DD)"
// @Param endDate query string false "Issued on or before (YYYY-MM-DD)"
// @Success 200 {array} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /invoices [get]
func (h *InvoiceHandler) GetInvoices(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	filter, err := parseLedgerFilter(c, userID)
	if err != nil {
		return respondError(c, err, "")
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Failed to list invoices")
	}

	response := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		response[i] = toInvoiceResponse(inv)
	}
	return c.JSON(http.StatusOK, response)
}

// GetInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Failed to get invoice")
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// UpdateInvoice godoc
// @Summary Update an invoice
// @Description Paid and cancelled invoices cannot be changed
// @Tags invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param request body UpdateInvoiceRequest true "Invoice update request"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	var req UpdateInvoiceRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request().Context(), userID, id, &domain.UpdateInvoiceData{
		CustomerName: req.CustomerName,
		TotalAmount:  parseDecimal(req.TotalAmount),
		IssueDate:    parseDate(req.IssueDate),
		DueDate:      parseDate(req.DueDate),
	})
	if err != nil {
		return respondError(c, err, "Failed to update invoice")
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// SendInvoice godoc
// @Summary Send an invoice
// @Description Move a draft invoice to sent
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} InvoiceResponse
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) SendInvoice(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Failed to send invoice")
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// MarkInvoicePaid godoc
// @Summary Mark an invoice paid
// @Description Settle a sent or overdue invoice as of today
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} InvoiceResponse
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkInvoicePaid(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}
	id, err := parseIDParam(c)
	if err != nil {
		return respondError(c, err, "")
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err, "Failed to mark invoice paid")
	}
	log.Info().Str("user_id", userID.String()).Str("invoice_id", invoice.ID.String()).Msg("Invoice paid")
	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}
