package handler

import (
	"errors"
	"net/http"

	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://kavi.app/errors/validation"
	ErrorTypeNotFound     = "https://kavi.app/errors/not-found"
	ErrorTypeUnauthorized = "https://kavi.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://kavi.app/errors/forbidden"
	ErrorTypeConflict     = "https://kavi.app/errors/conflict"
	ErrorTypeInternal     = "https://kavi.app/errors/internal"
)

// serviceFieldErrors maps input sentinels to the request field they concern
var serviceFieldErrors = []struct {
	err     error
	field   string
	message string
}{
	{domain.ErrInvalidAmount, "amount", "Amount must not be negative"},
	{domain.ErrInvalidTransactionType, "type", "Type must be one of: income, expense"},
	{domain.ErrInvalidInvoiceStatus, "status", "Status must be one of: draft, sent"},
	{domain.ErrInvalidDateRange, "dateRange", "End date must not be before start date"},
	{domain.ErrInvalidPeriod, "period", "Must be a positive number of days"},
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// respondError maps a parameter or service error to a problem details
// response. Unknown errors are logged and reported as internal errors with
// the given detail.
func respondError(c echo.Context, err error, detail string) error {
	var fe *fieldError
	if errors.As(err, &fe) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: fe.Field, Message: fe.Message},
		})
	}
	for _, sf := range serviceFieldErrors {
		if errors.Is(err, sf.err) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: sf.field, Message: sf.message},
			})
		}
	}

	switch {
	case errors.Is(err, domain.ErrBusinessNotFound):
		return NewNotFoundError(c, "Business not found")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return NewNotFoundError(c, "Invoice not found")
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Resource not found")
	case errors.Is(err, domain.ErrInvalidStatusChange):
		return NewConflictError(c, "Invoice status does not allow this change")
	case errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, "Validation failed", nil)
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(detail)
	return NewInternalError(c, detail)
}
