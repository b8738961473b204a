package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInternalError          = errors.New("internal error")
	ErrInvalidAmount          = errors.New("amount must not be negative")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidInvoiceStatus   = errors.New("invalid invoice status")
	ErrInvalidStatusChange    = errors.New("invalid invoice status transition")
	ErrInvalidDateRange       = errors.New("end date must not be before start date")
	ErrInvalidPeriod          = errors.New("period must be a positive number of days")
)

// Not-found errors per entity. Each wraps ErrNotFound.
var (
	ErrUserNotFound        = fmt.Errorf("user: %w", ErrNotFound)
	ErrBusinessNotFound    = fmt.Errorf("business: %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction: %w", ErrNotFound)
	ErrInvoiceNotFound     = fmt.Errorf("invoice: %w", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("budget: %w", ErrNotFound)
)

// IsNotFound reports whether err is, or wraps, a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
