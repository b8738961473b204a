package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var defaultValidator = NewRequestValidator()

// RequestValidator adapts go-playground/validator to echo.Validator.
// Field names in errors use the json tag of the struct field.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a RequestValidator with the custom tags
// used by request bodies
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal: a string holding a decimal number
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(fl.Field().String())
		return err == nil
	})
	// date: a string in YYYY-MM-DD form
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// bindAndValidate binds the request body and runs struct validation. It
// writes the problem response itself and reports whether the handler may continue.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, NewValidationError(c, "Invalid request body", nil)
	}
	v := c.Echo().Validator
	if v == nil {
		v = defaultValidator
	}
	if err := v.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return false, NewValidationError(c, "Validation failed", toValidationErrors(verrs))
		}
		return false, NewValidationError(c, "Validation failed", nil)
	}
	return true, nil
}

func toValidationErrors(verrs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	case "uuid":
		return "Must be a valid UUID"
	case "decimal":
		return "Must be a valid decimal number"
	case "date":
		return "Must be in YYYY-MM-DD format"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}

// parseDecimal parses a decimal that already passed the decimal tag
func parseDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// parseDate parses a date that already passed the date tag
func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

// parseOptionalDate parses an optional date; empty means nil
func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseDate(*s)
	return &t
}

// fieldError is a malformed path or query parameter
type fieldError struct {
	Field   string
	Message string
}

func (e *fieldError) Error() string {
	return e.Field + ": " + e.Message
}

// parseIDParam parses the :id path parameter
func parseIDParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, &fieldError{Field: "id", Message: "Must be a valid UUID"}
	}
	return id, nil
}

// parseBusinessQuery parses the business_id query parameter. With required
// false an absent parameter yields nil, meaning every business of the user.
func parseBusinessQuery(c echo.Context, required bool) (*uuid.UUID, error) {
	raw := c.QueryParam("business_id")
	if raw == "" {
		if required {
			return nil, &fieldError{Field: "business_id", Message: "Field is required"}
		}
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, &fieldError{Field: "business_id", Message: "Must be a valid UUID"}
	}
	return &id, nil
}

// parsePositiveIntQuery parses an optional positive integer query parameter
func parsePositiveIntQuery(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &fieldError{Field: name, Message: "Must be a positive integer"}
	}
	return n, nil
}

// parsePeriod reads the period query parameter in days
func parsePeriod(c echo.Context) (int, error) {
	return parsePositiveIntQuery(c, "period", service.DefaultPeriodDays)
}
