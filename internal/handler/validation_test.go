package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestValidator_Messages(t *testing.T) {
	v := NewRequestValidator()

	req := CreateInvoiceRequest{
		BusinessID:    "not-a-uuid",
		InvoiceNumber: "INV-1",
		CustomerName:  "Duka",
		TotalAmount:   "1,000",
		Status:        "paid",
		IssueDate:     "2025-06-01",
		DueDate:       "June 30",
	}

	err := v.Validate(&req)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	got := map[string]string{}
	for _, e := range toValidationErrors(verrs) {
		got[e.Field] = e.Message
	}
	assert.Equal(t, map[string]string{
		"businessId":  "Must be a valid UUID",
		"totalAmount": "Must be a valid decimal number",
		"status":      "Must be one of: draft, sent",
		"dueDate":     "Must be in YYYY-MM-DD format",
	}, got)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets", nil)
	req.Body = http.NoBody
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var body CreateBudgetRequest
	ok, err := bindAndValidate(c, &body)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBindAndValidate_FallsBackToDefaultValidator(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"amount": "1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var body CreateTransactionRequest
	ok, err := bindAndValidate(c, &body)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"businessId", "type"}, problemFields(decodeProblem(t, rec)))
}

func TestParsePositiveIntQuery(t *testing.T) {
	tests := []struct {
		query    string
		expected int
		wantErr  bool
	}{
		{"", 30, false},
		{"period=7", 7, false},
		{"period=0", 0, true},
		{"period=-1", 0, true},
		{"period=seven", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil), httptest.NewRecorder())

			n, err := parsePeriod(c)
			if tt.wantErr {
				var fe *fieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, "period", fe.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestParseLedgerFilter_EndDateInclusive(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?startDate=2025-06-01&endDate=2025-06-30", nil), httptest.NewRecorder())
	userID := uuid.New()

	filter, err := parseLedgerFilter(c, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, filter.UserID)
	assert.Nil(t, filter.BusinessID)
	assert.True(t, filter.Contains(time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, filter.Contains(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, filter.Contains(time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC)))
}
