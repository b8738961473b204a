package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/kavi/kavi-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoice_Success(t *testing.T) {
	env := newTestEnv(t)
	h := env.invoiceHandler()

	body := `{"businessId": "` + env.business.ID.String() + `", "invoiceNumber": "INV-001", "customerName": "Duka Supplies",
		"totalAmount": "1250", "issueDate": "2025-06-01", "dueDate": "2025-07-01"}`
	c, rec := env.request(http.MethodPost, "/api/v1/invoices", body)

	require.NoError(t, h.CreateInvoice(c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response InvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "INV-001", response.InvoiceNumber)
	assert.Equal(t, "1250.00", response.TotalAmount)
	assert.Equal(t, string(domain.InvoiceStatusDraft), response.Status)
	assert.Equal(t, "2025-06-01", response.IssueDate)
	assert.Equal(t, "2025-07-01", response.DueDate)
	assert.Nil(t, response.PaidDate)
	assert.Equal(t, []string{"analytics.invalidated", "invoice.created"}, env.publisher.Types())
}

func TestCreateInvoice_Validation(t *testing.T) {
	env := newTestEnv(t)
	h := env.invoiceHandler()
	prefix := `{"businessId": "` + env.business.ID.String() + `", "invoiceNumber": "INV-9", "customerName": "Duka", `

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"paid on creation", prefix + `"totalAmount": "10", "status": "paid", "issueDate": "2025-06-01", "dueDate": "2025-06-30"}`, "status"},
		{"due before issue", prefix + `"totalAmount": "10", "issueDate": "2025-06-10", "dueDate": "2025-06-01"}`, "dateRange"},
		{"negative total", prefix + `"totalAmount": "-10", "issueDate": "2025-06-01", "dueDate": "2025-06-30"}`, "amount"},
		{"missing due date", prefix + `"totalAmount": "10", "issueDate": "2025-06-01"}`, "dueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := env.request(http.MethodPost, "/api/v1/invoices", tt.body)
			require.NoError(t, h.CreateInvoice(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, []string{tt.field}, problemFields(decodeProblem(t, rec)))
		})
	}
	assert.Empty(t, env.invoices.Invoices)
}

func TestInvoiceLifecycle(t *testing.T) {
	env := newTestEnv(t)
	h := env.invoiceHandler()
	inv := env.addInvoice(domain.InvoiceStatusDraft, 800, 14)
	id := inv.ID.String()

	c, rec := env.request(http.MethodPost, "/api/v1/invoices/"+id+"/send", "")
	require.NoError(t, h.SendInvoice(withID(c, id)))
	require.Equal(t, http.StatusOK, rec.Code)

	var response InvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, string(domain.InvoiceStatusSent), response.Status)

	// sending twice is a conflict
	c, rec = env.request(http.MethodPost, "/api/v1/invoices/"+id+"/send", "")
	require.NoError(t, h.SendInvoice(withID(c, id)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	c, rec = env.request(http.MethodPost, "/api/v1/invoices/"+id+"/mark-paid", "")
	require.NoError(t, h.MarkInvoicePaid(withID(c, id)))
	require.Equal(t, http.StatusOK, rec.Code)

	response = InvoiceResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, string(domain.InvoiceStatusPaid), response.Status)
	require.NotNil(t, response.PaidDate)
	assert.Equal(t, "2025-06-15", *response.PaidDate)

	// paid invoices are final
	body := `{"customerName": "Duka", "totalAmount": "900", "issueDate": "2025-06-01", "dueDate": "2025-06-30"}`
	c, rec = env.request(http.MethodPut, "/api/v1/invoices/"+id, body)
	require.NoError(t, h.UpdateInvoice(withID(c, id)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, ErrorTypeConflict, decodeProblem(t, rec).Type)
}

func TestMarkInvoicePaid_Draft(t *testing.T) {
	env := newTestEnv(t)
	h := env.invoiceHandler()
	inv := env.addInvoice(domain.InvoiceStatusDraft, 800, 14)

	c, rec := env.request(http.MethodPost, "/api/v1/invoices/"+inv.ID.String()+"/mark-paid", "")
	require.NoError(t, h.MarkInvoicePaid(withID(c, inv.ID.String())))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.InvoiceStatusDraft, inv.Status)
}

func TestUpdateInvoice_Success(t *testing.T) {
	env := newTestEnv(t)
	h := env.invoiceHandler()
	inv := env.addInvoice(domain.InvoiceStatusSent, 800, 14)

	body := `{"customerName": "Duka Supplies Ltd", "totalAmount": "950.75", "issueDate": "2025-06-01", "dueDate": "2025-06-30"}`
	c, rec := env.request(http.MethodPut, "/api/v1/invoices/"+inv.ID.String(), body)
	require.NoError(t, h.UpdateInvoice(withID(c, inv.ID.String())))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response InvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Duka Supplies Ltd", response.CustomerName)
	assert.Equal(t, "950.75", response.TotalAmount)
	assert.Equal(t, "2025-06-30", response.DueDate)
}

func TestGetInvoice_NotFound(t *testing.T) {
	env := newTestEnv(t)
	h := env.invoiceHandler()
	id := uuid.NewString()

	c, rec := env.request(http.MethodGet, "/api/v1/invoices/"+id, "")
	require.NoError(t, h.GetInvoice(withID(c, id)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invoice not found", decodeProblem(t, rec).Detail)
}

func TestGetInvoices_BusinessFilter(t *testing.T) {
	env := newTestEnv(t)
	h := env.invoiceHandler()
	env.addInvoice(domain.InvoiceStatusSent, 100, 5)
	second := env.addBusiness(env.userID, "Second Shop")
	other := env.addInvoice(domain.InvoiceStatusSent, 200, 5)
	other.BusinessID = second.ID

	c, rec := env.request(http.MethodGet, "/api/v1/invoices", "")
	require.NoError(t, h.GetInvoices(c))
	var all []InvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	c, rec = env.request(http.MethodGet, "/api/v1/invoices?business_id="+second.ID.String(), "")
	require.NoError(t, h.GetInvoices(c))
	var filtered []InvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, other.ID.String(), filtered[0].ID)
}
