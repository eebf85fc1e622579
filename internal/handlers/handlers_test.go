package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"society-billing-backend/internal/app"
	"society-billing-backend/internal/config"
	"society-billing-backend/internal/models"
	"society-billing-backend/internal/routes"
	"society-billing-backend/internal/testutil"
)

func newServer(t *testing.T) (*gin.Engine, *app.Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Timezone: "UTC", InvoiceDueDay: 15}
	svc := app.New(testutil.NewDB(t), cfg)

	r := gin.New()
	routes.RegisterRoutes(r, svc, cfg.Location())
	return r, svc
}

func seedSociety(t *testing.T, svc *app.Services) {
	t.Helper()
	ctx := context.Background()
	for _, m := range []models.Member{
		{Name: "Asha", Flat: "A-101", Email: "asha@example.com", Active: true},
		{Name: "Bala", Flat: "", Email: "bala@example.com", Active: true},
		{Name: "Chitra", Flat: "C-301", Email: "chitra@example.com", Active: true},
	} {
		require.NoError(t, svc.Members.Create(ctx, &m))
	}
	for _, c := range []models.StandardCharge{
		{Description: "Maintenance", Amount: decimal.NewFromInt(500), Active: true},
		{Description: "Parking", Amount: decimal.NewFromInt(200), Active: true},
	} {
		require.NoError(t, svc.Charges.Create(ctx, &c))
	}
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestGenerateInvoices(t *testing.T) {
	r, svc := newServer(t)
	seedSociety(t, svc)

	w, body := do(t, r, http.MethodPost, "/api/billing/invoices/generate", map[string]any{
		"month":       "March",
		"year":        2025,
		"startNumber": "1",
		"includeAll":  true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.EqualValues(t, 2, body["count"])
	assert.EqualValues(t, 3, body["considered"])
	assert.NotEmpty(t, body["runId"])
	assert.Contains(t, body["message"], "Generated 2 invoice(s) for March 2025")

	invoices := body["invoices"].([]any)
	require.Len(t, invoices, 2)
	first := invoices[0].(map[string]any)
	assert.Equal(t, "INV-2025-001", first["invoiceNumber"])
	assert.Equal(t, "Asha", first["memberName"])
	assert.EqualValues(t, 700, first["total"])
	assert.Equal(t, "INV-2025-002", invoices[1].(map[string]any)["invoiceNumber"])

	skipped := body["skipped"].([]any)
	require.Len(t, skipped, 1)
	assert.Equal(t, "missing_flat", skipped[0].(map[string]any)["reason"])

	w, body = do(t, r, http.MethodGet, "/api/billing/next-number?year=2025", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "INV-2025-003", body["invoiceNumber"])

	w, body = do(t, r, http.MethodGet, "/api/billing/runs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["items"], 1)
}

func TestGenerateInvoices_BadRequests(t *testing.T) {
	r, svc := newServer(t)
	seedSociety(t, svc)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{name: "missing month", payload: map[string]any{"year": "2025", "includeAll": true}},
		{name: "unknown month", payload: map[string]any{"month": "Smarch", "year": "2025", "includeAll": true}},
		{name: "bad start number", payload: map[string]any{"month": 3, "year": 2025, "startNumber": "-1", "includeAll": true}},
		{name: "nobody selected", payload: map[string]any{"month": 3, "year": 2025}},
		{name: "malformed member id", payload: map[string]any{"month": 3, "year": 2025, "selectedMembers": []string{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, http.MethodPost, "/api/billing/invoices/generate", tt.payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, body["error"])
		})
	}

	w, body := do(t, r, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["count"], "rejected runs write nothing")
}

func TestGenerateInvoices_EmptyCatalog(t *testing.T) {
	r, svc := newServer(t)
	require.NoError(t, svc.Members.Create(context.Background(), &models.Member{Name: "Asha", Flat: "A-101", Email: "a@example.com", Active: true}))

	w, body := do(t, r, http.MethodPost, "/api/billing/invoices/generate", map[string]any{"month": "1", "year": "2025", "includeAll": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "no active standard charges")
}

func TestPaymentFlow(t *testing.T) {
	r, svc := newServer(t)
	seedSociety(t, svc)

	_, body := do(t, r, http.MethodPost, "/api/billing/invoices/generate", map[string]any{"month": 3, "year": 2025, "includeAll": true})
	invoiceID := body["invoices"].([]any)[0].(map[string]any)["invoiceId"].(string)

	w, body := do(t, r, http.MethodPost, "/api/payments", map[string]any{"invoice_id": invoiceID, "amount": 500, "method": "upi"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "partial payment")
	assert.NotEmpty(t, body["error"])

	w, body = do(t, r, http.MethodPost, "/api/payments", map[string]any{"invoice_id": invoiceID, "amount": "700.00", "method": "upi", "paid_on": "2025-03-05"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := body["payment"].(map[string]any)
	assert.Equal(t, "pending", payment["status"])
	assert.Equal(t, "2025-03-05", payment["paid_on"])
	paymentID := payment["id"].(string)

	w, _ = do(t, r, http.MethodPut, "/api/payments/"+paymentID+"/status", map[string]any{"status": "refunded"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(t, r, http.MethodPut, "/api/payments/"+paymentID+"/status", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "payment completed", body["message"])

	w, _ = do(t, r, http.MethodPut, "/api/payments/"+paymentID+"/status", map[string]any{"status": "failed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = do(t, r, http.MethodGet, "/api/invoices/"+invoiceID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", body["status"])
	assert.Len(t, body["payments"], 1)
	assert.Len(t, body["items"], 2)

	w, _ = do(t, r, http.MethodPost, "/api/payments", map[string]any{"invoice_id": invoiceID, "amount": 700})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/payments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/invoices/6f1c2a4e-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	r, _ := newServer(t)
	today := time.Now().UTC().Format("2006-01-02")

	w, _ := do(t, r, http.MethodPost, "/api/ledger", map[string]any{"type": "income", "amount": 500, "description": "Maintenance", "date": today})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = do(t, r, http.MethodPost, "/api/ledger", map[string]any{"type": "expense", "amount": "120.50", "description": "Cleaning", "date": today})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = do(t, r, http.MethodPost, "/api/ledger", map[string]any{"type": "gift", "amount": 1, "date": today})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, body := do(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 500, body["total_income"])
	assert.EqualValues(t, 120.5, body["total_expense"])
	assert.EqualValues(t, 500, body["monthly_income"])
	assert.EqualValues(t, 2, body["total_transactions"])
	assert.EqualValues(t, 100, body["income_trend"])
	assert.EqualValues(t, 100, body["expense_trend"])
	assert.EqualValues(t, 100, body["balance_trend"])

	w, body = do(t, r, http.MethodGet, "/api/stats/monthly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["months"], 12)

	w, _ = do(t, r, http.MethodGet, "/api/stats?member_id=zzz", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLedgerUpload(t *testing.T) {
	r, _ := newServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "ledger.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("date,type,amount,description\n2025-03-01,income,700,Maintenance\n2025-03-02,loan,5,Bad\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ledger/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-User-ID", "treasurer")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, body := do(t, r, http.MethodGet, "/api/ledger", nil)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "treasurer", items[0].(map[string]any)["created_by"])
}
