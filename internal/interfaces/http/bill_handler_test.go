package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-billing/internal/application/billing"
	"github.com/jhoicas/smart-billing/internal/application/dto"
	"github.com/jhoicas/smart-billing/internal/infrastructure/memory"
	"github.com/jhoicas/smart-billing/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/smart-billing/internal/infrastructure/pdf"
	"github.com/jhoicas/smart-billing/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/smart-billing/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/smart-billing/pkg/jwt"
	"github.com/jhoicas/smart-billing/pkg/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildBillingApp(t *testing.T) *fiber.App {
	t.Helper()
	fm, err := money.New("USD", "en-US")
	require.NoError(t, err)

	repo := memory.NewDraftRepository()
	prom := metrics.NewPrometheus("billing")
	draftUC := billing.NewDraftUseCase(repo, fm, prom, nil, "INV")
	exportUC := billing.NewExportUseCase(repo, fm,
		billing.CompanyInfo{Name: "Great Cyber Cafe"},
		infrapdf.NewMarotoPDFGenerator(),
		xlsx.NewExcelizeExporter("smart-billing-test"),
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		DraftUC:   draftUC,
		ExportUC:  exportUC,
		JWTSecret: testJWTSecret,
		Metrics:   prom.Handler(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestBillHandler_FlujoBorrador(t *testing.T) {
	app := buildBillingApp(t)
	auth := tokenForRole(t, pkgjwt.RoleStaff)

	resp := call(t, app, http.MethodPost, "/api/bills/drafts", auth, map[string]string{"customer_name": "Asha"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var draft dto.DraftResponse
	decode(t, resp, &draft)
	assert.Equal(t, "INV-000001", draft.Number)
	base := "/api/bills/drafts/" + draft.ID

	resp = call(t, app, http.MethodPost, base+"/rows", auth, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var added dto.RowAddedResponse
	decode(t, resp, &added)
	assert.Equal(t, "items[0]", added.Row.FieldPrefix)

	resp = call(t, app, http.MethodPatch, base+"/rows/0", auth, map[string]interface{}{
		"description": "Impresión", "quantity": 2, "rate": "150.00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPatch, base+"/adjustments", auth, map[string]interface{}{
		"tax_rate": "18", "discount": 50, "advance_amount": "100",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.DraftResponse
	decode(t, resp, &got)
	assert.Equal(t, "300.00", got.Totals.Subtotal)
	assert.Equal(t, "54.00", got.Totals.TaxAmount)
	assert.Equal(t, "304.00", got.Totals.TotalAmount)
	assert.Equal(t, "204.00", got.Totals.RemainingAmount)

	resp = call(t, app, http.MethodGet, base+"/pdf", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "INV-000001.pdf")
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, base+"/xlsx", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "INV-000001.xlsx")
	resp.Body.Close()

	resp = call(t, app, http.MethodDelete, base+"/rows/0", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &got)
	assert.Empty(t, got.Items)
	assert.Equal(t, "-50.00", got.Totals.TotalAmount)
	assert.Equal(t, "0.00", got.Totals.RemainingAmount)

	resp = call(t, app, http.MethodDelete, base, auth, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, base, auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBillHandler_BorradorAjenoRetorna403(t *testing.T) {
	app := buildBillingApp(t)

	resp := call(t, app, http.MethodPost, "/api/bills/drafts", tokenFor(t, "user-a", pkgjwt.RoleStaff), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var draft dto.DraftResponse
	decode(t, resp, &draft)

	resp = call(t, app, http.MethodGet, "/api/bills/drafts/"+draft.ID, tokenFor(t, "user-b", pkgjwt.RoleStaff), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/bills/drafts/"+draft.ID, tokenFor(t, "root", pkgjwt.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/bills/drafts", tokenFor(t, "user-b", pkgjwt.RoleStaff), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.DraftListResponse
	decode(t, resp, &list)
	assert.Equal(t, 0, list.Page.Total)
}

func TestBillHandler_PosicionInvalida(t *testing.T) {
	app := buildBillingApp(t)
	auth := tokenForRole(t, pkgjwt.RoleStaff)

	resp := call(t, app, http.MethodPost, "/api/bills/drafts", auth, nil)
	var draft dto.DraftResponse
	decode(t, resp, &draft)

	resp = call(t, app, http.MethodDelete, "/api/bills/drafts/"+draft.ID+"/rows/abc", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodDelete, "/api/bills/drafts/"+draft.ID+"/rows/5", auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBillHandler_Calculate(t *testing.T) {
	app := buildBillingApp(t)
	resp := call(t, app, http.MethodPost, "/api/bills/calculate", tokenForRole(t, pkgjwt.RoleAdmin), map[string]interface{}{
		"items": []map[string]interface{}{
			{"description": "A", "quantity": 2, "rate": "150"},
			{"description": "B", "quantity": "x", "rate": "10"},
		},
		"tax_rate": 18,
		"discount": "50",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.BillResponse
	decode(t, resp, &out)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "0.00", out.Items[1].Total)
	assert.Equal(t, "304.00", out.Totals.TotalAmount)
	assert.Equal(t, "$304.00", out.Totals.Formatted.TotalAmount)
}

func TestBillHandler_Formulario(t *testing.T) {
	app := buildBillingApp(t)
	form := url.Values{}
	form.Set("items[1][description]", "Escaneo")
	form.Set("items[1][quantity]", "")
	form.Set("items[1][rate]", "25")
	form.Set("items[0][description]", "   ")
	form.Set("items[0][rate]", "999")
	form.Set("tax_rate", "10")

	req := httptest.NewRequest(http.MethodPost, "/api/bills/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleStaff))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.BillResponse
	decode(t, resp, &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "items[1]", out.Items[0].FieldPrefix)
	assert.Equal(t, "27.50", out.Totals.TotalAmount)
}

func TestBillHandler_SinTokenYMetricas(t *testing.T) {
	app := buildBillingApp(t)

	resp := call(t, app, http.MethodPost, "/api/bills/calculate", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/bills/drafts", tokenForRole(t, "guest"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/bills/drafts", tokenForRole(t, pkgjwt.RoleStaff), nil)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "billing_drafts_active 1")
}

func TestBillHandler_FormularioMultipart(t *testing.T) {
	app := buildBillingApp(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("items[0][description]", "Impresión"))
	require.NoError(t, w.WriteField("items[0][quantity]", "2"))
	require.NoError(t, w.WriteField("items[0][rate]", "150"))
	require.NoError(t, w.WriteField("tax_rate", "18"))
	require.NoError(t, w.WriteField("discount", "50"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/bills/form", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleStaff))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.BillResponse
	decode(t, resp, &out)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "304.00", out.Totals.TotalAmount)
}

func TestBillHandler_FormularioContentTypeNoSoportado(t *testing.T) {
	app := buildBillingApp(t)
	resp := call(t, app, http.MethodPost, "/api/bills/form", tokenForRole(t, pkgjwt.RoleStaff),
		map[string]string{"items[0][description]": "Impresión"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "INVALID_BODY")
}

func TestBillHandler_CicloDeCobro(t *testing.T) {
	app := buildBillingApp(t)
	auth := tokenForRole(t, pkgjwt.RoleStaff)

	resp := call(t, app, http.MethodPost, "/api/bills/drafts", auth, map[string]interface{}{
		"customer_name": "Asha", "tax_rate": "18", "discount": 50,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var draft dto.DraftResponse
	decode(t, resp, &draft)
	assert.Equal(t, "draft", draft.Status)
	base := "/api/bills/drafts/" + draft.ID

	resp = call(t, app, http.MethodPost, base+"/rows", auth, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = call(t, app, http.MethodPatch, base+"/rows/0", auth, map[string]interface{}{"quantity": 2, "rate": 150})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, base+"/payments", auth, map[string]interface{}{"payment_amount": 500})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var apiErr dto.ErrorResponse
	decode(t, resp, &apiErr)
	assert.Equal(t, "VALIDATION", apiErr.Code)

	resp = call(t, app, http.MethodPost, base+"/payments", auth, map[string]interface{}{"payment_amount": "104"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.DraftResponse
	decode(t, resp, &got)
	assert.Equal(t, "sent", got.Status)
	assert.Equal(t, "200.00", got.Totals.RemainingAmount)

	resp = call(t, app, http.MethodPatch, base+"/status", auth, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &got)
	assert.Equal(t, "paid", got.Status)
	assert.Equal(t, "0.00", got.Totals.RemainingAmount)

	resp = call(t, app, http.MethodDelete, base, auth, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	decode(t, resp, &apiErr)
	assert.Equal(t, "CONFLICT", apiErr.Code)

	resp = call(t, app, http.MethodPost, base+"/duplicate", auth, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var dup dto.DraftResponse
	decode(t, resp, &dup)
	assert.Equal(t, "INV-000002", dup.Number)
	assert.Equal(t, "draft", dup.Status)
	assert.Equal(t, "304.00", dup.Totals.RemainingAmount)

	resp = call(t, app, http.MethodPatch, base+"/status", auth, map[string]string{"status": "archivada"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
