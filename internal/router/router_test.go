package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/config"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/dto"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/model"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/repository"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/router"
	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/service"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	engine *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: "test", StorageDriver: "memory", Timezone: "UTC"}

	repo := repository.NewStateRepository(repository.NewMemoryBlobStore())
	state, err := service.NewState(context.Background(), repo)
	require.NoError(t, err)

	svc := router.NewServices(cfg, state, nil, nil)
	return &testEnv{engine: router.New(cfg, svc, repo, nil, nil)}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func (e *testEnv) createProduct(t *testing.T, name, barcode string, price, cost int64, stock int) model.Product {
	t.Helper()
	w := e.do(t, http.MethodPost, "/v1/products", dto.ProductRequest{
		Name: name, Barcode: barcode, Price: price, CostPrice: cost, Category: "Frozen", Stock: stock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p model.Product
	decodeJSON(t, w, &p)
	return p
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"storage":"connected","driver":"memory","queue":"disabled"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCashSaleOverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	p := env.createProduct(t, "Nugget", "8991", 10000, 7000, 5)

	w := env.do(t, http.MethodPost, "/v1/carts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var cart dto.CartResponse
	decodeJSON(t, w, &cart)

	w = env.do(t, http.MethodPost, "/v1/carts/"+cart.ID+"/items", dto.AddCartItemRequest{ProductID: p.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.do(t, http.MethodPatch, "/v1/carts/"+cart.ID+"/items/"+p.ID, dto.UpdateQuantityRequest{Delta: 1})
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &cart)
	assert.Equal(t, int64(20000), cart.Total)
	assert.Equal(t, 2, cart.ItemCount)

	w = env.do(t, http.MethodPost, "/v1/carts/"+cart.ID+"/checkout", dto.BeginCheckoutRequest{PaymentMethod: model.PaymentCash})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/v1/carts/"+cart.ID+"/items", dto.AddCartItemRequest{ProductID: p.ID})
	assert.Equal(t, http.StatusConflict, w.Code, "cart is frozen while awaiting payment")

	w = env.do(t, http.MethodPost, "/v1/carts/"+cart.ID+"/checkout/confirm", dto.ConfirmPaymentRequest{AmountGiven: 15000})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, http.MethodPost, "/v1/carts/"+cart.ID+"/checkout/confirm", dto.ConfirmPaymentRequest{CustomerName: "Budi", AmountGiven: 25000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sale dto.CheckoutResponse
	decodeJSON(t, w, &sale)
	assert.Equal(t, int64(5000), sale.Change)
	assert.False(t, sale.ReceiptQueued)
	assert.Empty(t, sale.Cart.Items)

	w = env.do(t, http.MethodGet, "/v1/products/"+p.ID, nil)
	var after model.Product
	decodeJSON(t, w, &after)
	assert.Equal(t, 3, after.Stock)

	w = env.do(t, http.MethodGet, "/v1/transactions?q=budi", nil)
	var txs []model.Transaction
	decodeJSON(t, w, &txs)
	require.Len(t, txs, 1)
	assert.Equal(t, sale.Transaction.ID, txs[0].ID)

	w = env.do(t, http.MethodGet, "/v1/transactions/"+sale.Transaction.ID+"/receipt", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = env.do(t, http.MethodGet, "/v1/reports/summary", nil)
	var summary dto.ReportSummary
	decodeJSON(t, w, &summary)
	assert.Equal(t, int64(20000), summary.TotalRevenue)
	assert.Equal(t, int64(14000), summary.TotalCOGS)
	assert.Len(t, summary.Last7Days, 7)
}

func TestQRISConfirmWithoutBody(t *testing.T) {
	env := setupTestEnv(t)
	p := env.createProduct(t, "Bakso", "8992", 30000, 21000, 1)

	var cart dto.CartResponse
	decodeJSON(t, env.do(t, http.MethodPost, "/v1/carts", nil), &cart)
	env.do(t, http.MethodPost, "/v1/carts/"+cart.ID+"/items", dto.AddCartItemRequest{ProductID: p.ID})
	env.do(t, http.MethodPost, "/v1/carts/"+cart.ID+"/checkout", dto.BeginCheckoutRequest{PaymentMethod: model.PaymentQRIS})

	w := env.do(t, http.MethodPost, "/v1/carts/"+cart.ID+"/checkout/confirm", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sale dto.CheckoutResponse
	decodeJSON(t, w, &sale)
	assert.Equal(t, model.DefaultCustomerName, sale.Transaction.CustomerName)
	assert.Equal(t, int64(30000), sale.Transaction.AmountGiven)
	assert.Zero(t, sale.Change)
}

func TestProductErrors(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/products", map[string]any{"name": "", "price": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var verr struct {
		Detail string            `json:"detail"`
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, w, &verr)
	assert.Contains(t, verr.Fields, "Name")

	w = env.do(t, http.MethodPost, "/v1/stock-in", dto.StockInRequest{Barcode: "8990000", Quantity: 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"barcode":"8990000"`)

	w = env.do(t, http.MethodPut, "/v1/products/missing", dto.ProductRequest{Name: "X", Category: "Frozen"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/v1/carts/nope/items", dto.AddCartItemRequest{ProductID: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/v1/products", strings.Repeat("x", 3))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockInAndReports(t *testing.T) {
	env := setupTestEnv(t)
	p := env.createProduct(t, "Sosis", "8993", 15000, 11000, 2)

	w := env.do(t, http.MethodPost, "/v1/stock-in", dto.StockInRequest{Barcode: "8993", Quantity: 10})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Product
	decodeJSON(t, w, &updated)
	assert.Equal(t, 12, updated.Stock)

	w = env.do(t, http.MethodPatch, "/v1/products/"+p.ID+"/stock", dto.AdjustStockRequest{Delta: -2})
	decodeJSON(t, w, &updated)
	assert.Equal(t, 10, updated.Stock)

	w = env.do(t, http.MethodGet, "/v1/reports/stock.xlsx", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Valuasi-Stok-")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = env.do(t, http.MethodGet, "/v1/reports/financial.pdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Laporan-Keuangan-")

	w = env.do(t, http.MethodGet, "/v1/reports/stock.pdf", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestManualLedgerAndVoid(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/transactions", dto.TransactionRequest{ID: "TX-MANUAL", Total: 45000, PaymentMethod: model.PaymentCash, AmountGiven: 50000, Change: 5000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.do(t, http.MethodPost, "/v1/transactions", dto.TransactionRequest{ID: "TX-MANUAL", PaymentMethod: model.PaymentCash})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodDelete, "/v1/transactions/TX-MANUAL", dto.VoidTransactionRequest{Reason: "double entry"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/v1/transactions/TX-MANUAL", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var voided []model.VoidRecord
	decodeJSON(t, env.do(t, http.MethodGet, "/v1/transactions/voided", nil), &voided)
	require.Len(t, voided, 1)
	assert.Equal(t, "double entry", voided[0].Reason)
}

func TestProfileAndTheme(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPut, "/v1/profile", dto.ProfileRequest{Name: "HF Frozen Food Bogor"})
	require.Equal(t, http.StatusOK, w.Code)
	var p model.StoreProfile
	decodeJSON(t, env.do(t, http.MethodGet, "/v1/profile", nil), &p)
	assert.Equal(t, "HF Frozen Food Bogor", p.Name)

	w = env.do(t, http.MethodPut, "/v1/theme", dto.ThemeRequest{Theme: "sepia"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = env.do(t, http.MethodPut, "/v1/theme", dto.ThemeRequest{Theme: model.ThemeLight})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"theme":"light"}`, env.do(t, http.MethodGet, "/v1/theme", nil).Body.String())
}

func TestDownloadNamesSurviveQuotesInStoreName(t *testing.T) {
	env := setupTestEnv(t)
	w := env.do(t, http.MethodPut, "/v1/profile", dto.ProfileRequest{Name: `Toko "Es" Segar`})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/v1/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(params["filename"], `Toko-"Es"-Segar-Backup-`), params["filename"])
}

func TestBackupOverHTTP(t *testing.T) {
	env := setupTestEnv(t)
	env.createProduct(t, "Dimsum", "8994", 18000, 12000, 6)

	w := env.do(t, http.MethodGet, "/v1/backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "HF-Frozen-Food-Backup-")
	exported := w.Body.Bytes()

	raw := func(path string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		env.engine.ServeHTTP(rec, req)
		return rec
	}

	empty := []byte(`{"products":[],"transactions":[],"storeProfile":{"name":"Kosong"}}`)
	assert.Equal(t, http.StatusPreconditionRequired, raw("/v1/backup/import", empty).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, raw("/v1/backup/import?confirm=true", []byte(`{"products":[]}`)).Code)
	assert.Equal(t, http.StatusBadRequest, raw("/v1/backup/import?confirm=true", []byte(`{oops`)).Code)

	assert.Equal(t, http.StatusNoContent, raw("/v1/backup/import?confirm=true", empty).Code)
	var products []model.Product
	decodeJSON(t, env.do(t, http.MethodGet, "/v1/products", nil), &products)
	assert.Empty(t, products)

	// restore the export through a multipart upload
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "backup.json")
	require.NoError(t, err)
	_, _ = part.Write(exported)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/v1/backup/import?confirm=true", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	decodeJSON(t, env.do(t, http.MethodGet, "/v1/products", nil), &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Dimsum", products[0].Name)

	w = env.do(t, http.MethodPost, "/v1/backup/archive", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code, "no archiver configured")
}
