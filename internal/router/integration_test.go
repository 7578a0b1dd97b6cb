//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tillpoint/internal/config"
	"tillpoint/internal/infra"
	"tillpoint/internal/model"
	"tillpoint/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string // admin JWT
	branch model.Branch
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("tillpoint_test"),
		tcPostgres.WithUsername("tillpoint"),
		tcPostgres.WithPassword("tillpoint"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		ReceiptStoragePath: t.TempDir(),
		BusinessName:       "Tillpoint Test Store",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed a branch with cashback capital and an admin user.
	branch := model.Branch{
		Name:            "Main Branch",
		CashbackCapital: decimal.NewFromInt(5000),
		Active:          true,
	}
	require.NoError(t, db.Create(&branch).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("tillpoint2026"), 12)
	require.NoError(t, err)
	admin := model.User{
		Username:     "admin",
		Name:         "Admin",
		PasswordHash: string(hash),
		Role:         "admin",
		BranchID:     branch.ID,
		Active:       true,
	}
	require.NoError(t, db.Create(&admin).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "tillpoint2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, db: db, token: loginBody.AccessToken, branch: branch}
}

func (env *testEnv) seedProduct(t *testing.T, name, sku string, price, stock int64) model.Product {
	t.Helper()
	qty := decimal.NewFromInt(stock)
	thr := decimal.NewFromInt(2)
	p := model.Product{
		BranchID:          env.branch.ID,
		SKU:               sku,
		Name:              name,
		CostPrice:         decimal.NewFromInt(price / 2),
		SellingPrice:      decimal.NewFromInt(price),
		TaxRate:           decimal.Zero,
		StockQuantity:     &qty,
		LowStockThreshold: &thr,
		Active:            true,
	}
	require.NoError(t, env.db.Create(&p).Error)
	return p
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full cycle: open session → cash sale → reconciliation report → close.
func TestFullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)
	p := env.seedProduct(t, "Rice 5kg", "RICE-5", 150, 20)

	sessResp := do(t, env.server, "POST", "/v1/sessions",
		jsonBody(t, map[string]any{"opening_balance": "1000"}), env.token)
	require.Equal(t, http.StatusCreated, sessResp.StatusCode)
	var sess struct {
		ID string `json:"id"`
	}
	decodeJSON(t, sessResp, &sess)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":    []map[string]any{{"product_id": p.ID.String(), "quantity": "3"}},
			"payments": []map[string]any{{"method": "cash", "amount": "500"}},
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID            string `json:"id"`
		ReceiptNumber int    `json:"receipt_number"`
		TotalAmount   string `json:"total_amount"`
		ChangeGiven   string `json:"change_given"`
		PaymentStatus string `json:"payment_status"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, 1, sale.ReceiptNumber)
	assert.Equal(t, "450", sale.TotalAmount)
	assert.Equal(t, "50", sale.ChangeGiven)
	assert.Equal(t, "paid", sale.PaymentStatus)

	// Stock persisted through the transaction.
	var dbProduct model.Product
	require.NoError(t, env.db.First(&dbProduct, "id = ?", p.ID).Error)
	assert.Equal(t, "17", dbProduct.StockQuantity.String())

	// Drawer expects opening 1000 + 450 cash.
	closeResp := do(t, env.server, "POST", "/v1/sessions/"+sess.ID+"/close",
		jsonBody(t, map[string]any{"closing_balance": "1450"}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var summary struct {
		ExpectedCash string `json:"expected_cash"`
		Variance     string `json:"variance"`
		IsBalanced   bool   `json:"is_balanced"`
	}
	decodeJSON(t, closeResp, &summary)
	assert.Equal(t, "1450", summary.ExpectedCash)
	assert.Equal(t, "0", summary.Variance)
	assert.True(t, summary.IsBalanced)
}

// A multi-item checkout that fails on a later item must leave earlier items'
// stock untouched and create no sale rows; retrying after a restock yields
// exactly one sale.
func TestCheckoutFailureRollsBackCompletely(t *testing.T) {
	env := setupTestEnv(t)
	p1 := env.seedProduct(t, "Rice 5kg", "RICE-5", 150, 10)
	p2 := env.seedProduct(t, "Palm Oil 1L", "OIL-1", 100, 1)

	sessResp := do(t, env.server, "POST", "/v1/sessions",
		jsonBody(t, map[string]any{"opening_balance": "1000"}), env.token)
	require.Equal(t, http.StatusCreated, sessResp.StatusCode)

	checkout := map[string]any{
		"items": []map[string]any{
			{"product_id": p1.ID.String(), "quantity": "2"},
			{"product_id": p2.ID.String(), "quantity": "5"},
		},
		"payments": []map[string]any{{"method": "cash", "amount": "800"}},
	}

	failResp := do(t, env.server, "POST", "/v1/sales", jsonBody(t, checkout), env.token)
	assert.Equal(t, http.StatusConflict, failResp.StatusCode)
	failResp.Body.Close()

	// The first item's deduction rolled back with the rest.
	var dbP1, dbP2 model.Product
	require.NoError(t, env.db.First(&dbP1, "id = ?", p1.ID).Error)
	require.NoError(t, env.db.First(&dbP2, "id = ?", p2.ID).Error)
	assert.Equal(t, "10", dbP1.StockQuantity.String())
	assert.Equal(t, "1", dbP2.StockQuantity.String())

	var saleCount, logCount int64
	require.NoError(t, env.db.Model(&model.Sale{}).Count(&saleCount).Error)
	require.NoError(t, env.db.Model(&model.InventoryLog{}).Count(&logCount).Error)
	assert.Zero(t, saleCount)
	assert.Zero(t, logCount)

	// Restock and retry: the same request now commits exactly one sale.
	require.NoError(t, env.db.Model(&model.Product{}).
		Where("id = ?", p2.ID).Update("stock_quantity", decimal.NewFromInt(10)).Error)

	okResp := do(t, env.server, "POST", "/v1/sales", jsonBody(t, checkout), env.token)
	require.Equal(t, http.StatusCreated, okResp.StatusCode)
	okResp.Body.Close()

	require.NoError(t, env.db.Model(&model.Sale{}).Count(&saleCount).Error)
	assert.Equal(t, int64(1), saleCount)
	require.NoError(t, env.db.First(&dbP1, "id = ?", p1.ID).Error)
	require.NoError(t, env.db.First(&dbP2, "id = ?", p2.ID).Error)
	assert.Equal(t, "8", dbP1.StockQuantity.String())
	assert.Equal(t, "5", dbP2.StockQuantity.String())
}

// Credit sale partial payment then settlement over HTTP.
func TestCreditSaleSettlement(t *testing.T) {
	env := setupTestEnv(t)
	p := env.seedProduct(t, "Generator", "GEN-1", 1000, 5)

	sessResp := do(t, env.server, "POST", "/v1/sessions",
		jsonBody(t, map[string]any{"opening_balance": "0"}), env.token)
	require.Equal(t, http.StatusCreated, sessResp.StatusCode)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"product_id": p.ID.String(), "quantity": "1"}},
			"payments":       []map[string]any{{"method": "cash", "amount": "400"}},
			"is_credit_sale": true,
			"customer_name":  "Ada",
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID            string `json:"id"`
		AmountDue     string `json:"amount_due"`
		PaymentStatus string `json:"payment_status"`
		CreditStatus  string `json:"credit_status"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "600", sale.AmountDue)
	assert.Equal(t, "partial", sale.PaymentStatus)
	assert.Equal(t, "open", sale.CreditStatus)

	settleResp := do(t, env.server, "POST", "/v1/sales/"+sale.ID+"/settle",
		jsonBody(t, map[string]any{"method": "cash", "amount": "600"}), env.token)
	require.Equal(t, http.StatusOK, settleResp.StatusCode)
	var settled struct {
		AmountDue     string `json:"amount_due"`
		PaymentStatus string `json:"payment_status"`
		CreditStatus  string `json:"credit_status"`
	}
	decodeJSON(t, settleResp, &settled)
	assert.Equal(t, "0", settled.AmountDue)
	assert.Equal(t, "paid", settled.PaymentStatus)
	assert.Equal(t, "settled", settled.CreditStatus)

	// Settling again is a conflict.
	again := do(t, env.server, "POST", "/v1/sales/"+sale.ID+"/settle",
		jsonBody(t, map[string]any{"method": "cash", "amount": "10"}), env.token)
	assert.Equal(t, http.StatusConflict, again.StatusCode)
	again.Body.Close()
}

// Cashback draws down branch capital and rejects over-draws.
func TestCashbackCapital(t *testing.T) {
	env := setupTestEnv(t)

	sessResp := do(t, env.server, "POST", "/v1/sessions",
		jsonBody(t, map[string]any{"opening_balance": "10000"}), env.token)
	require.Equal(t, http.StatusCreated, sessResp.StatusCode)

	cbResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"kind":            "cashback",
			"cashback_amount": "2000",
			"service_charge":  "100",
			"payments":        []map[string]any{{"method": "transfer", "amount": "2100"}},
		}), env.token)
	require.Equal(t, http.StatusCreated, cbResp.StatusCode)
	cbResp.Body.Close()

	balResp := do(t, env.server, "GET", "/v1/cashback/capital", nil, env.token)
	require.Equal(t, http.StatusOK, balResp.StatusCode)
	var capital struct {
		Balance string `json:"balance"`
	}
	decodeJSON(t, balResp, &capital)
	assert.Equal(t, "3000", capital.Balance)

	// 5000 left would overdraw the remaining 3000.
	overResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"kind":            "cashback",
			"cashback_amount": "5000",
			"payments":        []map[string]any{{"method": "transfer", "amount": "5000"}},
		}), env.token)
	assert.Equal(t, http.StatusConflict, overResp.StatusCode)
	overResp.Body.Close()
}
