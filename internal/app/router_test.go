package app_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vendorkut/vendorkut/internal/app"
	"github.com/vendorkut/vendorkut/internal/approval"
	"github.com/vendorkut/vendorkut/internal/auth"
	"github.com/vendorkut/vendorkut/internal/cart"
	"github.com/vendorkut/vendorkut/internal/catalog"
	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/order"
	"github.com/vendorkut/vendorkut/internal/shared"
	_ "github.com/vendorkut/vendorkut/testing"
)

type testEnv struct {
	server *httptest.Server
	client *http.Client
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := identity.NewMemoryStore()
	products := catalog.NewMemoryStore()
	carts := cart.NewMemoryStore()
	orders := order.NewMemoryStore()
	decisions := approval.NewMemoryRecorder()

	identityService := identity.NewService(users)
	_, err := identityService.EnsureAdmin(context.Background(), "admin@vendorkut.local", "admin secret")
	require.NoError(t, err)

	catalogService := catalog.NewService(products, users)
	approvalService := approval.NewService(users, products, decisions, nil, logger)
	authService := auth.NewService(users)

	cfg := &app.Config{AppEnv: "development", AppRequestTimeout: 5 * time.Second}
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		AuthHandler:     auth.NewHandler(logger, authService, sessionManager),
		AuthMiddleware:  auth.Middleware{Users: users, Logger: logger},
		IdentityHandler: identity.NewHandler(logger, identityService),
		CatalogHandler:  catalog.NewHandler(logger, catalogService),
		CartHandler:     cart.NewHandler(logger, carts, catalogService),
		OrderHandler:    order.NewHandler(logger, order.NewService(orders, carts)),
		ApprovalHandler: approval.NewHandler(logger, approvalService),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{
		server: server,
		client: &http.Client{Jar: jar},
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.server.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := e.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var decoded map[string]any
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(data) > 0 && (data[0] == '{') {
		require.NoError(t, json.Unmarshal(data, &decoded))
	}
	return res, decoded
}

const sellerBody = `{
	"first_name": "Ana", "last_name": "Souza",
	"email": "ana@example.com",
	"password": "correct horse", "password_confirm": "correct horse",
	"document": "529.982.247-25", "document_kind": "cpf",
	"seller": true
}`

func TestApprovalLifecycle(t *testing.T) {
	env := newEnv(t)

	// A fresh seller registers and lands in pending.
	res, body := env.do(t, http.MethodPost, "/register", sellerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "pending", body["status"])
	sellerID := body["id"].(string)

	// Pending accounts cannot log in even with the right password.
	res, _ = env.do(t, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	// The bootstrap admin signs in and approves the seller.
	res, _ = env.do(t, http.MethodPost, "/auth/login", `{"email":"admin@vendorkut.local","password":"admin secret"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body = env.do(t, http.MethodPost, "/admin/users/"+sellerID+"/approve", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "approved", body["status"])

	// Terminal decisions are final.
	res, _ = env.do(t, http.MethodPost, "/admin/users/"+sellerID+"/approve", "")
	require.Equal(t, http.StatusConflict, res.StatusCode)

	env.do(t, http.MethodPost, "/auth/logout", "")

	// The approved seller logs in and submits a product.
	res, _ = env.do(t, http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body = env.do(t, http.MethodPost, "/products", `{"name":"Cafeteira Italiana","price":129.9,"category":"kitchen","stock":10}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "pending", body["status"])
	productID := body["id"].(string)

	// Pending products stay off the public catalog.
	res, _ = env.do(t, http.MethodGet, "/products/"+productID, "")
	require.Equal(t, http.StatusNotFound, res.StatusCode)

	// Sellers cannot moderate their own submissions.
	res, _ = env.do(t, http.MethodPost, "/admin/products/"+productID+"/approve", "")
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	env.do(t, http.MethodPost, "/auth/logout", "")

	// Admin approves the product; it becomes publicly visible.
	res, _ = env.do(t, http.MethodPost, "/auth/login", `{"email":"admin@vendorkut.local","password":"admin secret"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = env.do(t, http.MethodPost, "/admin/products/"+productID+"/approve", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body = env.do(t, http.MethodGet, "/products/"+productID, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "approved", body["status"])

	// A buyer registers, gets approved, and checks out.
	res, body = env.do(t, http.MethodPost, "/register", `{
		"first_name": "Bruno", "last_name": "Lima",
		"email": "bruno@example.com",
		"password": "correct horse", "password_confirm": "correct horse",
		"document": "11.222.333/0001-81", "document_kind": "cnpj"
	}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	buyerID := body["id"].(string)

	res, _ = env.do(t, http.MethodPost, "/admin/users/"+buyerID+"/approve", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	env.do(t, http.MethodPost, "/auth/logout", "")

	res, _ = env.do(t, http.MethodPost, "/auth/login", `{"email":"bruno@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Buyers cannot reach the seller or moderation surfaces.
	res, _ = env.do(t, http.MethodPost, "/products", `{"name":"x","price":1,"category":"misc","stock":1}`)
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	res, _ = env.do(t, http.MethodGet, "/admin/users", "")
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = env.do(t, http.MethodPost, "/cart/items", `{"product_id":"`+productID+`","quantity":2}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, body = env.do(t, http.MethodPost, "/orders", `{"shipping_address":"Rua das Flores 100, Curitiba","payment_method":"pix"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.Equal(t, "pending", body["status"])
	require.InDelta(t, 259.8, body["total"].(float64), 0.001)

	// Checkout empties the cart.
	res, body = env.do(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, float64(0), body["total_items"])
}

func TestRejectionRequiresReason(t *testing.T) {
	env := newEnv(t)

	res, body := env.do(t, http.MethodPost, "/register", sellerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	sellerID := body["id"].(string)

	res, _ = env.do(t, http.MethodPost, "/auth/login", `{"email":"admin@vendorkut.local","password":"admin secret"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = env.do(t, http.MethodPost, "/admin/users/"+sellerID+"/reject", `{"reason":"  "}`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body = env.do(t, http.MethodPost, "/admin/users/"+sellerID+"/reject", `{"reason":"document unreadable"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "rejected", body["status"])
	require.Equal(t, "document unreadable", body["reject_reason"])
}

func TestAnonymousAccessRules(t *testing.T) {
	env := newEnv(t)

	// Public catalog is open.
	res, _ := env.do(t, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Cart and moderation require a session.
	res, _ = env.do(t, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = env.do(t, http.MethodGet, "/admin/users", "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = env.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
}
