package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMetricsHandlerExposesPrometheusMetrics(t *testing.T) {
	metrics := NewMetrics()

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/products", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", res.Code)
	}

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "vendorkut_http_requests_total") {
		t.Fatalf("expected body to contain vendorkut_http_requests_total, got: %s", body)
	}
	if !strings.Contains(body, `route="/products"`) {
		t.Fatalf("expected route label in metrics output, got: %s", body)
	}
}

func TestMiddlewareNilReceiverPassesThrough(t *testing.T) {
	var metrics *Metrics

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	res := httptest.NewRecorder()
	metrics.Middleware(next).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatal("expected next handler to run")
	}
}
