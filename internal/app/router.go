package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vendorkut/vendorkut/internal/approval"
	"github.com/vendorkut/vendorkut/internal/auth"
	"github.com/vendorkut/vendorkut/internal/cart"
	"github.com/vendorkut/vendorkut/internal/catalog"
	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/observability"
	"github.com/vendorkut/vendorkut/internal/order"
	"github.com/vendorkut/vendorkut/internal/shared"
	"github.com/vendorkut/vendorkut/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	AuthHandler     *auth.Handler
	AuthMiddleware  auth.Middleware
	IdentityHandler *identity.Handler
	CatalogHandler  *catalog.Handler
	CartHandler     *cart.Handler
	OrderHandler    *order.Handler
	ApprovalHandler *approval.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Vendorkut defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Public surface: registration and the approved catalog.
	params.IdentityHandler.MountRoutes(r)
	params.CatalogHandler.MountRoutes(r)

	// Authenticated buyer surface.
	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireLogin)
		params.CartHandler.MountRoutes(r)
		params.OrderHandler.MountRoutes(r)
	})

	// Seller surface: product submission for approved sellers.
	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireAny(shared.PermProductsSell))
		params.CatalogHandler.MountSellerRoutes(r)
	})

	// Moderation surface.
	r.Route("/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAny(shared.PermUsersView))
			params.IdentityHandler.MountAdminRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAny(shared.PermUsersApprove))
			params.ApprovalHandler.MountUserRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAny(shared.PermProductsApprove))
			params.CatalogHandler.MountAdminRoutes(r)
			params.ApprovalHandler.MountProductRoutes(r)
		})
		if params.JobHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(params.AuthMiddleware.RequireAny(shared.PermAdminAccess))
				params.JobHandler.MountRoutes(r)
			})
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
