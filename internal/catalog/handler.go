package catalog

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vendorkut/vendorkut/internal/platform/httpx"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Handler wires catalog HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers the public catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.handleList)
	r.Get("/products/{id}", h.handleGet)
}

// MountSellerRoutes registers the authenticated submission route. Callers
// wrap these with a session requirement.
func (h *Handler) MountSellerRoutes(r chi.Router) {
	r.Post("/products", h.handleSubmit)
}

// MountAdminRoutes registers admin listing routes, wrapped with a
// products.approve permission check by the router.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/products", h.handleAdminList)
}

type submitRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Image       string  `json:"image"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

type productResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Image        string    `json:"image,omitempty"`
	Category     string    `json:"category"`
	Stock        int       `json:"stock"`
	SellerID     string    `json:"seller_id"`
	Status       string    `json:"status"`
	RejectReason string    `json:"reject_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Image:        p.Image,
		Category:     p.Category,
		Stock:        p.Stock,
		SellerID:     p.SellerID,
		Status:       string(p.Status),
		RejectReason: p.RejectReason,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}

	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid product submission", shared.ErrValidation))
		return
	}

	product, err := h.service.Submit(r.Context(), SubmitInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		SellerID:    sess.User(),
	})
	if err != nil {
		h.logger.Warn("product submission rejected", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("product submitted", slog.String("id", product.ID), slog.String("seller", product.SellerID))
	httpx.JSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListApproved(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(products))
	lo, hi := pagination.Slice(len(products))

	items := make([]productResponse, 0, hi-lo)
	for _, p := range products[lo:hi] {
		items = append(items, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products":   items,
		"pagination": pagination,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetApproved(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleAdminList(w http.ResponseWriter, r *http.Request) {
	filter := Filter{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := shared.Status(raw)
		if !status.Valid() {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status "+raw)
			return
		}
		filter.Status = &status
	}
	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("admin list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	items := make([]productResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": items})
}
