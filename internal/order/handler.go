package order

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vendorkut/vendorkut/internal/cart"
	"github.com/vendorkut/vendorkut/internal/platform/httpx"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Handler wires order HTTP endpoints for the authenticated session.
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

// MountRoutes registers the order routes. Callers wrap them with a session
// requirement.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/orders", h.handleCheckout)
	r.Get("/orders", h.handleList)
	r.Get("/orders/{id}", h.handleGet)
}

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
}

type orderResponse struct {
	ID              string      `json:"id"`
	Lines           []cart.Line `json:"lines"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

func toOrderResponse(o Order) orderResponse {
	lines := o.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return orderResponse{
		ID:              o.ID,
		Lines:           lines,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "shipping address and payment method are required")
		return
	}

	order, err := h.service.Checkout(r.Context(), ownerID, CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		h.logger.Warn("checkout failed", slog.String("owner", ownerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("order captured", slog.String("id", order.ID), slog.String("owner", ownerID))
	httpx.JSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	orders, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, toOrderResponse(o))
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	order, err := h.service.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return "", false
	}
	return sess.User(), true
}
