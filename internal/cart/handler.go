package cart

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendorkut/vendorkut/internal/catalog"
	"github.com/vendorkut/vendorkut/internal/platform/httpx"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// ProductLookup resolves the snapshot fields for a product being added.
// Satisfied by catalog.Service; only approved products resolve.
type ProductLookup interface {
	GetApproved(ctx context.Context, id string) (catalog.Product, error)
}

// Handler wires cart HTTP endpoints for the authenticated session. The
// unauthenticated fallback lives client-side against the same Store surface.
type Handler struct {
	logger   *slog.Logger
	store    Store
	products ProductLookup
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, store Store, products ProductLookup) *Handler {
	return &Handler{logger: logger, store: store, products: products}
}

// MountRoutes registers the cart routes. Callers wrap them with a session
// requirement.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cart", h.handleGet)
	r.Post("/cart/items", h.handleAdd)
	r.Put("/cart/items/{productID}", h.handleSetQuantity)
	r.Delete("/cart", h.handleClear)
}

type addRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Lines      []Line  `json:"lines"`
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	lines, err := h.store.Get(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("get cart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, lines)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}

	product, err := h.products.GetApproved(r.Context(), req.ProductID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	item := Item{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Image:     product.Image,
	}
	if err := h.store.AddItem(r.Context(), ownerID, item, req.Quantity); err != nil {
		h.logger.Error("add cart item", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	lines, err := h.store.Get(r.Context(), ownerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, lines)
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.store.SetQuantity(r.Context(), ownerID, chi.URLParam(r, "productID"), req.Quantity); err != nil {
		h.logger.Error("set cart quantity", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	lines, err := h.store.Get(r.Context(), ownerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, lines)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	if err := h.store.Clear(r.Context(), ownerID); err != nil {
		h.logger.Error("clear cart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.respond(w, nil)
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return "", false
	}
	return sess.User(), true
}

func (h *Handler) respond(w http.ResponseWriter, lines []Line) {
	if lines == nil {
		lines = []Line{}
	}
	httpx.JSON(w, http.StatusOK, cartResponse{
		Lines:      lines,
		TotalItems: Count(lines),
		TotalPrice: Total(lines),
	})
}
