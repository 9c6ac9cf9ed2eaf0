package approval

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vendorkut/vendorkut/internal/catalog"
	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/platform/httpx"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Handler wires the moderation HTTP endpoints. Routes are mounted behind
// the permission middleware, so every caller already holds the relevant
// approve scope; the handler only resolves the acting user for the log.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountUserRoutes registers the identity moderation routes.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Post("/users/{id}/approve", h.handleApproveUser)
	r.Post("/users/{id}/reject", h.handleRejectUser)
	r.Get("/users/{id}/decisions", h.handleUserDecisions)
}

// MountProductRoutes registers the catalog moderation routes.
func (h *Handler) MountProductRoutes(r chi.Router) {
	r.Post("/products/{id}/approve", h.handleApproveProduct)
	r.Post("/products/{id}/reject", h.handleRejectProduct)
	r.Get("/products/{id}/decisions", h.handleProductDecisions)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type userDecisionResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason,omitempty"`
}

type productDecisionResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SellerID     string `json:"seller_id"`
	Status       string `json:"status"`
	RejectReason string `json:"reject_reason,omitempty"`
}

type decisionResponse struct {
	ID      int64     `json:"id"`
	Module  string    `json:"module"`
	RefID   string    `json:"ref_id"`
	ActorID string    `json:"actor_id"`
	Action  string    `json:"action"`
	Note    string    `json:"note,omitempty"`
	At      time.Time `json:"at"`
}

func toUserDecisionResponse(u identity.User) userDecisionResponse {
	return userDecisionResponse{
		ID:           u.ID,
		Email:        u.Email,
		Status:       string(u.Status),
		RejectReason: u.RejectReason,
	}
}

func toProductDecisionResponse(p catalog.Product) productDecisionResponse {
	return productDecisionResponse{
		ID:           p.ID,
		Name:         p.Name,
		SellerID:     p.SellerID,
		Status:       string(p.Status),
		RejectReason: p.RejectReason,
	}
}

func (h *Handler) handleApproveUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.ApproveUser(r.Context(), actorID(r), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user approved", slog.String("id", id), slog.String("actor", actorID(r)))
	httpx.JSON(w, http.StatusOK, toUserDecisionResponse(user))
}

func (h *Handler) handleRejectUser(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	id := chi.URLParam(r, "id")
	user, err := h.service.RejectUser(r.Context(), actorID(r), id, req.Reason)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("user rejected", slog.String("id", id), slog.String("actor", actorID(r)))
	httpx.JSON(w, http.StatusOK, toUserDecisionResponse(user))
}

func (h *Handler) handleApproveProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.service.ApproveProduct(r.Context(), actorID(r), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("product approved", slog.String("id", id), slog.String("actor", actorID(r)))
	httpx.JSON(w, http.StatusOK, toProductDecisionResponse(product))
}

func (h *Handler) handleRejectProduct(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	id := chi.URLParam(r, "id")
	product, err := h.service.RejectProduct(r.Context(), actorID(r), id, req.Reason)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("product rejected", slog.String("id", id), slog.String("actor", actorID(r)))
	httpx.JSON(w, http.StatusOK, toProductDecisionResponse(product))
}

func (h *Handler) handleUserDecisions(w http.ResponseWriter, r *http.Request) {
	h.respondHistory(w, r, ModuleUsers)
}

func (h *Handler) handleProductDecisions(w http.ResponseWriter, r *http.Request) {
	h.respondHistory(w, r, ModuleProducts)
}

func (h *Handler) respondHistory(w http.ResponseWriter, r *http.Request, module Module) {
	decisions, err := h.service.History(r.Context(), module, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]decisionResponse, 0, len(decisions))
	for _, d := range decisions {
		items = append(items, decisionResponse{
			ID:      d.ID,
			Module:  string(d.Module),
			RefID:   d.RefID,
			ActorID: d.ActorID,
			Action:  string(d.Action),
			Note:    d.Note,
			At:      d.At,
		})
	}
	httpx.JSON(w, http.StatusOK, items)
}

func actorID(r *http.Request) string {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		return sess.User()
	}
	return ""
}
