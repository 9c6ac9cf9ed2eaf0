package identity

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vendorkut/vendorkut/internal/document"
	"github.com/vendorkut/vendorkut/internal/platform/httpx"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Handler wires identity HTTP endpoints.
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

// MountRoutes registers the public identity routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
}

// MountAdminRoutes registers the admin-facing user listing routes. Callers
// are expected to wrap these with a users.view permission check.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/users", h.handleList)
	r.Get("/users/{id}", h.handleGet)
}

type registerRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Document        string `json:"document" validate:"required"`
	DocumentKind    string `json:"document_kind" validate:"required,oneof=cpf cnpj"`
	Seller          bool   `json:"seller"`
}

type userResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Document     string    `json:"document"`
	DocumentKind string    `json:"document_kind"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	Status       string    `json:"status"`
	RejectReason string    `json:"reject_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Document:     u.Document,
		DocumentKind: string(u.DocumentKind),
		Role:         string(u.Role),
		Permissions:  u.Permissions,
		Status:       string(u.Status),
		RejectReason: u.RejectReason,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", shared.ErrValidation, validationDetail(err)))
		return
	}

	user, err := h.service.Register(r.Context(), RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Document:        req.Document,
		DocumentKind:    document.Kind(req.DocumentKind),
		Seller:          req.Seller,
	})
	if err != nil {
		h.logger.Warn("register rejected", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("user registered", slog.String("id", user.ID), slog.String("role", string(user.Role)))
	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := Filter{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := shared.Status(raw)
		if !status.Valid() {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status "+raw)
			return
		}
		filter.Status = &status
	}

	users, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(users))
	lo, hi := pagination.Slice(len(users))

	items := make([]userResponse, 0, hi-lo)
	for _, u := range users[lo:hi] {
		items = append(items, toUserResponse(u))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users":      items,
		"pagination": pagination,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func validationDetail(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid request"
	}
	return errs[0].Field() + " is invalid"
}
