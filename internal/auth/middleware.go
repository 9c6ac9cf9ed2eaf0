package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/platform/httpx"
	"github.com/vendorkut/vendorkut/internal/shared"
)

// Middleware wires authorization helpers for HTTP handlers. Permissions are
// resolved from the stored identity record on every request, so a rejection
// or permission change takes effect without waiting for the session to
// expire.
type Middleware struct {
	Users  identity.Repository
	Logger *slog.Logger
}

// RequireLogin ensures the request carries an authenticated session.
func (m Middleware) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := m.currentUserID(r); !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAny ensures the current user is approved and holds at least one of
// the required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(normalized) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			user, ok := m.resolveUser(w, r)
			if !ok {
				return
			}
			for _, p := range normalized {
				if user.HasPermission(p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission")
		})
	}
}

// RequireAll ensures the current user is approved and holds every required
// permission.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.resolveUser(w, r)
			if !ok {
				return
			}
			for _, p := range normalized {
				if !user.HasPermission(p) {
					httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) resolveUser(w http.ResponseWriter, r *http.Request) (identity.User, bool) {
	id, ok := m.currentUserID(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return identity.User{}, false
	}
	user, err := m.Users.GetByID(r.Context(), id)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz user lookup", slog.String("id", id), slog.Any("error", err))
		}
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "account unavailable")
		return identity.User{}, false
	}
	if user.Status != shared.StatusApproved {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "account not approved")
		return identity.User{}, false
	}
	return user, true
}

func (m Middleware) currentUserID(r *http.Request) (string, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return "", false
	}
	id := strings.TrimSpace(sess.User())
	if id == "" {
		return "", false
	}
	return id, true
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	return normalized
}
