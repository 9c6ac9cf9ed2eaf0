package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vendorkut/vendorkut/internal/auth"
	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/shared"
	_ "github.com/vendorkut/vendorkut/testing"
)

func newAuthHandler(t *testing.T, store *identity.MemoryStore) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.NewHandler(logger, auth.NewService(store), sessionManager)
	return handler, sessionManager
}

func doLogin(t *testing.T, handler *auth.Handler, sessionManager *shared.SessionManager, body string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	sess, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	mux := chiMux(handler)
	mux.ServeHTTP(res, req)
	require.NoError(t, sessionManager.Commit(req.Context(), res, sess))
	return res, sess
}

func chiMux(handler *auth.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r
}

func TestLoginEndpoint(t *testing.T) {
	store := identity.NewMemoryStore()
	seedUser(t, store, shared.StatusApproved)
	handler, sessionManager := newAuthHandler(t, store)

	res, sess := doLogin(t, handler, sessionManager, `{"email":"ana@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"email":"ana@example.com"`)
	require.NotContains(t, res.Body.String(), "password")
	require.NotEmpty(t, sess.User(), "session must carry the user id")
}

func TestLoginEndpointNotApproved(t *testing.T) {
	store := identity.NewMemoryStore()
	seedUser(t, store, shared.StatusPending)
	handler, sessionManager := newAuthHandler(t, store)

	res, sess := doLogin(t, handler, sessionManager, `{"email":"ana@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusForbidden, res.Code)
	require.Empty(t, sess.User())
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	store := identity.NewMemoryStore()
	seedUser(t, store, shared.StatusApproved)
	handler, sessionManager := newAuthHandler(t, store)

	res, _ := doLogin(t, handler, sessionManager, `{"email":"ana@example.com","password":"nope nope"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginEndpointMalformedBody(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, identity.NewMemoryStore())

	res, _ := doLogin(t, handler, sessionManager, `{"email":`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	store := identity.NewMemoryStore()
	seedUser(t, store, shared.StatusApproved)
	handler, sessionManager := newAuthHandler(t, store)

	loginRes, sess := doLogin(t, handler, sessionManager, `{"email":"ana@example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, loginRes.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})
	loaded, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, sess.User(), loaded.User())
	req = req.WithContext(shared.ContextWithSession(req.Context(), loaded))

	res := httptest.NewRecorder()
	chiMux(handler).ServeHTTP(res, req)
	require.NoError(t, sessionManager.Commit(req.Context(), res, loaded))
	require.Equal(t, http.StatusNoContent, res.Code)

	fresh := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	fresh.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})
	reloaded, err := sessionManager.Load(context.Background(), fresh)
	require.NoError(t, err)
	require.Empty(t, reloaded.User(), "destroyed session must not resolve a user")
}

func TestMeEndpoint(t *testing.T) {
	store := identity.NewMemoryStore()
	user := seedUser(t, store, shared.StatusApproved)
	handler, sessionManager := newAuthHandler(t, store)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetUser(user.ID)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	chiMux(handler).ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), user.ID)
}

func TestMeEndpointUnauthenticated(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, identity.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	chiMux(handler).ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}
