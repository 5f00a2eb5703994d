package users_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio/internal/auth"
	"github.com/taskfolio/taskfolio/internal/shared"
	"github.com/taskfolio/taskfolio/internal/users"
	"github.com/taskfolio/taskfolio/internal/view"
)

func newUsersRouter(t *testing.T, creds auth.Repository, repo users.Repository, identity *shared.Identity) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := users.NewHandler(logger, users.NewService(creds, repo), templates, shared.NewCSRFManager("csrf-secret"))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.ContextWithIdentity(req.Context(), identity)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		handler.MountRoutes(r)
	})
	return r
}

func postForm(router http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestEditPasswordRequiresAuth(t *testing.T) {
	router := newUsersRouter(t, &stubCreds{}, newStubAddressRepo(), nil)

	req := httptest.NewRequest(http.MethodGet, "/users/edit-password", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusFound, res.Code)
	require.Equal(t, "/auth", res.Header().Get("Location"))
}

func TestEditPasswordSuccess(t *testing.T) {
	creds := &stubCreds{user: &auth.User{
		ID:             1,
		Username:       "alice",
		HashedPassword: mustHash(t, "old-pass"),
		IsActive:       true,
	}}
	identity := &shared.Identity{UserID: 1, Username: "alice"}
	router := newUsersRouter(t, creds, newStubAddressRepo(), identity)

	res := postForm(router, "/users/edit-password", url.Values{
		"username":  {"alice"},
		"password":  {"old-pass"},
		"password2": {"new-pass"},
	})

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "Password updated")
	require.True(t, auth.VerifyPassword("new-pass", creds.user.HashedPassword))
}

func TestEditPasswordWrongCurrent(t *testing.T) {
	creds := &stubCreds{user: &auth.User{
		ID:             1,
		Username:       "alice",
		HashedPassword: mustHash(t, "old-pass"),
		IsActive:       true,
	}}
	identity := &shared.Identity{UserID: 1, Username: "alice"}
	router := newUsersRouter(t, creds, newStubAddressRepo(), identity)

	res := postForm(router, "/users/edit-password", url.Values{
		"username":  {"alice"},
		"password":  {"wrong"},
		"password2": {"new-pass"},
	})

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "Invalid username or password")
	require.True(t, auth.VerifyPassword("old-pass", creds.user.HashedPassword))
}

func TestEditAddressSavesAndRenders(t *testing.T) {
	repo := newStubAddressRepo()
	identity := &shared.Identity{UserID: 1, Username: "alice"}
	router := newUsersRouter(t, &stubCreds{}, repo, identity)

	res := postForm(router, "/users/edit-address", url.Values{
		"address1":   {"1 Main St"},
		"city":       {"Springfield"},
		"state":      {"IL"},
		"country":    {"US"},
		"postalcode": {"62701"},
		"apt_num":    {"4"},
	})

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "Address updated")

	addr, err := repo.GetAddress(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "1 Main St", addr.Address1)
	require.Equal(t, 4, *addr.AptNum)
}

func TestEditAddressMissingFields(t *testing.T) {
	repo := newStubAddressRepo()
	identity := &shared.Identity{UserID: 1, Username: "alice"}
	router := newUsersRouter(t, &stubCreds{}, repo, identity)

	res := postForm(router, "/users/edit-address", url.Values{
		"address1": {"1 Main St"},
	})

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "All address fields are required")

	_, err := repo.GetAddress(context.Background(), 1)
	require.Error(t, err)
}
