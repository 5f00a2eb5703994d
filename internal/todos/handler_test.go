package todos_test

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
	"github.com/taskfolio/taskfolio/internal/todos"
	"github.com/taskfolio/taskfolio/internal/view"
)

func newTodosRouter(t *testing.T, repo todos.Repository, identity *shared.Identity) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := todos.NewHandler(logger, todos.NewService(repo), templates, shared.NewCSRFManager("csrf-secret"))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.ContextWithIdentity(req.Context(), identity)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/todos", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		handler.MountRoutes(r)
	})
	return r
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func post(router http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestListShowsOwnTodosOnly(t *testing.T) {
	repo := newStubRepo(
		&todos.Todo{ID: 1, Title: "mine", Priority: 1, OwnerID: 1},
		&todos.Todo{ID: 2, Title: "theirs", Priority: 1, OwnerID: 2},
	)
	router := newTodosRouter(t, repo, &shared.Identity{UserID: 1, Username: "alice"})

	res := get(router, "/todos/")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "mine")
	require.NotContains(t, res.Body.String(), "theirs")
}

func TestListRedirectsAnonymous(t *testing.T) {
	router := newTodosRouter(t, newStubRepo(), nil)

	res := get(router, "/todos/")
	require.Equal(t, http.StatusFound, res.Code)
	require.Equal(t, "/auth", res.Header().Get("Location"))
}

func TestAddTodo(t *testing.T) {
	repo := newStubRepo()
	router := newTodosRouter(t, repo, &shared.Identity{UserID: 1, Username: "alice"})

	res := post(router, "/todos/add-todo", url.Values{
		"title":       {"write tests"},
		"description": {"all of them"},
		"priority":    {"2"},
	})
	require.Equal(t, http.StatusFound, res.Code)
	require.Equal(t, "/todos", res.Header().Get("Location"))

	items, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "write tests", items[0].Title)
	require.False(t, items[0].Complete)
}

func TestAddTodoRejectsBadPriority(t *testing.T) {
	repo := newStubRepo()
	router := newTodosRouter(t, repo, &shared.Identity{UserID: 1, Username: "alice"})

	res := post(router, "/todos/add-todo", url.Values{
		"title":    {"write tests"},
		"priority": {"9"},
	})
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "priority must be between 1-5")

	items, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestEditForeignTodoRedirects(t *testing.T) {
	repo := newStubRepo(&todos.Todo{ID: 10, Title: "theirs", Priority: 1, OwnerID: 2})
	router := newTodosRouter(t, repo, &shared.Identity{UserID: 1, Username: "alice"})

	res := get(router, "/todos/edit-todo/10")
	require.Equal(t, http.StatusFound, res.Code)
	require.Equal(t, "/todos", res.Header().Get("Location"))

	post := post(router, "/todos/edit-todo/10", url.Values{
		"title":    {"stolen"},
		"priority": {"1"},
	})
	require.Equal(t, http.StatusFound, post.Code)

	kept, err := repo.GetForOwner(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Equal(t, "theirs", kept.Title)
}

func TestDeleteForeignTodoLeavesRecord(t *testing.T) {
	repo := newStubRepo(&todos.Todo{ID: 10, Title: "theirs", Priority: 1, OwnerID: 2})
	router := newTodosRouter(t, repo, &shared.Identity{UserID: 1, Username: "alice"})

	res := get(router, "/todos/delete/10")
	require.Equal(t, http.StatusFound, res.Code)
	require.Equal(t, "/todos", res.Header().Get("Location"))

	_, err := repo.GetForOwner(context.Background(), 10, 2)
	require.NoError(t, err)
}

func TestCompleteToggles(t *testing.T) {
	repo := newStubRepo(&todos.Todo{ID: 1, Title: "task", Priority: 1, OwnerID: 1})
	router := newTodosRouter(t, repo, &shared.Identity{UserID: 1, Username: "alice"})

	res := get(router, "/todos/complete/1")
	require.Equal(t, http.StatusFound, res.Code)

	todo, err := repo.GetForOwner(context.Background(), 1, 1)
	require.NoError(t, err)
	require.True(t, todo.Complete)
}

func TestEditUnknownIDRedirects(t *testing.T) {
	router := newTodosRouter(t, newStubRepo(), &shared.Identity{UserID: 1, Username: "alice"})

	for _, path := range []string{"/todos/edit-todo/999", "/todos/edit-todo/abc", "/todos/edit-todo/-1"} {
		res := get(router, path)
		require.Equal(t, http.StatusFound, res.Code, "path %s", path)
		require.Equal(t, "/todos", res.Header().Get("Location"))
	}
}
