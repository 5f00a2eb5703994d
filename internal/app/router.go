package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taskfolio/taskfolio/internal/auth"
	"github.com/taskfolio/taskfolio/internal/shared"
	"github.com/taskfolio/taskfolio/internal/todos"
	"github.com/taskfolio/taskfolio/internal/users"
	"github.com/taskfolio/taskfolio/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger       *slog.Logger
	Config       *Config
	Gate         *auth.Gate
	CSRFManager  *shared.CSRFManager
	AuthHandler  *auth.Handler
	TodosHandler *todos.Handler
	UsersHandler *users.Handler
}

// NewRouter constructs the chi.Router with Taskfolio defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:      params.Logger,
		Config:      params.Config,
		Gate:        params.Gate,
		CSRFManager: params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The landing decision mirrors the protected routes: anonymous users
	// end up on the login page, everyone else on their list.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if shared.IdentityFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/auth", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/todos", http.StatusFound)
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/todos", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		params.TodosHandler.MountRoutes(r)
	})
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		params.UsersHandler.MountRoutes(r)
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
