package todos

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskfolio/taskfolio/internal/auth"
	"github.com/taskfolio/taskfolio/internal/shared"
	"github.com/taskfolio/taskfolio/internal/view"
)

// Handler wires HTTP endpoints for the todo list. All routes are mounted
// behind auth.RequireAuth, so an identity is always present in context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		validator: validator.New(),
	}
}

// MountRoutes registers todo routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/add-todo", h.showAdd)
	r.Post("/add-todo", h.handleAdd)
	r.Get("/edit-todo/{todoID}", h.showEdit)
	r.Post("/edit-todo/{todoID}", h.handleEdit)
	r.Get("/delete/{todoID}", h.handleDelete)
	r.Get("/complete/{todoID}", h.handleComplete)
}

type todoForm struct {
	Title       string `validate:"required"`
	Description string
	Priority    int `validate:"gte=1,lte=5"`
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title, msg string, data any) {
	viewData := view.TemplateData{
		Title:       title,
		Msg:         msg,
		CSRFToken:   h.csrfToken(r),
		User:        shared.IdentityFromContext(r.Context()),
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render "+page, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) csrfToken(r *http.Request) string {
	cookie, err := r.Cookie(auth.CookieName)
	if err != nil {
		return ""
	}
	return h.csrf.TokenFor(cookie.Value)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	items, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("list todos", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/home.html", "Todos", "", items)
}

func (h *Handler) showAdd(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/add-todo.html", "Add Todo", "", nil)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	form, ok := h.parseTodoForm(w, r)
	if !ok {
		return
	}
	if err := h.validator.Struct(form); err != nil {
		h.render(w, r, "pages/add-todo.html", "Add Todo", "The priority must be between 1-5", nil)
		return
	}
	if _, err := h.service.Create(r.Context(), identity.UserID, form.Title, form.Description, form.Priority); err != nil {
		h.logger.Error("create todo", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	id, ok := todoID(r)
	if !ok {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	todo, err := h.service.Get(r.Context(), id, identity.UserID)
	if err != nil {
		// Missing and foreign rows are indistinguishable here.
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	h.render(w, r, "pages/edit-todo.html", "Edit Todo", "", todo)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	id, ok := todoID(r)
	if !ok {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	form, ok := h.parseTodoForm(w, r)
	if !ok {
		return
	}
	if err := h.validator.Struct(form); err != nil {
		todo, getErr := h.service.Get(r.Context(), id, identity.UserID)
		if getErr != nil {
			http.Redirect(w, r, "/todos", http.StatusFound)
			return
		}
		h.render(w, r, "pages/edit-todo.html", "Edit Todo", "The priority must be between 1-5", todo)
		return
	}
	if err := h.service.Update(r.Context(), id, identity.UserID, form.Title, form.Description, form.Priority); err != nil {
		http.Redirect(w, r, "/todos", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if id, ok := todoID(r); ok {
		if err := h.service.Delete(r.Context(), id, identity.UserID); err != nil {
			h.logger.Debug("delete todo", slog.Int64("id", id), slog.Any("error", err))
		}
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if id, ok := todoID(r); ok {
		if err := h.service.ToggleComplete(r.Context(), id, identity.UserID); err != nil {
			h.logger.Debug("toggle todo", slog.Int64("id", id), slog.Any("error", err))
		}
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *Handler) parseTodoForm(w http.ResponseWriter, r *http.Request) (todoForm, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return todoForm{}, false
	}
	priority, _ := strconv.Atoi(r.PostFormValue("priority"))
	return todoForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Priority:    priority,
	}, true
}

func todoID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "todoID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
