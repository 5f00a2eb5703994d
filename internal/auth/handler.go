package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskfolio/taskfolio/internal/shared"
	"github.com/taskfolio/taskfolio/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *Gate
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *Gate, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		gate:      gate,
		templates: templates,
		csrf:      csrf,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showLogin)
	r.Post("/", h.handleLogin)
	r.Get("/logout", h.handleLogout)
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegister)
	r.Post("/token", h.handleToken)
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type registerForm struct {
	Email     string `validate:"required,email"`
	Username  string `validate:"required"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string
	Password  string `validate:"required"`
	Password2 string `validate:"required,eqfield=Password"`
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title, msg string) {
	data := view.TemplateData{
		Title:       title,
		Msg:         msg,
		User:        shared.IdentityFromContext(r.Context()),
		CurrentPath: r.URL.Path,
	}
	if err := h.templates.Render(w, page, data); err != nil {
		h.logger.Error("render "+page, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/login.html", "Login", "")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validator.Struct(form); err != nil {
		h.render(w, r, "pages/login.html", "Login", "Incorrect Username or Password")
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		h.render(w, r, "pages/login.html", "Login", "Incorrect Username or Password")
		return
	}

	token, err := h.service.IssueToken(user)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.gate.SetCookie(w, token, h.service.LoginTTL())
	http.Redirect(w, r, "/todos", http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.gate.ClearCookie(w)
	// The identity derived from the old cookie must not leak into the page.
	ctx := shared.ContextWithIdentity(r.Context(), nil)
	h.render(w, r.WithContext(ctx), "pages/login.html", "Login", "Logout Successful!")
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/register.html", "Register", "")
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := registerForm{
		Email:     r.PostFormValue("email"),
		Username:  r.PostFormValue("username"),
		FirstName: r.PostFormValue("firstname"),
		LastName:  r.PostFormValue("lastname"),
		Phone:     r.PostFormValue("phone"),
		Password:  r.PostFormValue("password"),
		Password2: r.PostFormValue("password2"),
	}
	if err := h.validator.Struct(form); err != nil {
		h.render(w, r, "pages/register.html", "Register", "Invalid registration request!")
		return
	}

	_, err := h.service.Register(r.Context(), RegisterParams{
		Username:    form.Username,
		Email:       form.Email,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: form.Phone,
	}, form.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicateIdentity) {
			h.logger.Error("register user", slog.Any("error", err))
		}
		h.render(w, r, "pages/register.html", "Register", "Invalid registration request!")
		return
	}

	h.render(w, r, "pages/login.html", "Login", "User successfully created!")
}

// handleToken is the form-encoded token endpoint. On success it sets the
// session cookie and returns the public user record; on failure it sets no
// cookie and returns a null body.
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	user, err := h.service.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		_, _ = w.Write([]byte("null"))
		return
	}

	token, err := h.service.IssueToken(user)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.gate.SetCookie(w, token, h.service.LoginTTL())
	if err := json.NewEncoder(w).Encode(user.Public()); err != nil {
		h.logger.Error("encode user", slog.Any("error", err))
	}
}
