package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskfolio/taskfolio/internal/auth"
	"github.com/taskfolio/taskfolio/internal/shared"
	"github.com/taskfolio/taskfolio/internal/view"
)

// Handler wires HTTP endpoints for account maintenance. All routes are
// mounted behind auth.RequireAuth.
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

// MountRoutes registers user routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/edit-password", h.showPasswordChange)
	r.Post("/edit-password", h.handlePasswordChange)
	r.Get("/edit-address", h.showAddress)
	r.Post("/edit-address", h.handleAddress)
}

type passwordForm struct {
	Username  string `validate:"required"`
	Password  string `validate:"required"`
	Password2 string `validate:"required"`
}

type addressForm struct {
	Address1   string `validate:"required"`
	Address2   string
	AptNum     string
	City       string `validate:"required"`
	State      string `validate:"required"`
	Country    string `validate:"required"`
	Postalcode string `validate:"required"`
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

func (h *Handler) showPasswordChange(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/change-password.html", "Change Password", "", nil)
}

func (h *Handler) handlePasswordChange(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := passwordForm{
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		Password2: r.PostFormValue("password2"),
	}
	if err := h.validator.Struct(form); err != nil {
		h.render(w, r, "pages/change-password.html", "Change Password", "Invalid username or password", nil)
		return
	}

	err := h.service.ChangePassword(r.Context(), identity, form.Username, form.Password, form.Password2)
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("change password", slog.Any("error", err))
		}
		h.render(w, r, "pages/change-password.html", "Change Password", "Invalid username or password", nil)
		return
	}

	h.render(w, r, "pages/change-password.html", "Change Password", "Password updated", nil)
}

func (h *Handler) showAddress(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	addr, err := h.service.Address(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("load address", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/edit-address.html", "Address", "", addr)
}

func (h *Handler) handleAddress(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	form := addressForm{
		Address1:   r.PostFormValue("address1"),
		Address2:   r.PostFormValue("address2"),
		AptNum:     r.PostFormValue("apt_num"),
		City:       r.PostFormValue("city"),
		State:      r.PostFormValue("state"),
		Country:    r.PostFormValue("country"),
		Postalcode: r.PostFormValue("postalcode"),
	}
	if err := h.validator.Struct(form); err != nil {
		h.render(w, r, "pages/edit-address.html", "Address", "All address fields are required", nil)
		return
	}

	addr := &Address{
		Address1:   form.Address1,
		City:       form.City,
		State:      form.State,
		Country:    form.Country,
		Postalcode: form.Postalcode,
	}
	if form.Address2 != "" {
		addr.Address2 = &form.Address2
	}
	if form.AptNum != "" {
		if n, err := strconv.Atoi(form.AptNum); err == nil {
			addr.AptNum = &n
		}
	}

	if err := h.service.SaveAddress(r.Context(), identity.UserID, addr); err != nil {
		h.logger.Error("save address", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/edit-address.html", "Address", "Address updated", addr)
}
