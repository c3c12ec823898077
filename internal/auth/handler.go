package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mapleai/mapleai/internal/platform/httpx"
	"github.com/mapleai/mapleai/internal/shared"
	"github.com/mapleai/mapleai/internal/view"
)

// EventTracker records usage events without affecting request outcomes.
type EventTracker interface {
	Track(ctx context.Context, name string, props map[string]string)
}

// Handler wires HTTP endpoints for authentication flows. It serves both the
// JSON API under /api/auth and the HTML form pages under /auth.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	issuer       *TokenIssuer
	templates    *view.Engine
	csrfManager  *shared.CSRFManager
	tracker      EventTracker
	validator    *validator.Validate
	secureCookie bool
}

// NewHandler constructs a Handler instance. templates and tracker may be nil.
func NewHandler(logger *slog.Logger, service *Service, issuer *TokenIssuer, templates *view.Engine, csrf *shared.CSRFManager, tracker EventTracker, secureCookie bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:       logger,
		service:      service,
		issuer:       issuer,
		templates:    templates,
		csrfManager:  csrf,
		tracker:      tracker,
		validator:    validator.New(),
		secureCookie: secureCookie,
	}
}

// MountAPIRoutes registers the JSON endpoints on the provided router.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Post("/login", h.apiLogin)
	r.Post("/register", h.apiRegister)
	r.Post("/logout", h.apiLogout)
}

// MountPageRoutes registers the HTML form endpoints on the provided router.
func (h *Handler) MountPageRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLoginForm)
	r.Get("/register", h.showRegister)
	r.Post("/register", h.handleRegisterForm)
	r.Post("/logout", h.handleLogoutForm)
}

// loginRequest only checks presence: the submitted email is an opaque
// lookup key at login time, however it is shaped.
type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Company     string `json:"company" validate:"required"`
	CompanySize string `json:"companySize"`
	Industry    string `json:"industry"`
	Plan        string `json:"plan" validate:"required"`
}

// userResponse is the registration/login payload: the stored user with the
// password hash stripped.
type userResponse struct {
	ID           string                      `json:"id"`
	FirstName    string                      `json:"firstName"`
	LastName     string                      `json:"lastName"`
	Email        string                      `json:"email"`
	Role         shared.Role                 `json:"role"`
	CompanyID    string                      `json:"companyId"`
	Company      shared.CompanySnapshot      `json:"company"`
	Subscription shared.SubscriptionSnapshot `json:"subscription"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

func accountResponse(account *Account) userResponse {
	claims := account.Claims()
	return userResponse{
		ID:           account.User.ID,
		FirstName:    account.User.FirstName,
		LastName:     account.User.LastName,
		Email:        account.User.Email,
		Role:         account.User.Role,
		CompanyID:    account.User.CompanyID,
		Company:      claims.Company,
		Subscription: claims.Subscription,
		CreatedAt:    account.User.CreatedAt,
		UpdatedAt:    account.User.UpdatedAt,
	}
}

func (h *Handler) apiLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.NewValidationError("email", "password"))
		return
	}
	if fields := h.missingFields(req); len(fields) > 0 {
		httpx.RespondError(w, httpx.NewValidationError(fields...))
		return
	}

	claims, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	if err := h.setSessionCookie(w, claims); err != nil {
		h.logger.Error("issue session token", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	h.track(r.Context(), "user_login", map[string]string{"method": "credentials", "user_id": claims.SubjectID})
	httpx.JSON(w, http.StatusOK, map[string]any{"user": claims})
}

func (h *Handler) apiRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.NewValidationError("firstName", "lastName", "email", "password", "company", "plan"))
		return
	}
	if fields := h.missingFields(req); len(fields) > 0 {
		httpx.RespondError(w, httpx.NewValidationError(fields...))
		return
	}

	account, err := h.service.Register(r.Context(), RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Company:     req.Company,
		CompanySize: req.CompanySize,
		Industry:    req.Industry,
		Plan:        req.Plan,
	})
	if err != nil {
		h.respondAuthError(w, r, err)
		return
	}
	h.track(r.Context(), "user_registration", map[string]string{"user_id": account.User.ID, "plan": string(account.Subscription.Plan)})
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    accountResponse(account),
	})
}

func (h *Handler) apiLogout(w http.ResponseWriter, r *http.Request) {
	if claims := shared.ClaimsFromContext(r.Context()); claims != nil {
		h.track(r.Context(), "user_logout", map[string]string{"user_id": claims.SubjectID})
	}
	h.clearSessionCookie(w)
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (h *Handler) respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrDuplicate):
		httpx.RespondError(w, err)
	default:
		h.logger.Error("auth request", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// missingFields runs struct validation and returns the JSON names of the
// failed fields.
func (h *Handler) missingFields(req any) []string {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"payload"}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, jsonFieldName(fe.Field()))
	}
	return fields
}

func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return string(structField[0]|0x20) + structField[1:]
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, claims shared.SessionClaims) error {
	token, err := h.issuer.Issue(claims)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(h.issuer.TTL()),
	})
	return nil
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) track(ctx context.Context, name string, props map[string]string) {
	if h.tracker == nil {
		return
	}
	h.tracker.Track(ctx, name, props)
}

// HTML form flows.

type loginForm struct {
	Email    string
	Password string
}

type loginPageData struct {
	Form   loginForm
	Errors map[string]string
}

type registerForm struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Company     string
	CompanySize string
	Industry    string
	Plan        string
}

type registerPageData struct {
	Form   registerForm
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, loginPageData{})
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if form.Email == "" || form.Password == "" {
		h.renderLogin(w, r, http.StatusBadRequest, loginPageData{
			Form:   loginForm{Email: form.Email},
			Errors: map[string]string{"general": "Email and password are required"},
		})
		return
	}

	claims, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("login", slog.Any("error", err))
		}
		h.renderLogin(w, r, http.StatusBadRequest, loginPageData{
			Form:   loginForm{Email: form.Email},
			Errors: map[string]string{"general": "Invalid email or password"},
		})
		return
	}
	if err := h.setSessionCookie(w, claims); err != nil {
		h.logger.Error("issue session token", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.track(r.Context(), "user_login", map[string]string{"method": "credentials", "user_id": claims.SubjectID})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, http.StatusOK, registerPageData{Form: registerForm{Plan: "professional"}})
}

func (h *Handler) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := registerForm{
		FirstName:   r.PostFormValue("first_name"),
		LastName:    r.PostFormValue("last_name"),
		Email:       r.PostFormValue("email"),
		Password:    r.PostFormValue("password"),
		Company:     r.PostFormValue("company"),
		CompanySize: r.PostFormValue("company_size"),
		Industry:    r.PostFormValue("industry"),
		Plan:        r.PostFormValue("plan"),
	}
	errs := make(map[string]string)
	for field, value := range map[string]string{
		"first_name": form.FirstName,
		"last_name":  form.LastName,
		"email":      form.Email,
		"password":   form.Password,
		"company":    form.Company,
		"plan":       form.Plan,
	} {
		if value == "" {
			errs[field] = "required"
		}
	}
	if len(errs) > 0 {
		errs["general"] = "Missing required fields"
		h.renderRegister(w, r, http.StatusBadRequest, registerPageData{Form: form, Errors: errs})
		return
	}

	account, err := h.service.Register(r.Context(), RegisterInput{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Password:    form.Password,
		Company:     form.Company,
		CompanySize: form.CompanySize,
		Industry:    form.Industry,
		Plan:        form.Plan,
	})
	if err != nil {
		msg := "Registration failed"
		if errors.Is(err, shared.ErrDuplicate) {
			msg = "User already exists"
		} else {
			h.logger.Error("register", slog.Any("error", err))
		}
		h.renderRegister(w, r, http.StatusBadRequest, registerPageData{
			Form:   form,
			Errors: map[string]string{"general": msg},
		})
		return
	}
	h.track(r.Context(), "user_registration", map[string]string{"user_id": account.User.ID, "plan": string(account.Subscription.Plan)})
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) handleLogoutForm(w http.ResponseWriter, r *http.Request) {
	if claims := shared.ClaimsFromContext(r.Context()); claims != nil {
		h.track(r.Context(), "user_logout", map[string]string{"user_id": claims.SubjectID})
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginPageData) {
	h.renderPage(w, r, status, "pages/login.html", "Sign in", data)
}

func (h *Handler) renderRegister(w http.ResponseWriter, r *http.Request, status int, data registerPageData) {
	h.renderPage(w, r, status, "pages/register.html", "Create your account", data)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	csrfToken := ""
	if h.csrfManager != nil {
		var err error
		if csrfToken, err = h.csrfManager.EnsureToken(w, r); err != nil {
			h.logger.Warn("ensure csrf token", slog.Any("error", err))
		}
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Claims:      shared.ClaimsFromContext(r.Context()),
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
