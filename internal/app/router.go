package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mapleai/mapleai/internal/auth"
	"github.com/mapleai/mapleai/internal/dashboard"
	"github.com/mapleai/mapleai/internal/observability"
	"github.com/mapleai/mapleai/internal/shared"
	"github.com/mapleai/mapleai/internal/view"
	"github.com/mapleai/mapleai/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Templates        *view.Engine
	Guard            *auth.Guard
	CSRFManager      *shared.CSRFManager
	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with MapleAI defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:      params.Logger,
		Config:      params.Config,
		Guard:       params.Guard,
		CSRFManager: params.CSRFManager,
		Metrics:     params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Marketing landing page. Authenticated visitors go straight to the
	// dashboard.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if claims := shared.ClaimsFromContext(r.Context()); claims != nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		renderPage(params, w, r, "pages/landing.html", "Enterprise AI Platform", nil)
	})

	r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		renderPage(params, w, r, "pages/dashboard.html", "Dashboard", map[string]any{
			"Sections": dashboard.SectionKeys,
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(CredentialRateLimit())
		params.AuthHandler.MountPageRoutes(r)
	})
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(CredentialRateLimit())
		params.AuthHandler.MountAPIRoutes(r)
	})
	r.Route("/api/dashboard", params.DashboardHandler.MountRoutes)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

func renderPage(params RouterParams, w http.ResponseWriter, r *http.Request, page, title string, data any) {
	csrfToken := ""
	if params.CSRFManager != nil {
		var err error
		if csrfToken, err = params.CSRFManager.EnsureToken(w, r); err != nil {
			params.Logger.Warn("ensure csrf token", slog.Any("error", err))
		}
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Claims:      shared.ClaimsFromContext(r.Context()),
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := params.Templates.Render(w, page, viewData); err != nil {
		params.Logger.Error("render page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
