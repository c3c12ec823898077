package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapleai/mapleai/internal/platform/httpx"
	"github.com/mapleai/mapleai/internal/shared"
)

// EventTracker records usage events without affecting request outcomes.
type EventTracker interface {
	Track(ctx context.Context, name string, props map[string]string)
}

// Handler serves the dashboard JSON API. Every route here sits behind the
// session guard; the claims in context are the tenant identity.
type Handler struct {
	logger  *slog.Logger
	service *Service
	tracker EventTracker
}

// NewHandler constructs a Handler instance. tracker may be nil.
func NewHandler(logger *slog.Logger, service *Service, tracker EventTracker) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, tracker: tracker}
}

// MountRoutes registers dashboard routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.overview)
	r.Get("/{section}", h.section)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())
	if claims == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	overview, err := h.service.Overview(r.Context(), *claims)
	if err != nil {
		h.logger.Error("dashboard overview", slog.String("company_id", claims.CompanyID), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	h.track(r.Context(), claims.SubjectID, "main_dashboard")
	httpx.JSON(w, http.StatusOK, overview)
}

func (h *Handler) section(w http.ResponseWriter, r *http.Request) {
	claims := shared.ClaimsFromContext(r.Context())
	if claims == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	key := chi.URLParam(r, "section")
	section, err := h.service.SectionFor(r.Context(), *claims, key)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.track(r.Context(), claims.SubjectID, key)
	httpx.JSON(w, http.StatusOK, section)
}

func (h *Handler) track(ctx context.Context, userID, section string) {
	if h.tracker == nil {
		return
	}
	h.tracker.Track(ctx, "dashboard_access", map[string]string{"section": section, "user_id": userID})
}
