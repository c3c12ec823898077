package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleai/mapleai/internal/shared"
)

func TestRenderLoginPage(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	err = engine.Render(w, "pages/login.html", TemplateData{
		Title:       "Sign in",
		CSRFToken:   "csrf-token-value",
		CurrentPath: "/auth/login",
		Data: struct {
			Form   struct{ Email, Password string }
			Errors map[string]string
		}{},
	})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Contains(t, body, "<form")
	assert.Contains(t, body, "csrf-token-value")
	assert.Contains(t, body, "Sign in")
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestRenderDashboardShowsClaims(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	err = engine.Render(w, "pages/dashboard.html", TemplateData{
		Title:       "Dashboard",
		CurrentPath: "/dashboard",
		Claims: &shared.SessionClaims{
			FirstName: "Jane",
			LastName:  "Doe",
			Company:   shared.CompanySnapshot{Name: "Acme"},
			Subscription: shared.SubscriptionSnapshot{
				Plan:     shared.PlanEnterprise,
				MaxUsers: 0,
			},
		},
		Data: map[string]any{},
	})
	require.NoError(t, err)

	body := w.Body.String()
	assert.Contains(t, body, "Jane")
	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, "Enterprise")
}

func TestRenderUnknownTemplate(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	assert.Error(t, engine.Render(w, "pages/unknown.html", TemplateData{}))
}
