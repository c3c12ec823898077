package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleai/mapleai/internal/shared"
)

type recordingTracker struct {
	names []string
}

func (t *recordingTracker) Track(ctx context.Context, name string, props map[string]string) {
	t.names = append(t.names, name)
}

func apiRouter(t *testing.T, repo Repository) (*chi.Mux, *recordingTracker) {
	t.Helper()
	issuer, err := NewTokenIssuer("handler-test-secret", time.Hour)
	require.NoError(t, err)
	tracker := &recordingTracker{}
	handler := NewHandler(nil, NewService(repo, nil, nil), issuer, nil, nil, tracker, false)
	router := chi.NewRouter()
	router.Route("/api/auth", handler.MountAPIRoutes)
	return router, tracker
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAPIRegisterCreatesUser(t *testing.T) {
	router, tracker := apiRouter(t, newMockRepo())

	body := `{"firstName":"Jane","lastName":"Doe","email":"jane@acme.com","password":"pw123456","company":"Acme","plan":"starter"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Message string `json:"message"`
		User    struct {
			Email   string      `json:"email"`
			Role    shared.Role `json:"role"`
			Company struct {
				Name string `json:"name"`
			} `json:"company"`
			Subscription struct {
				Plan shared.PlanType `json:"plan"`
			} `json:"subscription"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User created successfully", resp.Message)
	assert.Equal(t, "jane@acme.com", resp.User.Email)
	assert.Equal(t, shared.RoleAdmin, resp.User.Role)
	assert.Equal(t, "Acme", resp.User.Company.Name)
	assert.Equal(t, shared.PlanStarter, resp.User.Subscription.Plan)

	assert.NotContains(t, w.Body.String(), "pw123456")
	assert.NotContains(t, strings.ToLower(w.Body.String()), "passwordhash")
	assert.Contains(t, tracker.names, "user_registration")
}

func TestAPIRegisterMissingFields(t *testing.T) {
	router, _ := apiRouter(t, newMockRepo())

	body := `{"firstName":"Jane","lastName":"Doe","email":"jane@acme.com","company":"Acme","plan":"starter"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var problem struct {
		Title  string   `json:"title"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "Missing required fields", problem.Title)
	assert.Contains(t, problem.Fields, "password")
}

func TestAPIRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	repo.accounts["jane@acme.com"] = storedAccount(t, "jane@acme.com", "pw123456")
	router, _ := apiRouter(t, repo)

	body := `{"firstName":"Jane","lastName":"Doe","email":"jane@acme.com","password":"pw123456","company":"Acme","plan":"starter"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestAPILoginSetsSessionCookie(t *testing.T) {
	repo := newMockRepo()
	repo.accounts["jane@acme.com"] = storedAccount(t, "jane@acme.com", "pw123456")
	router, tracker := apiRouter(t, repo)

	body := `{"email":"jane@acme.com","password":"pw123456"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Contains(t, tracker.names, "user_login")
}

func TestAPILoginAcceptsAnyIdentifierShape(t *testing.T) {
	repo := newMockRepo()
	repo.accounts["legacy-import"] = storedAccount(t, "legacy-import", "pw123456")
	router, _ := apiRouter(t, repo)

	// A stored identifier that is not a well-formed address must still reach
	// credential verification instead of failing request validation.
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"legacy-import","password":"pw123456"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	// An unknown odd identifier gets the credential failure, not a 400.
	r = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email","password":"pw123456"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Presence is still required.
	r = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"password":"pw123456"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPILoginWrongPassword(t *testing.T) {
	repo := newMockRepo()
	repo.accounts["jane@acme.com"] = storedAccount(t, "jane@acme.com", "pw123456")
	router, _ := apiRouter(t, repo)

	body := `{"email":"jane@acme.com","password":"nope1234"}`
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.Nil(t, sessionCookie(t, w))
}

func TestAPILoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	repo := newMockRepo()
	repo.accounts["jane@acme.com"] = storedAccount(t, "jane@acme.com", "pw123456")
	router, _ := apiRouter(t, repo)

	run := func(body string) (int, string) {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		return w.Code, w.Body.String()
	}

	unknownCode, unknownBody := run(`{"email":"nobody@acme.com","password":"pw123456"}`)
	wrongCode, wrongBody := run(`{"email":"jane@acme.com","password":"nope1234"}`)
	assert.Equal(t, wrongCode, unknownCode)
	assert.Equal(t, wrongBody, unknownBody)
}

func TestAPILogoutClearsCookie(t *testing.T) {
	router, _ := apiRouter(t, newMockRepo())

	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}
