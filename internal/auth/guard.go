package auth

import (
	"net/http"
	"strings"

	"github.com/mapleai/mapleai/internal/platform/httpx"
	"github.com/mapleai/mapleai/internal/shared"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "mapleai_session"

// DefaultProtectedPrefixes are the path prefixes requiring a valid session.
var DefaultProtectedPrefixes = []string{"/dashboard", "/api/dashboard"}

// Guard gates access to protected path prefixes. It is stateless: each
// request is judged purely on the path and on whatever the token proves.
type Guard struct {
	issuer    *TokenIssuer
	prefixes  []string
	loginPath string
}

// NewGuard constructs a Guard. When prefixes is empty the defaults apply.
func NewGuard(issuer *TokenIssuer, prefixes ...string) *Guard {
	if len(prefixes) == 0 {
		prefixes = DefaultProtectedPrefixes
	}
	return &Guard{issuer: issuer, prefixes: prefixes, loginPath: "/auth/login"}
}

// Protected reports whether the path falls under a guarded prefix.
func (g *Guard) Protected(path string) bool {
	for _, prefix := range g.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Middleware verifies the session token on every request. Valid claims are
// placed in the request context regardless of path; protected paths without
// valid claims are denied. Browser requests are redirected to the login
// page, API requests get a 401.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.readToken(r)
		if err == nil {
			r = r.WithContext(shared.ContextWithClaims(r.Context(), &claims))
		}
		if g.Protected(r.URL.Path) && err != nil {
			g.deny(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) readToken(r *http.Request) (shared.SessionClaims, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return shared.SessionClaims{}, shared.ErrUnauthenticated
	}
	return g.issuer.Read(cookie.Value)
}

func (g *Guard) deny(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
}
