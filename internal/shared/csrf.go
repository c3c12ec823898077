package shared

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
)

const (
	// CSRFCookieName is the cookie carrying the issued token.
	CSRFCookieName = "mapleai_csrf"
	// CSRFFormField is the form field name carrying the CSRF token.
	CSRFFormField = "csrf_token"
	// CSRFHeader is the header alternative for non-form clients.
	CSRFHeader = "X-CSRF-Token"

	csrfNonceLen = 16
)

// CSRFManager issues and verifies double-submit CSRF tokens. Sessions are
// stateless signed tokens, so the token is self-authenticating: a random
// nonce plus an HMAC over it, delivered both as a cookie and as a form
// field, compared on submit.
type CSRFManager struct {
	secret []byte
	secure bool
}

// NewCSRFManager returns a CSRFManager using the provided secret key.
func NewCSRFManager(secret string, secure bool) *CSRFManager {
	return &CSRFManager{secret: []byte(secret), secure: secure}
}

// EnsureToken returns the request's CSRF token, minting and setting the
// cookie when absent or invalid.
func (m *CSRFManager) EnsureToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil {
		if m.validate(cookie.Value) {
			return cookie.Value, nil
		}
	}
	token, err := m.generateToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// VerifyToken compares the submitted token with the cookie token.
func (m *CSRFManager) VerifyToken(r *http.Request, token string) error {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return ErrCSRFTokenMissing
	}
	if token == "" {
		return ErrCSRFTokenMissing
	}
	if !m.validate(cookie.Value) {
		return ErrCSRFTokenMismatch
	}
	if !hmac.Equal([]byte(cookie.Value), []byte(token)) {
		return ErrCSRFTokenMismatch
	}
	return nil
}

func (m *CSRFManager) generateToken() (string, error) {
	nonce := make([]byte, csrfNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(append(nonce, m.sign(nonce)...)), nil
}

func (m *CSRFManager) validate(token string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) <= csrfNonceLen {
		return false
	}
	return hmac.Equal(raw[csrfNonceLen:], m.sign(raw[:csrfNonceLen]))
}

func (m *CSRFManager) sign(nonce []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	_, _ = mac.Write(nonce)
	return mac.Sum(nil)
}
