package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mapleai/mapleai/internal/shared"
)

// tokenClaims is the wire shape of a session token: the session claims plus
// the registered issued-at/expiry set.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email        string                      `json:"email"`
	FirstName    string                      `json:"first_name"`
	LastName     string                      `json:"last_name"`
	Role         shared.Role                 `json:"role"`
	CompanyID    string                      `json:"company_id"`
	Company      shared.CompanySnapshot      `json:"company"`
	Subscription shared.SubscriptionSnapshot `json:"subscription"`
}

// TokenIssuer signs and verifies session tokens. The signing key is a
// process-wide secret loaded once at startup; tokens are self-contained so
// the store is never consulted during verification.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. An empty secret is a
// configuration error: the process must not issue unsigned sessions.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("auth: session secret must be provided")
	}
	if ttl <= 0 {
		ttl = shared.SessionTTLDefault
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL exposes the configured token lifetime.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue produces a signed token embedding the claims with iat/exp.
func (i *TokenIssuer) Issue(claims shared.SessionClaims) (string, error) {
	now := i.now().UTC()
	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.SubjectID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email:        claims.Email,
		FirstName:    claims.FirstName,
		LastName:     claims.LastName,
		Role:         claims.Role,
		CompanyID:    claims.CompanyID,
		Company:      claims.Company,
		Subscription: claims.Subscription,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc)
	return token.SignedString(i.secret)
}

// Read verifies a token and reconstructs the embedded claims. Every failure
// mode (malformed input, bad signature, wrong algorithm, expiry) collapses
// to shared.ErrUnauthenticated: an invalid session is an expected outcome
// on any request, not an exceptional one.
func (i *TokenIssuer) Read(token string) (shared.SessionClaims, error) {
	if token == "" {
		return shared.SessionClaims{}, shared.ErrUnauthenticated
	}
	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return shared.SessionClaims{}, shared.ErrUnauthenticated
	}
	if parsed.Subject == "" || parsed.ExpiresAt == nil {
		return shared.SessionClaims{}, shared.ErrUnauthenticated
	}
	return shared.SessionClaims{
		SubjectID:    parsed.Subject,
		Email:        parsed.Email,
		FirstName:    parsed.FirstName,
		LastName:     parsed.LastName,
		Role:         parsed.Role,
		CompanyID:    parsed.CompanyID,
		Company:      parsed.Company,
		Subscription: parsed.Subscription,
	}, nil
}
