package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleai/mapleai/internal/shared"
)

func sampleClaims() shared.SessionClaims {
	return shared.SessionClaims{
		SubjectID: "user-1",
		Email:     "a@b.com",
		FirstName: "A",
		LastName:  "B",
		Role:      shared.RoleAdmin,
		CompanyID: "company-1",
		Company: shared.CompanySnapshot{
			ID:       "company-1",
			Name:     "Acme",
			Industry: "Technology",
			Size:     "SMALL_1_10",
		},
		Subscription: shared.SubscriptionSnapshot{
			ID:       "sub-1",
			Plan:     shared.PlanStarter,
			Amount:   2500,
			MaxUsers: 100,
		},
	}
}

func TestTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	claims := sampleClaims()
	token, err := issuer.Issue(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotContains(t, token, "Acme", "claims must be encoded, not embedded raw")

	decoded, err := issuer.Read(token)
	require.NoError(t, err)
	assert.Equal(t, claims, decoded)
}

func TestTokenExpiry(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(sampleClaims())
	require.NoError(t, err)

	// Shift verification time past the expiry window.
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Read(token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestTokenReadRejectsGarbage(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Read(token)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated, "token %q", token)
	}
}

func TestTokenReadRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("secret-one", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenIssuer("secret-two", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(sampleClaims())
	require.NoError(t, err)

	_, err = other.Read(token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}
