package shared

import "context"

type claimsContextKey struct{}

// ContextWithClaims stores verified session claims in context.
func ContextWithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts session claims from context. Returns nil when
// the request carries no verified session.
func ClaimsFromContext(ctx context.Context) *SessionClaims {
	claims, _ := ctx.Value(claimsContextKey{}).(*SessionClaims)
	return claims
}
