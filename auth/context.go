package auth

import "context"

type identityKey struct{}

// WithIdentity attaches the caller's identity to ctx.
//
// The Flight interceptors call it once per request after the bearer token is
// accepted. Operations started by the request keep the identity after the
// request returns, so catalog services see it for the whole listing.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity the request was authenticated as.
// It is empty when the server runs without an authenticator.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey{}).(string)
	return identity
}
