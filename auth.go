package hivemeta

import (
	"context"

	"github.com/hugr-lab/hivemeta-go/auth"
)

// Authenticator validates bearer tokens and returns user identity.
// This is re-exported from the auth package for convenience.
type Authenticator = auth.Authenticator

// BearerAuth creates an Authenticator from a validation function.
//
// Example:
//
//	auth := hivemeta.BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", hivemeta.ErrUnauthorized
//	    }
//	    return user.ID, nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return auth.BearerAuth(validateFunc)
}

// StaticTokens creates an Authenticator accepting a fixed token -> identity map.
func StaticTokens(tokens map[string]string) Authenticator {
	return auth.StaticTokens(tokens)
}

// NoAuth accepts any bearer token and names every caller "anonymous".
func NoAuth() Authenticator {
	return auth.NoAuth()
}

// IdentityFromContext returns the identity a request was authenticated as,
// or "" when the server has no authenticator. It is set for every catalog
// service call, including those made after the Flight call that started the
// operation has returned, so services can filter what each identity lists.
func IdentityFromContext(ctx context.Context) string {
	return auth.IdentityFromContext(ctx)
}
