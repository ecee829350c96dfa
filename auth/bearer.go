package auth

import (
	"context"
	"crypto/subtle"
)

// bearerAuthenticator wraps a user-provided validation function.
type bearerAuthenticator struct {
	validateFunc func(token string) (identity string, err error)
}

// BearerAuth creates an Authenticator from a validation function.
//
// Example:
//
//	auth := BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", hivemeta.ErrUnauthorized
//	    }
//	    return user.ID, nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return &bearerAuthenticator{validateFunc: validateFunc}
}

func (b *bearerAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return b.validateFunc(token)
}

// StaticTokens returns an Authenticator accepting a fixed token -> identity map,
// as loaded from the server configuration. The map is copied.
func StaticTokens(tokens map[string]string) Authenticator {
	known := make(map[string]string, len(tokens))
	for token, identity := range tokens {
		known[token] = identity
	}
	return BearerAuth(func(token string) (string, error) {
		// Compare against every entry so timing does not reveal a prefix match.
		var identity string
		found := 0
		for candidate, id := range known {
			if subtle.ConstantTimeCompare([]byte(candidate), []byte(token)) == 1 {
				identity = id
				found = 1
			}
		}
		if found == 0 {
			return "", ErrUnauthenticated
		}
		return identity, nil
	})
}
