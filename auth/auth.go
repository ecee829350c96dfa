// Package auth authenticates metadata clients by bearer token.
//
// A client sends "authorization: Bearer <token>" with every Flight call. The
// server maps the token to an identity string and attaches it to the request
// context. The identity is not tied to a session: one identity may open many
// sessions, and catalog services decide per call what that identity may list.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidAuthHeader reports an authorization header without the Bearer scheme.
	ErrInvalidAuthHeader = errors.New("authorization header must use Bearer scheme")

	// ErrTokenIsEmpty reports a Bearer header with no token.
	ErrTokenIsEmpty = errors.New("authorization token is empty")

	// ErrUnauthenticated reports a token the authenticator rejected.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Authenticator maps a bearer token to the caller's identity.
// It is called concurrently from every in-flight request.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

type anonymous struct{}

// NoAuth accepts any token and names every caller "anonymous".
// Servers configured without an authenticator skip the check altogether.
func NoAuth() Authenticator {
	return anonymous{}
}

func (anonymous) Authenticate(context.Context, string) (string, error) {
	return "anonymous", nil
}

const bearerPrefix = "Bearer "

// TokenFromAuthorizationHeader returns the token of a "Bearer <token>" header value.
func TokenFromAuthorizationHeader(header string) (string, error) {
	rest, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", ErrInvalidAuthHeader
	}
	token := strings.TrimSpace(rest)
	if token == "" {
		return "", ErrTokenIsEmpty
	}
	return token, nil
}

// ValidateToken authenticates token and returns ctx carrying the identity.
// Any authenticator failure becomes ErrUnauthenticated; the client never sees
// why a token was refused.
func ValidateToken(ctx context.Context, token string, authenticator Authenticator) (context.Context, error) {
	if token == "" {
		return ctx, ErrTokenIsEmpty
	}
	identity, err := authenticator.Authenticate(ctx, token)
	if err != nil {
		return ctx, ErrUnauthenticated
	}
	return WithIdentity(ctx, identity), nil
}
