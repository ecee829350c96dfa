package flight

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/hugr-lab/hivemeta-go/catalog"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const metaKey contextKey = iota

// Metadata header keys.
const (
	// HeaderAuthorization is the gRPC metadata header for authorization token.
	HeaderAuthorization = "authorization"
	// HeaderSessionID is the gRPC metadata header carrying the client session handle.
	HeaderSessionID = "hivemeta-session-id"
	// HeaderTraceID is the gRPC metadata header for distributed trace identifier.
	HeaderTraceID = "hivemeta-trace-id"
)

// ContextMeta holds the request headers relevant to the metadata server.
type ContextMeta struct {
	Authorization string
	SessionID     string
	TraceID       string
}

// WithContextMeta stores meta in ctx.
func WithContextMeta(ctx context.Context, meta ContextMeta) context.Context {
	return context.WithValue(ctx, metaKey, &meta)
}

// MetaFromContext returns the stored metadata, or nil if the context was not enriched.
func MetaFromContext(ctx context.Context) *ContextMeta {
	meta, _ := ctx.Value(metaKey).(*ContextMeta)
	return meta
}

// AuthorizationFromContext retrieves the authorization header from context.
func AuthorizationFromContext(ctx context.Context) string {
	if meta := MetaFromContext(ctx); meta != nil {
		return meta.Authorization
	}
	return ""
}

// SessionIDFromContext returns the session header, or empty string if not set.
func SessionIDFromContext(ctx context.Context) string {
	if meta := MetaFromContext(ctx); meta != nil {
		return meta.SessionID
	}
	return ""
}

// TraceIDFromContext returns the trace ID from context, or empty string if not set.
func TraceIDFromContext(ctx context.Context) string {
	if meta := MetaFromContext(ctx); meta != nil {
		return meta.TraceID
	}
	return ""
}

// EnrichContextMetadata extracts metadata from gRPC context and
// returns a new context with the metadata stored.
// If the context is already enriched, it is returned unchanged.
func EnrichContextMetadata(ctx context.Context) context.Context {
	if MetaFromContext(ctx) != nil {
		return ctx
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}

	var meta ContextMeta
	if values := md.Get(HeaderAuthorization); len(values) > 0 {
		meta.Authorization = values[0]
	}
	if values := md.Get(HeaderSessionID); len(values) > 0 {
		meta.SessionID = values[0]
	}
	if values := md.Get(HeaderTraceID); len(values) > 0 {
		meta.TraceID = values[0]
	}

	return WithContextMeta(ctx, meta)
}

// sessionFromContext resolves the session of a request. A request without a
// session header runs in a fresh anonymous session, which resolves to the
// service's default catalog.
func sessionFromContext(ctx context.Context) (session catalog.SessionHandle, explicit bool, err error) {
	id := SessionIDFromContext(ctx)
	if id == "" {
		return catalog.NewSessionHandle(), false, nil
	}
	session, err = catalog.ParseSessionHandle(id)
	if err != nil {
		return catalog.SessionHandle{}, false, err
	}
	return session, true, nil
}
