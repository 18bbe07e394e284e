package sessiongate

import "context"

type identityContextKey struct{}
type clientIPContextKey struct{}

// WithIdentity attaches a verified caller identity to ctx. Set by the
// session pipeline after access-token verification; business handlers and
// downstream authorization read it back with [IdentityFromContext].
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the verified identity attached to ctx, or
// false when the request is anonymous.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(string)
	if identity == "" {
		return "", false
	}
	return identity, ok
}

// WithClientIP attaches the caller's IP address to ctx for audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
