package middleware

import "context"

type principalKey struct{}

// WithPrincipal returns a context carrying the authenticated user id.
func WithPrincipal(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, principalKey{}, userID)
}

// PrincipalID extracts the authenticated user id from a context, or ""
// when the request is anonymous.
func PrincipalID(ctx context.Context) string {
	id, _ := ctx.Value(principalKey{}).(string)
	return id
}

// ContextIdentity resolves the acting principal from the request
// context populated by the auth middleware. It implements
// domain.IdentityProvider.
type ContextIdentity struct{}

func (ContextIdentity) CurrentPrincipalID(ctx context.Context) string {
	return PrincipalID(ctx)
}
