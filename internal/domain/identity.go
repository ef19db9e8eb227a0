package domain

import "context"

// IdentityProvider resolves the acting principal for a request.
// Implementations return "" when nobody is authenticated.
type IdentityProvider interface {
	CurrentPrincipalID(ctx context.Context) string
}

// StaticIdentity always reports the same principal. Used in tests.
type StaticIdentity string

func (s StaticIdentity) CurrentPrincipalID(_ context.Context) string {
	return string(s)
}
