package ports

import "context"

// IdentityResolver turns the credentials sent with a request into the owning user's id.
type IdentityResolver interface {
	// Resolve returns the user id for an Authorization header value, "" for anonymous callers.
	Resolve(ctx context.Context, authorization string) (string, error)
}
