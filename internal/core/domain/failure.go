package domain

import "context"

// DefaultUserErrorStatus is the status used for user-facing errors that do not carry one.
const DefaultUserErrorStatus = 400

// UserError is an error whose message is safe to show to the caller.
// Handlers return it to reject a call with a specific status and message.
type UserError struct {
	StatusCode int
	Message    string
}

// NewUserError creates a UserError. A zero status falls back to DefaultUserErrorStatus.
func NewUserError(status int, message string) *UserError {
	if status == 0 {
		status = DefaultUserErrorStatus
	}
	return &UserError{StatusCode: status, Message: message}
}

func (e *UserError) Error() string {
	return e.Message
}

// Failure is the caller-visible form of an error after it went through an error guard.
type Failure struct {
	StatusCode int
	Message    string
}

type ownerKey struct{}

// WithOwner returns a context carrying the identity of the calling user.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFrom returns the calling user stored in ctx, or "" for anonymous calls.
func OwnerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}
