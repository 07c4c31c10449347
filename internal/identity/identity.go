// Package identity wraps the external authentication provider. The rest of
// the system only sees the Service interface and AuthError; session tokens
// and provider wire formats stay inside this package.
package identity

import "context"

// Identity is a signed-in account. Its UID scopes the remote tenant.
type Identity struct {
	UID   string
	Email string
}

// AuthError carries the provider's human-readable cause. It is surfaced to
// the user verbatim.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// Service is the identity provider boundary: sign-up, sign-in, sign-out and
// a subscription to identity transitions.
//
//go:generate mockgen -source=identity.go -destination=identity_mock.go -package=identity
type Service interface {
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignOut(ctx context.Context) error

	// Current returns the signed-in identity, or nil.
	Current() *Identity

	// OnAuthStateChanged registers a listener that is invoked immediately
	// with the current identity (possibly nil) and again on every
	// transition. The returned function removes the listener.
	OnAuthStateChanged(fn func(*Identity)) (unsubscribe func())
}
