// ABOUTME: Credential store adapter interface consumed by both auth chains
// ABOUTME: Separates "bad credentials" from "backend unreachable"

package auth

import (
	"context"
	"errors"
)

// ErrAuthenticationFailed is returned when a login/password pair does not
// match. It is deliberately the same error for unknown logins and wrong
// passwords.
var ErrAuthenticationFailed = errors.New("authentication failed")

// CredentialStore resolves a login/password pair to the principal's role
// set. Implementations may block (LDAP, database); callers must treat the
// call as a suspending step and pass a request-scoped context.
//
// A failed match returns ErrAuthenticationFailed. Any other error means the
// backend itself failed and must surface as a request-level failure, not as
// a denied login.
type CredentialStore interface {
	Authenticate(ctx context.Context, login, password string) (roles []string, err error)
}
