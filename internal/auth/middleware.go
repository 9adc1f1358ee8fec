// ABOUTME: HTTP guard middleware for the API route chain
// ABOUTME: Bearer-token identity guard plus declarative per-route capability guards

package auth

import (
	"errors"
	"net/http"
	"strings"
)

// ErrAuthorizationDenied is returned when an authenticated principal lacks
// the capability a route requires.
var ErrAuthorizationDenied = errors.New("authorization denied")

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and false if the header is missing or malformed.
func extractBearerToken(authHeader string) (string, bool) {
	if authHeader == "" {
		return "", false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

// unauthorized answers with a bare 401. A missing token and an invalid one
// are deliberately indistinguishable to the client.
func unauthorized(w http.ResponseWriter) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// TokenMiddleware creates the identity guard for API routes. It verifies the
// bearer token and attaches the principal with its frozen capabilities to
// the request context. Requests without a valid token never reach the next
// handler.
func TokenMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireCapability creates a guard that rejects requests whose principal
// lacks the selected capability. It must run after an identity guard has
// attached the principal. The capability a route requires is declared once,
// at registration.
func RequireCapability(pick func(Capabilities) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := FromContext(r.Context())
			if principal == nil {
				unauthorized(w)
				return
			}

			if !pick(principal.Caps) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Capability selectors for route registration.
var (
	CanRead   = func(c Capabilities) bool { return c.CanRead }
	CanCreate = func(c Capabilities) bool { return c.CanCreate }
	CanUpdate = func(c Capabilities) bool { return c.CanUpdate }
	CanDelete = func(c Capabilities) bool { return c.CanDelete }
)

// Chain applies middlewares to a handler in declaration order: the first
// middleware is the outermost guard.
func Chain(h http.Handler, guards ...func(http.Handler) http.Handler) http.Handler {
	for i := len(guards) - 1; i >= 0; i-- {
		h = guards[i](h)
	}
	return h
}
