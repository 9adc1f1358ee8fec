// ABOUTME: Shared helpers for auth package tests
// ABOUTME: Builds arbitrary signed JWTs for negative verification cases

package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// newTestToken signs an HS256 token with arbitrary claims, bypassing the
// codec so tests can produce structurally unusual tokens.
func newTestToken(t *testing.T, secret []byte, claims map[string]any) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}
